// Package kg implements the Kugou (KG) lyrics provider: a legacy signed
// mobile API for song search and a KRC-container lyrics download.
package kg

import (
	"context"
	"encoding/base64"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"

	"lyrics-fetch-go/cipherkit"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/parsers"
	"lyrics-fetch-go/services/providers"
)

const providerName = "kg"

type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

func (p *Provider) Name() string { return providerName }

// Search queries Kugou's complexsearch endpoint and falls back to the
// legacy mobile search API when complexsearch rejects the request (it is
// flaky and rate-limited in practice).
func (p *Provider) Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error) {
	ensureDfid()
	if page < 1 {
		page = 1
	}

	params := url.Values{
		"sorttype": {"0"},
		"keyword":  {keyword},
		"pagesize": {"20"},
		"page":     {strconv.Itoa(page)},
	}
	body, err := request("GET", "http://complexsearch.kugou.com/v2/search/song", params, "SearchSong",
		map[string]string{"x-router": "complexsearch.kugou.com"})
	if err != nil {
		log.Warnf("%s kg complexsearch failed, falling back to legacy search: %v", logcolors.LogWarning, err)
		return p.oldSearch(keyword, page)
	}

	var resp complexSearchResponse
	if err := unmarshalJSON(body, &resp); err != nil {
		return p.oldSearch(keyword, page)
	}

	songs := make([]lyrics.Song, 0, len(resp.Data.Lists))
	for _, info := range resp.Data.Lists {
		var artists []string
		for _, s := range info.Singers {
			if s.Name != "" {
				artists = append(artists, s.Name)
			}
		}
		songs = append(songs, lyrics.Song{
			Source:     lyrics.KG,
			ID:         stringifyID(info.ID),
			Title:      info.SongName,
			Artist:     lyrics.NewArtist(artists...),
			Album:      info.AlbumName,
			DurationMs: lyrics.IntPtr(info.Duration * 1000),
			Extra:      map[string]any{"hash": info.FileHash},
		})
	}
	return songs, nil
}

func (p *Provider) oldSearch(keyword string, page int) ([]lyrics.Song, error) {
	domain := randomLegacyDomain()
	params := url.Values{
		"showtype":  {"14"},
		"highlight": {""},
		"pagesize":  {"30"},
		"tag_aggr":  {"1"},
		"plat":      {"0"},
		"sver":      {"5"},
		"keyword":   {keyword},
		"correct":   {"1"},
		"api_ver":   {"1"},
		"version":   {"9108"},
		"page":      {strconv.Itoa(page)},
	}
	body, err := request("GET", "http://"+domain+"/api/v3/search/song", params, "SearchSong", nil)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg legacy search failed", err).WithSource(providerName)
	}

	var resp legacySearchResponse
	if err := unmarshalJSON(body, &resp); err != nil {
		return nil, lyricserr.NewProcessingError("kg legacy search response decode failed", err).WithSource(providerName)
	}

	songs := make([]lyrics.Song, 0, len(resp.Data.Info))
	for _, info := range resp.Data.Info {
		var artist lyrics.Artist
		if info.SingerName != "" {
			artist = lyrics.NewArtist(splitBy(info.SingerName, "、")...)
		}
		songs = append(songs, lyrics.Song{
			Source:     lyrics.KG,
			ID:         stringifyID(info.AlbumAudioID),
			Title:      info.SongName,
			Artist:     artist,
			Album:      info.AlbumName,
			DurationMs: lyrics.IntPtr(info.Duration * 1000),
			Extra:      map[string]any{"hash": info.Hash},
		})
	}
	return songs, nil
}

// FetchLyrics looks up the single best lyrics candidate Kugou reports for
// song (no local re-ranking — the upstream API already scopes candidates to
// the exact hash/id/duration triple) and downloads/decrypts it.
func (p *Provider) FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error) {
	hash, _ := song.Extra["hash"].(string)
	if song.ID == "" || song.DurationMs == nil || hash == "" || song.Title == "" {
		return nil, lyricserr.NewParamsError("kg missing hash/id/duration/title, cannot search lyrics", nil).WithSource(providerName)
	}

	keyword := song.Title
	if !song.Artist.Empty() {
		keyword = song.Artist.String("、") + " - " + song.Title
	}
	params := url.Values{
		"album_audio_id": {song.ID},
		"duration":       {strconv.Itoa(*song.DurationMs)},
		"hash":           {hash},
		"keyword":        {keyword},
		"lrctxt":         {"1"},
		"man":            {"no"},
	}
	body, err := request("GET", "https://lyrics.kugou.com/v1/search", params, "Lyric", nil)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg lyrics search failed", err).WithSource(providerName)
	}
	var searchResp lyricsSearchResponse
	if err := unmarshalJSON(body, &searchResp); err != nil || len(searchResp.Candidates) == 0 {
		return nil, lyricserr.NewNotFoundError("kg has no lyrics candidates", err).WithSource(providerName)
	}
	cand := searchResp.Candidates[0]

	dlParams := url.Values{
		"accesskey": {cand.AccessKey},
		"charset":   {"utf8"},
		"client":    {"mobi"},
		"fmt":       {"krc"},
		"id":        {stringifyID(cand.ID)},
		"ver":       {"1"},
	}
	dlBody, err := request("GET", "http://lyrics.kugou.com/download", dlParams, "Lyric", nil)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg lyrics download failed", err).WithSource(providerName)
	}
	var dlResp lyricsDownloadResponse
	if err := unmarshalJSON(dlBody, &dlResp); err != nil {
		return nil, lyricserr.NewProcessingError("kg download response decode failed", err).WithSource(providerName)
	}

	raw, err := base64.StdEncoding.DecodeString(dlResp.Content)
	if err != nil {
		return nil, lyricserr.NewDecryptError("kg lyrics content base64 decode failed", err).WithSource(providerName)
	}

	bundle := lyrics.NewLyricsBundle(song)

	if dlResp.ContentType == 2 {
		bundle.Orig = parsers.ParsePlaintext(string(raw))
	} else {
		decrypted, err := cipherkit.DecryptKRC(raw)
		if err != nil {
			return nil, err
		}
		tags, orig, ts, roma, err := parsers.ParseKRC(decrypted)
		if err != nil {
			return nil, err
		}
		for k, v := range tags {
			bundle.Tags[k] = v
		}
		bundle.Orig = orig
		bundle.TS = ts
		bundle.Roma = roma
	}

	if _, ok := bundle.Tags["ti"]; !ok {
		bundle.Tags["ti"] = song.Title
	}
	if _, ok := bundle.Tags["ar"]; !ok {
		bundle.Tags["ar"] = song.Artist.String()
	}
	if _, ok := bundle.Tags["al"]; !ok {
		bundle.Tags["al"] = song.Album
	}
	return bundle, nil
}

func init() {
	providers.GetRegistry().Register(NewProvider())
}
