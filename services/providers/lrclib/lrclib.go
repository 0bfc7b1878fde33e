// Package lrclib implements the LRCLIB provider: a plain, unauthenticated
// REST API with no session state or signing.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"lyrics-fetch-go/config"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/parsers"
	"lyrics-fetch-go/services/providers"
)

const (
	providerName = "lrclib"
	baseURL      = "https://lrclib.net/api"
	pageSize     = 20
)

var httpClient = &http.Client{Timeout: time.Duration(config.Get().Providers.LRCLIBTimeoutSeconds) * time.Second}

type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

func (p *Provider) Name() string { return providerName }

func (p *Provider) request(endpoint string, params url.Values) ([]byte, error) {
	reqURL := baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, lyricserr.NewRequestError("lrclib request build failed", err).WithSource(providerName)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lyrics-fetch-go/1.0")

	log.Debugf("%s requesting %s", logcolors.LogSearch, reqURL)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, lyricserr.NewRequestError("lrclib request failed", err).WithSource(providerName)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lyricserr.NewRequestError("lrclib response read failed", err).WithSource(providerName)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("lrclib API request failed: %d", resp.StatusCode), nil).WithSource(providerName)
	}
	return body, nil
}

func (p *Provider) Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error) {
	body, err := p.request("/search", url.Values{"q": {keyword}})
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, lyricserr.NewRequestError("lrclib /search response format unexpected", err).WithSource(providerName)
	}

	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	songs := make([]lyrics.Song, 0, end-start)
	for _, raw := range items[start:end] {
		song, ok := songFromSearchItem(raw)
		if ok {
			songs = append(songs, song)
		}
	}
	return songs, nil
}

func songFromSearchItem(raw map[string]any) (lyrics.Song, bool) {
	title, _ := raw["trackName"].(string)
	if title == "" {
		return lyrics.Song{}, false
	}
	var artist lyrics.Artist
	if a, _ := raw["artistName"].(string); a != "" {
		artist = lyrics.NewArtist(a)
	}
	album, _ := raw["albumName"].(string)

	var durationMs *int
	if d, ok := raw["duration"].(float64); ok {
		durationMs = lyrics.IntPtr(int(d * 1000))
	}

	var id string
	switch v := raw["id"].(type) {
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	case string:
		id = v
	}

	instrumental, _ := raw["instrumental"].(bool)

	return lyrics.Song{
		Source:     lyrics.LRCLIB,
		ID:         id,
		Title:      title,
		Artist:     artist,
		Album:      album,
		DurationMs: durationMs,
		Extra:      map[string]any{"instrumental": instrumental},
	}, true
}

// FetchLyrics requires title, artist, album, and duration — LRCLIB's
// exact-match /get endpoint rejects anything less.
func (p *Provider) FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error) {
	if song.Title == "" || song.Artist.Empty() || song.Album == "" || song.DurationMs == nil {
		return nil, lyricserr.NewParamsError("lrclib missing required params (needs title/artist/album/duration)", nil).WithSource(providerName)
	}

	params := url.Values{
		"track_name":  {song.Title},
		"artist_name": {song.Artist.String()},
		"album_name":  {song.Album},
		"duration":    {strconv.FormatFloat(float64(*song.DurationMs)/1000.0, 'f', -1, 64)},
	}
	body, err := p.request("/get", params)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, lyricserr.NewRequestError("lrclib /get response format unexpected", err).WithSource(providerName)
	}
	if apiErr, ok := data["error"]; ok {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("lrclib API error: %v", apiErr), nil).WithSource(providerName)
	}

	bundle := lyrics.NewLyricsBundle(song)
	bundle.Tags["ti"] = orDefault(data["trackName"], song.Title)
	bundle.Tags["ar"] = orDefault(data["artistName"], song.Artist.String())
	bundle.Tags["al"] = orDefault(data["albumName"], song.Album)

	if synced, ok := data["syncedLyrics"].(string); ok && synced != "" {
		tags, orig, perr := parsers.ParseLRC(synced, lyrics.LRCLIB)
		if perr != nil {
			return nil, perr
		}
		for k, v := range tags {
			bundle.Tags[k] = v
		}
		bundle.Orig = orig
	} else if plain, ok := data["plainLyrics"].(string); ok && plain != "" {
		bundle.Orig = parsers.ParsePlaintext(plain)
	} else {
		bundle.Orig = parsers.ParsePlaintext("")
	}

	return bundle, nil
}

func orDefault(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func init() {
	providers.GetRegistry().Register(NewProvider())
}
