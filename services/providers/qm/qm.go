// Package qm implements the QQ Music (QM) lyrics provider: a single
// envelope endpoint fronting many RPC-style "modules", session-bootstrapped
// once per process, returning hex-encoded QRC ciphertext.
package qm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"lyrics-fetch-go/cipherkit"
	"lyrics-fetch-go/config"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/parsers"
	"lyrics-fetch-go/services/providers"
)

const (
	providerName = "qm"
	endpointURL  = "https://u.y.qq.com/cgi-bin/musicu.fcg"
)

var httpClient = &http.Client{Timeout: time.Duration(config.Get().Providers.QMTimeoutSeconds) * time.Second}

type Provider struct {
	mu     sync.Mutex
	inited bool
	comm   map[string]any
}

func NewProvider() *Provider {
	return &Provider{
		comm: map[string]any{
			"ct":        11,
			"cv":        "1003006",
			"v":         "1003006",
			"os_ver":    "15",
			"phonetype": "24122RKC7C",
			"rom":       "Redmi/miro/miro:15/AE3A.240806.005/OS2.0.105.0.VOMCNXM:user/release-keys",
			"tmeAppID":  "qqmusiclight",
			"nettype":   "NETWORK_WIFI",
			"udid":      "0",
		},
	}
}

func (p *Provider) Name() string { return providerName }

// ensureSession bootstraps the session (uid/sid/userip) the envelope needs
// for every subsequent call, exactly once per provider instance.
func (p *Provider) ensureSession() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inited {
		return nil
	}

	data, err := p.requestLocked("GetSession", "music.getSession.session", map[string]any{"caller": 0, "uid": "0", "vkey": 0})
	if err != nil {
		return err
	}
	session, _ := data["session"].(map[string]any)
	p.comm["uid"] = session["uid"]
	p.comm["sid"] = session["sid"]
	p.comm["userip"] = session["userip"]
	p.inited = true
	return nil
}

func (p *Provider) request(method, module string, param map[string]any) (map[string]any, error) {
	if err := p.ensureSession(); err != nil && method != "GetSession" {
		return nil, err
	}
	p.mu.Lock()
	comm := p.comm
	p.mu.Unlock()
	return p.doRequest(comm, method, module, param)
}

// requestLocked is used only during ensureSession's own bootstrap call,
// while the mutex is already held, so it must not re-enter ensureSession.
func (p *Provider) requestLocked(method, module string, param map[string]any) (map[string]any, error) {
	return p.doRequest(p.comm, method, module, param)
}

func (p *Provider) doRequest(comm map[string]any, method, module string, param map[string]any) (map[string]any, error) {
	envelope := map[string]any{
		"comm": comm,
		"request": map[string]any{
			"method": method,
			"module": module,
			"param":  param,
		},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, lyricserr.NewRequestError("qm request encode failed", err).WithSource(providerName)
	}

	req, err := http.NewRequest(http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return nil, lyricserr.NewRequestError("qm request build failed", err).WithSource(providerName)
	}
	req.Header.Set("cookie", "tmeLoginType=-1;")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept-encoding", "gzip")
	req.Header.Set("user-agent", "okhttp/3.14.9")

	log.Debugf("%s qm request %s/%s", logcolors.LogSearch, module, method)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, lyricserr.NewRequestError("qm request failed", err).WithSource(providerName)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lyricserr.NewRequestError("qm response read failed", err).WithSource(providerName)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("qm API returned status %d", resp.StatusCode), nil).WithSource(providerName)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, lyricserr.NewRequestError("qm response decode failed", err).WithSource(providerName)
	}
	if code, _ := out["code"].(float64); code != 0 {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("qm API error code %v", out["code"]), nil).WithSource(providerName)
	}
	inner, _ := out["request"].(map[string]any)
	if innerCode, _ := inner["code"].(float64); innerCode != 0 {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("qm API error code %v", inner["code"]), nil).WithSource(providerName)
	}
	data, _ := inner["data"].(map[string]any)
	return data, nil
}

func (p *Provider) Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error) {
	if page < 1 {
		page = 1
	}
	searchID := rand.Int63n(20)*18014398509481984 + rand.Int63n(4194304)*4294967296 + (time.Now().UnixMilli() % 86400000)
	param := map[string]any{
		"search_id":    strconv.FormatInt(searchID, 10),
		"remoteplace":  "search.android.keyboard",
		"query":        keyword,
		"search_type":  0,
		"num_per_page": 20,
		"page_num":     page,
		"highlight":    0,
		"nqc_flag":     0,
		"page_id":      1,
		"grp":          1,
	}
	data, err := p.request("DoSearchForQQMusicLite", "music.search.SearchCgiService", param)
	if err != nil {
		return nil, err
	}

	body, _ := data["body"].(map[string]any)
	items, _ := body["item_song"].([]any)

	songs := make([]lyrics.Song, 0, len(items))
	for _, raw := range items {
		info, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		songs = append(songs, songFromSearchResult(info))
	}
	return songs, nil
}

func songFromSearchResult(info map[string]any) lyrics.Song {
	var id string
	switch v := info["id"].(type) {
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	case string:
		id = v
	}

	var names []string
	if singers, ok := info["singer"].([]any); ok {
		for _, s := range singers {
			if m, ok := s.(map[string]any); ok {
				if name, _ := m["name"].(string); name != "" {
					names = append(names, name)
				}
			}
		}
	}

	var album string
	if a, ok := info["album"].(map[string]any); ok {
		album, _ = a["name"].(string)
	}

	var durationMs *int
	if iv, ok := info["interval"].(float64); ok {
		durationMs = lyrics.IntPtr(int(iv) * 1000)
	}

	title, _ := info["title"].(string)

	return lyrics.Song{
		Source:     lyrics.QM,
		ID:         id,
		Title:      title,
		Artist:     lyrics.NewArtist(names...),
		Album:      album,
		DurationMs: durationMs,
	}
}

func (p *Provider) FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error) {
	if song.Title == "" || song.Album == "" || song.ID == "" || song.DurationMs == nil {
		return nil, lyricserr.NewParamsError("qm missing required params (needs id/title/album/duration)", nil).WithSource(providerName)
	}
	songID, err := strconv.Atoi(song.ID)
	if err != nil {
		return nil, lyricserr.NewParamsError("qm song id is not numeric", err).WithSource(providerName)
	}

	param := map[string]any{
		"albumName":  b64(song.Album),
		"crypt":      1,
		"ct":         19,
		"cv":         2111,
		"interval":   *song.DurationMs / 1000,
		"lrc_t":      0,
		"qrc":        1,
		"qrc_t":      0,
		"roma":       1,
		"roma_t":     0,
		"singerName": b64(song.Artist.String()),
		"songID":     songID,
		"songName":   b64(song.Title),
		"trans":      1,
		"trans_t":    0,
		"type":       0,
	}
	resp, err := p.request("GetPlayLyricInfo", "music.musichallSong.PlayLyricInfo", param)
	if err != nil {
		return nil, err
	}

	bundle := lyrics.NewLyricsBundle(song)

	tracks := []struct {
		key        string
		field      string
		tFieldName string
	}{
		{"orig", "lyric", ""},
		{"ts", "trans", "trans_t"},
		{"roma", "roma", "roma_t"},
	}

	for _, tr := range tracks {
		encrypted, _ := resp[tr.field].(string)
		if encrypted == "" {
			continue
		}

		// The "qm" quirk: ts_flag compares a decoded JSON value (numeric when
		// present) against the Go untyped string "0". A numeric value is
		// never equal to a string, so this is always true whenever the
		// encrypted field itself is non-empty — preserved verbatim rather
		// than "fixed" into a numeric comparison.
		var tsFlag any
		if tr.key == "orig" {
			tsFlag = resp["qrc_t"]
			if f, ok := tsFlag.(float64); ok && f == 0 {
				tsFlag = resp["lrc_t"]
			}
		} else {
			tsFlag = resp[tr.tFieldName]
		}
		if tsFlag == "0" {
			continue
		}

		raw, err := hex.DecodeString(encrypted)
		if err != nil {
			return nil, lyricserr.NewDecryptError("qm lyrics hex decode failed", err).WithSource(providerName)
		}
		decrypted, err := cipherkit.DecryptQRC(raw, false)
		if err != nil {
			return nil, err
		}
		tags, data, err := parsers.ParseQRCAny(decrypted)
		if err != nil {
			return nil, err
		}

		switch tr.key {
		case "orig":
			for k, v := range tags {
				bundle.Tags[k] = v
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
			bundle.Orig = data
		case "ts":
			bundle.TS = data
		case "roma":
			bundle.Roma = data
		}
	}

	if len(bundle.Tags) == 0 {
		bundle.Tags = map[string]string{
			"ti": song.Title,
			"ar": song.Artist.String(),
			"al": song.Album,
		}
	}
	return bundle, nil
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func init() {
	providers.GetRegistry().Register(NewProvider())
}
