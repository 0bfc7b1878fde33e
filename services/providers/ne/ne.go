// Package ne implements the NetEase Cloud Music (NE) lyrics provider: an
// anonymous-session-bootstrapped EAPI client returning YRC or LRC tracks.
package ne

import (
	"context"
	"strconv"

	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/parsers"
	"lyrics-fetch-go/services/providers"
)

const providerName = "ne"

type Provider struct {
	sess *session
}

func NewProvider() *Provider {
	return &Provider{sess: newSession()}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error) {
	if page < 1 {
		page = 1
	}
	const pageSize = 20
	params := map[string]any{
		"limit":       strconv.Itoa(pageSize),
		"offset":      strconv.Itoa((page - 1) * pageSize),
		"keyword":     keyword,
		"scene":       "NORMAL",
		"needCorrect": "true",
	}
	data, err := p.sess.request("/eapi/search/song/list/page", params)
	if err != nil {
		return nil, err
	}

	items := extractSongInfos(data)
	songs := make([]lyrics.Song, 0, len(items))
	for _, info := range items {
		if song, ok := songFromResult(info); ok {
			songs = append(songs, song)
		}
	}
	return songs, nil
}

// extractSongInfos handles the several response shapes NE's search endpoint
// has used over time: the current wrapper-object shape
// (data.resources[].baseInfo.simpleSongData) and the legacy shapes
// (result.songs / data.songs, optionally nested one level under "songs").
func extractSongInfos(data map[string]any) []map[string]any {
	inner, _ := data["data"].(map[string]any)

	if resources, ok := inner["resources"].([]any); ok {
		var out []map[string]any
		for _, raw := range resources {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if baseInfo, ok := item["baseInfo"].(map[string]any); ok {
				if simple, ok := baseInfo["simpleSongData"].(map[string]any); ok {
					out = append(out, simple)
					continue
				}
			}
			out = append(out, item)
		}
		return out
	}

	var legacy any
	if result, ok := data["result"].(map[string]any); ok {
		legacy = result["songs"]
	}
	if legacy == nil {
		legacy = inner["songs"]
	}
	if m, ok := legacy.(map[string]any); ok {
		legacy = m["songs"]
	}
	if list, ok := legacy.([]any); ok {
		var out []map[string]any
		for _, raw := range list {
			if m, ok := raw.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func songFromResult(info map[string]any) (lyrics.Song, bool) {
	songID := firstNonNil(info["id"], info["songId"], info["resourceId"])
	if songID == nil {
		if nested, ok := info["song"].(map[string]any); ok {
			info = nested
			songID = firstNonNil(info["id"], info["songId"], info["resourceId"])
		}
	}

	title, _ := firstNonNil(info["name"], info["title"]).(string)
	if title == "" {
		return lyrics.Song{}, false
	}

	var artist lyrics.Artist
	artists, _ := firstNonNil(info["ar"], info["artists"]).([]any)
	if len(artists) > 0 {
		var names []string
		for _, a := range artists {
			if m, ok := a.(map[string]any); ok {
				if name, _ := m["name"].(string); name != "" {
					names = append(names, name)
				}
			}
		}
		artist = lyrics.NewArtist(names...)
	}

	var album string
	switch a := firstNonNil(info["al"], info["album"]).(type) {
	case map[string]any:
		album, _ = a["name"].(string)
	case string:
		album = a
	}

	var durationMs *int
	if d, ok := firstNonNil(info["dt"], info["duration"], info["duration_ms"]).(float64); ok {
		durationMs = lyrics.IntPtr(int(d))
	}

	return lyrics.Song{
		Source:     lyrics.NE,
		ID:         stringifyID(songID),
		Title:      title,
		Artist:     artist,
		Album:      album,
		DurationMs: durationMs,
	}, true
}

func firstNonNil(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func stringifyID(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case string:
		return t
	default:
		return ""
	}
}

func (p *Provider) FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error) {
	if song.ID == "" {
		return nil, lyricserr.NewParamsError("ne song id is empty", nil).WithSource(providerName)
	}
	id, err := strconv.Atoi(song.ID)
	if err != nil {
		return nil, lyricserr.NewParamsError("ne song id is not numeric", err).WithSource(providerName)
	}

	data, err := p.sess.request("/eapi/song/lyric/v1", map[string]any{
		"id": id, "lv": "-1", "tv": "-1", "rv": "-1", "yv": "-1",
	})
	if err != nil {
		return nil, err
	}

	bundle := lyrics.NewLyricsBundle(song)
	bundle.Tags = map[string]string{
		"ti": song.Title,
		"ar": song.Artist.String(),
		"al": song.Album,
	}

	yrcLyric := lyricField(data, "yrc")
	if yrcLyric != "" {
		bundle.Orig = parsers.ParseYRC(yrcLyric)
		if ts := lyricField(data, "tlyric"); ts != "" {
			_, tsData, err := parsers.ParseLRC(ts, lyrics.NE)
			if err != nil {
				return nil, err
			}
			bundle.TS = tsData
		}
		if roma := lyricField(data, "romalrc"); roma != "" {
			_, romaData, err := parsers.ParseLRC(roma, lyrics.NE)
			if err != nil {
				return nil, err
			}
			bundle.Roma = romaData
		}
	} else {
		if orig := lyricField(data, "lrc"); orig != "" {
			_, origData, err := parsers.ParseLRC(orig, lyrics.NE)
			if err != nil {
				return nil, err
			}
			bundle.Orig = origData
		}
		if ts := lyricField(data, "tlyric"); ts != "" {
			_, tsData, err := parsers.ParseLRC(ts, lyrics.NE)
			if err != nil {
				return nil, err
			}
			bundle.TS = tsData
		}
		if roma := lyricField(data, "romalrc"); roma != "" {
			_, romaData, err := parsers.ParseLRC(roma, lyrics.NE)
			if err != nil {
				return nil, err
			}
			bundle.Roma = romaData
		}
	}

	if bundle.Orig == nil {
		bundle.Orig = parsers.ParsePlaintext("")
	}
	return bundle, nil
}

func lyricField(data map[string]any, key string) string {
	track, ok := data[key].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := track["lyric"].(string)
	return s
}

func init() {
	providers.GetRegistry().Register(NewProvider())
}
