// Package lyrics holds the canonical in-memory shapes shared by every
// parser, provider, and renderer: sources, songs, and timed lyric lines.
package lyrics

import "strings"

// Source is the closed set of lyric providers this system knows how to query.
type Source string

const (
	LRCLIB Source = "LRCLIB"
	QM     Source = "QM"
	KG     Source = "KG"
	NE     Source = "NE"
)

// Sources is the default provider order used when a caller doesn't supply one.
var Sources = []Source{LRCLIB, QM, KG, NE}

// Index returns the position of src within sources, or -1 if absent.
func Index(sources []Source, src Source) int {
	for i, s := range sources {
		if s == src {
			return i
		}
	}
	return -1
}

// Artist is an ordered, deduplicated sequence of artist names.
type Artist []string

// NewArtist builds an Artist from raw names, dropping empties and duplicates
// while preserving first-occurrence order.
func NewArtist(names ...string) Artist {
	seen := make(map[string]struct{}, len(names))
	out := make(Artist, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// String joins the artist names with sep, defaulting to "/".
func (a Artist) String(sep ...string) string {
	s := "/"
	if len(sep) > 0 {
		s = sep[0]
	}
	return strings.Join(a, s)
}

// Empty reports whether the artist sequence has no names.
func (a Artist) Empty() bool {
	return len(a) == 0
}

// Song is an immutable search result or fetch target. ID/Title/Album are
// empty string when absent; DurationMs is nil when the source didn't report
// one. Extra carries provider-private hints needed later by FetchLyrics
// (notably KG's "hash").
type Song struct {
	Source     Source
	ID         string
	Title      string
	Artist     Artist
	Album      string
	DurationMs *int
	Extra      map[string]any
}

// ArtistTitle renders "artist - title", or just title when artist is empty.
func (s Song) ArtistTitle() string {
	if s.Artist.Empty() {
		return s.Title
	}
	return s.Artist.String() + " - " + s.Title
}

// FingerprintKey is the deduplication key for candidate scoring.
type FingerprintKey struct {
	Source     Source
	ID         string
	Title      string
	Artist     string
	Album      string
	DurationMs int
}

// Fingerprint returns the dedup key for s.
func (s Song) Fingerprint() FingerprintKey {
	d := 0
	if s.DurationMs != nil {
		d = *s.DurationMs
	}
	return FingerprintKey{
		Source:     s.Source,
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist.String(),
		Album:      s.Album,
		DurationMs: d,
	}
}

// LyricsWord is a single timed (or untimed) token within a line.
type LyricsWord struct {
	Start *int // milliseconds, nil when the format has no per-word timing
	End   *int
	Text  string
}

// LyricsLine is an ordered sequence of words sharing a nominal line start/end.
type LyricsLine struct {
	Start *int
	End   *int
	Words []LyricsWord
}

// Text concatenates the words' text in order.
func (l LyricsLine) Text() string {
	var b strings.Builder
	for _, w := range l.Words {
		b.WriteString(w.Text)
	}
	return b.String()
}

// LyricsData is an ordered-by-start sequence of lines.
type LyricsData []LyricsLine

// LyricsBundle is the mutable result of a successful fetch: a song plus its
// original lyric track, translation track, and romanization track.
type LyricsBundle struct {
	Song Song
	Tags map[string]string
	Orig LyricsData
	TS   LyricsData
	Roma LyricsData
}

// NewLyricsBundle returns a bundle for song with an initialized tag map.
func NewLyricsBundle(song Song) *LyricsBundle {
	return &LyricsBundle{Song: song, Tags: map[string]string{}}
}

// LrcMode selects the rendering granularity.
type LrcMode string

const (
	ModeLine     LrcMode = "line"
	ModeVerbatim LrcMode = "verbatim"
	ModeEnhanced LrcMode = "enhanced"
)

// TranslationMode selects how (or whether) a translation track is produced.
type TranslationMode string

const (
	TranslationNone     TranslationMode = "none"
	TranslationProvider TranslationMode = "provider"
	TranslationOpenAI   TranslationMode = "openai"
	TranslationAuto     TranslationMode = "auto"
)

func IntPtr(v int) *int { return &v }
