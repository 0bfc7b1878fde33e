// Package fetch coordinates the providers into a single best-match lyrics
// lookup: it tries keyword variants against every configured source, scores
// and dedupes the candidates, fetches lyrics for the top-scoring ones, and
// picks the best fetched result by a tie-breaking rank.
package fetch

import (
	"context"
	"sort"
	"strings"

	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/match"
	"lyrics-fetch-go/render"
	"lyrics-fetch-go/services/providers"
	"lyrics-fetch-go/translate/openai"

	log "github.com/sirupsen/logrus"

	_ "lyrics-fetch-go/services/providers/kg"
	_ "lyrics-fetch-go/services/providers/lrclib"
	_ "lyrics-fetch-go/services/providers/ne"
	_ "lyrics-fetch-go/services/providers/qm"
)

// OpenAIConfig carries the optional translation backfill settings.
type OpenAIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	TargetLang string
}

func (c OpenAIConfig) toClientConfig() openai.Config {
	return openai.Config{BaseURL: c.BaseURL, APIKey: c.APIKey, Model: c.Model}
}

func (c OpenAIConfig) targetLang() string {
	if c.TargetLang == "" {
		return "简体中文"
	}
	return c.TargetLang
}

// Request describes a lyrics lookup by title/artist.
type Request struct {
	Title          string
	Artist         string
	Sources        []lyrics.Source
	MinScore       float64
	MaxCandidates  int
	Mode           lyrics.LrcMode
	Translation    lyrics.TranslationMode
	OpenAI         OpenAIConfig
}

func (r Request) withDefaults() Request {
	if len(r.Sources) == 0 {
		r.Sources = lyrics.Sources
	}
	if r.MinScore == 0 {
		r.MinScore = 55.0
	}
	if r.MaxCandidates <= 0 {
		r.MaxCandidates = 8
	}
	if r.Mode == "" {
		r.Mode = lyrics.ModeVerbatim
	}
	if r.Translation == "" {
		r.Translation = lyrics.TranslationNone
	}
	return r
}

type scoredSong struct {
	score float64
	song  lyrics.Song
}

func keywordVariants(title, artist string) []string {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" {
		return nil
	}
	if artist != "" {
		return []string{artist + " - " + title, artist + " " + title, title}
	}
	return []string{title}
}

func providerFor(source lyrics.Source) (providers.Provider, error) {
	return providers.GetRegistry().Get(strings.ToLower(string(source)))
}

// isVerbatim reports whether orig carries real per-word timing, i.e. any
// line has more than one word and at least one word start timestamp.
func isVerbatim(bundle *lyrics.LyricsBundle) bool {
	if bundle == nil || len(bundle.Orig) == 0 {
		return false
	}
	for _, ln := range bundle.Orig {
		if len(ln.Words) <= 1 {
			continue
		}
		for _, w := range ln.Words {
			if w.Start != nil {
				return true
			}
		}
	}
	return false
}

// FetchLyricsBundle searches, fetches, and ranks candidates across req's
// sources, returning the best matching bundle with translation backfilled
// if requested.
func FetchLyricsBundle(ctx context.Context, req Request) (*lyrics.LyricsBundle, error) {
	req = req.withDefaults()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, lyricserr.NewParamsError("title must not be empty", nil)
	}
	if req.MaxCandidates <= 0 {
		return nil, lyricserr.NewParamsError("max_candidates must be > 0", nil)
	}

	keywords := keywordVariants(title, req.Artist)
	var artistPtr *string
	if strings.TrimSpace(req.Artist) != "" {
		a := strings.TrimSpace(req.Artist)
		artistPtr = &a
	}

	scored := map[lyrics.FingerprintKey]scoredSong{}

	for _, keyword := range keywords {
		for _, src := range req.Sources {
			provider, err := providerFor(src)
			if err != nil {
				continue
			}
			results, err := provider.Search(ctx, keyword, 1)
			if err != nil {
				log.Debugf("%s search failed for %s via %s: %v", logcolors.LogSearch, keyword, src, err)
				continue
			}
			for _, song := range results {
				var candArtist *string
				if !song.Artist.Empty() {
					s := song.Artist.String()
					candArtist = &s
				}
				s := match.ScoreCandidate(title, derefOrEmpty(artistPtr), song.Title, derefOrEmpty(candArtist))
				if s < req.MinScore {
					continue
				}
				key := song.Fingerprint()
				if prev, ok := scored[key]; !ok || s > prev.score {
					scored[key] = scoredSong{score: s, song: song}
				}
			}
		}
		if len(scored) > 0 {
			break
		}
	}

	if len(scored) == 0 {
		return nil, lyricserr.NewNotFoundError("no matching songs found", nil)
	}

	candidates := make([]scoredSong, 0, len(scored))
	for _, v := range scored {
		candidates = append(candidates, v)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return lyrics.Index(req.Sources, candidates[i].song.Source) < lyrics.Index(req.Sources, candidates[j].song.Source)
	})
	if len(candidates) > req.MaxCandidates {
		candidates = candidates[:req.MaxCandidates]
	}

	type fetched struct {
		cand   scoredSong
		bundle *lyrics.LyricsBundle
	}
	var results []fetched
	for _, cand := range candidates {
		provider, err := providerFor(cand.song.Source)
		if err != nil {
			continue
		}
		bundle, err := provider.FetchLyrics(ctx, cand.song)
		if err != nil {
			log.Debugf("%s fetch failed for %s: %v", logcolors.LogLyrics, cand.song.ArtistTitle(), err)
			continue
		}
		if len(bundle.Orig) > 0 {
			results = append(results, fetched{cand, bundle})
		}
	}

	if len(results) == 0 {
		return nil, lyricserr.NewNotFoundError("candidates found but lyrics fetch failed for all of them", nil)
	}

	rank := func(f fetched) [4]int {
		verbatimBonus := 0
		if req.Mode != lyrics.ModeLine && isVerbatim(f.bundle) {
			verbatimBonus = 1
		}
		translationBonus := 0
		if req.Translation != lyrics.TranslationNone && len(f.bundle.TS) > 0 {
			translationBonus = 1
		}
		sourceTiebreak := 0
		if idx := lyrics.Index(req.Sources, f.bundle.Song.Source); idx >= 0 {
			sourceTiebreak = -idx
		}
		return [4]int{int(f.cand.score * 1000), verbatimBonus, translationBonus, sourceTiebreak}
	}

	best := results[0]
	bestRank := rank(best)
	for _, f := range results[1:] {
		r := rank(f)
		if greater(r, bestRank) {
			best, bestRank = f, r
		}
	}

	bundle := best.bundle
	includeTranslation := req.Translation != lyrics.TranslationNone
	if (req.Translation == lyrics.TranslationOpenAI || req.Translation == lyrics.TranslationAuto) &&
		len(bundle.TS) == 0 && includeTranslation {
		if len(bundle.Orig) == 0 {
			includeTranslation = false
		} else {
			ts, err := openai.TranslateData(req.OpenAI.toClientConfig(), bundle.Orig, req.OpenAI.targetLang())
			if err != nil {
				if req.Translation == lyrics.TranslationOpenAI {
					return nil, err
				}
			} else {
				bundle.TS = ts
			}
		}
	}

	return cleanLyricsBundle(bundle), nil
}

func greater(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cleanLyricsData(data lyrics.LyricsData) lyrics.LyricsData {
	if data == nil {
		return nil
	}
	out := make(lyrics.LyricsData, 0, len(data))
	for _, line := range data {
		if strings.TrimSpace(line.Text()) == "//" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// cleanLyricsBundle drops "//"-placeholder lines (common on sources like QM)
// from every track of bundle.
func cleanLyricsBundle(bundle *lyrics.LyricsBundle) *lyrics.LyricsBundle {
	bundle.Orig = cleanLyricsData(bundle.Orig)
	bundle.TS = cleanLyricsData(bundle.TS)
	bundle.Roma = cleanLyricsData(bundle.Roma)
	return bundle
}

// LRCRequest extends Request with the rendering knobs needed to produce
// final LRC text.
type LRCRequest struct {
	Request
	OffsetMs            int
	MsDigits            int
	AddEndTimestampLine bool
}

// FetchLRC fetches the best matching bundle for req and renders it to LRC
// text.
func FetchLRC(ctx context.Context, req LRCRequest) (string, error) {
	best, err := FetchLyricsBundle(ctx, req.Request)
	if err != nil {
		return "", err
	}

	r := req.withDefaults()
	includeTranslation := r.Translation != lyrics.TranslationNone
	if r.Translation == lyrics.TranslationProvider {
		includeTranslation = len(best.TS) > 0
	}

	return render.Render(render.Options{
		Source:              best.Song.Source,
		Tags:                best.Tags,
		Orig:                best.Orig,
		TS:                  best.TS,
		Mode:                r.Mode,
		IncludeTranslation:  includeTranslation,
		OffsetMs:            req.OffsetMs,
		MsDigits:            req.MsDigits,
		AddEndTimestampLine: req.AddEndTimestampLine,
	}), nil
}
