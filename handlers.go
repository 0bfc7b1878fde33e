package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"

	"lyrics-fetch-go/config"
	"lyrics-fetch-go/fetch"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/match"
	"lyrics-fetch-go/render"
	"lyrics-fetch-go/services/providers"
	"lyrics-fetch-go/stats"

	log "github.com/sirupsen/logrus"

	_ "lyrics-fetch-go/services/providers/kg"
	_ "lyrics-fetch-go/services/providers/lrclib"
	_ "lyrics-fetch-go/services/providers/ne"
	_ "lyrics-fetch-go/services/providers/qm"
)

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Respond(w, r).Error(http.StatusNotFound, "not found")
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest(r.URL.Path)
	Respond(w, r).JSON(map[string]bool{"ok": true})
}

// parseSources converts requested source names to lyrics.Source values,
// silently dropping names that don't match a known source.
func parseSources(names []string) []lyrics.Source {
	if len(names) == 0 {
		return lyrics.Sources
	}
	out := make([]lyrics.Source, 0, len(names))
	for _, n := range names {
		src := lyrics.Source(strings.ToUpper(strings.TrimSpace(n)))
		if lyrics.Index(lyrics.Sources, src) >= 0 {
			out = append(out, src)
		}
	}
	return out
}

// rejectEnhancedMode writes a 400 response and returns true if mode is
// "enhanced" — every POST handler that accepts a mode rejects it up front.
func rejectEnhancedMode(w http.ResponseWriter, r *http.Request, mode string) bool {
	if mode == string(lyrics.ModeEnhanced) {
		Respond(w, r).Error(http.StatusBadRequest, "enhanced mode is not supported; use 'line' or 'verbatim'")
		return true
	}
	return false
}

func resolveMode(mode string) lyrics.LrcMode {
	if mode == "" {
		return lyrics.ModeVerbatim
	}
	return lyrics.LrcMode(mode)
}

func resolveTranslation(mode string) lyrics.TranslationMode {
	if mode == "" {
		return lyrics.TranslationNone
	}
	return lyrics.TranslationMode(mode)
}

func songToDTO(song lyrics.Song, score float64) songDTO {
	var artist *string
	if !song.Artist.Empty() {
		s := song.Artist.String()
		artist = &s
	}
	return songDTO{
		Source:     string(song.Source),
		ID:         song.ID,
		Score:      roundScore(score),
		Title:      song.Title,
		Artist:     artist,
		Album:      song.Album,
		DurationMs: song.DurationMs,
		Extra:      song.Extra,
	}
}

func roundScore(score float64) float64 {
	return float64(int(score*100+0.5)) / 100
}

// searchHandler implements POST /search: it queries every requested source
// in parallel, scores every result against the query, and returns them all
// sorted best-first alongside any per-source errors.
func searchHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest(r.URL.Path)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		Respond(w, r).Error(http.StatusBadRequest, "title is required")
		return
	}

	sources := parseSources(req.Sources)
	if len(sources) == 0 {
		Respond(w, r).Error(http.StatusBadRequest, "no valid sources specified")
		return
	}

	limit := req.LimitPerSource
	if limit <= 0 {
		limit = 20
	}

	var mu sync.Mutex
	var results []songDTO
	var errs []string
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)
		go func(src lyrics.Source) {
			defer wg.Done()

			provider, err := providers.GetRegistry().Get(strings.ToLower(string(src)))
			if err != nil {
				mu.Lock()
				errs = append(errs, string(src)+": "+err.Error())
				mu.Unlock()
				return
			}

			songs, err := provider.Search(r.Context(), title, 1)
			if err != nil {
				log.Debugf("%s search failed via %s: %v", logcolors.LogSearch, src, err)
				mu.Lock()
				errs = append(errs, string(src)+": "+err.Error())
				mu.Unlock()
				return
			}

			if len(songs) > limit {
				songs = songs[:limit]
			}

			candArtist := lyrics.NewArtist(req.Artist).String()

			mu.Lock()
			for _, song := range songs {
				if song.ID == "" || song.Title == "" {
					continue
				}
				score := match.ScoreCandidate(title, candArtist, song.Title, song.Artist.String())
				results = append(results, songToDTO(song, score))
			}
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	Respond(w, r).JSON(searchResponse{Results: results, Errors: errs})
}

func openAIConfigFrom(req fetchRequest) fetch.OpenAIConfig {
	conf := config.Get()
	cfg := fetch.OpenAIConfig{
		BaseURL:    conf.Translation.OpenAIBaseURL,
		APIKey:     conf.Translation.OpenAIAPIKey,
		Model:      conf.Translation.OpenAIModel,
		TargetLang: conf.Translation.OpenAITargetLang,
	}
	if req.OpenAIBaseURL != "" {
		cfg.BaseURL = req.OpenAIBaseURL
	}
	if req.OpenAIAPIKey != "" {
		cfg.APIKey = req.OpenAIAPIKey
	}
	if req.OpenAIModel != "" {
		cfg.Model = req.OpenAIModel
	}
	if req.OpenAITargetLang != "" {
		cfg.TargetLang = req.OpenAITargetLang
	}
	return cfg
}

func fetchRequestToRequest(req fetchRequest) fetch.Request {
	conf := config.Get()
	minScore := req.MinScore
	if minScore == 0 {
		minScore = conf.Matching.MinScore
	}
	maxCandidates := req.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = conf.Matching.MaxCandidates
	}
	return fetch.Request{
		Title:         req.Title,
		Artist:        req.Artist,
		Sources:       parseSources(req.Sources),
		MinScore:      minScore,
		MaxCandidates: maxCandidates,
		Mode:          resolveMode(req.Mode),
		Translation:   resolveTranslation(req.Translation),
		OpenAI:        openAIConfigFrom(req),
	}
}

// fetchHandler implements the legacy POST /fetch: a full search-then-fetch
// lookup by title/artist, rendered to a single merged LRC string.
func fetchHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest(r.URL.Path)

	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "invalid request body")
		return
	}
	if rejectEnhancedMode(w, r, req.Mode) {
		return
	}

	msDigits := req.MsDigits
	if msDigits == 0 {
		msDigits = 3
	}

	lrc, err := fetch.FetchLRC(r.Context(), fetch.LRCRequest{
		Request:  fetchRequestToRequest(req),
		OffsetMs: req.OffsetMs,
		MsDigits: msDigits,
	})
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	Respond(w, r).JSON(map[string]string{"lrc": lrc})
}

// fetchSeparateHandler implements the legacy POST /fetch_separate: same
// lookup as /fetch, but original and translated lyrics are rendered and
// returned as two separate LRC strings.
func fetchSeparateHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest(r.URL.Path)

	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "invalid request body")
		return
	}
	if rejectEnhancedMode(w, r, req.Mode) {
		return
	}

	fetchReq := fetchRequestToRequest(req)
	fetchReq.MinScore = 55.0
	fetchReq.MaxCandidates = 8

	bundle, err := fetch.FetchLyricsBundle(r.Context(), fetchReq)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	msDigits := req.MsDigits
	if msDigits == 0 {
		msDigits = 3
	}

	resp := map[string]string{
		"lrc_orig": render.Render(render.Options{
			Source: bundle.Song.Source, Tags: bundle.Tags, Orig: bundle.Orig,
			Mode: resolveMode(req.Mode), OffsetMs: req.OffsetMs, MsDigits: msDigits,
		}),
	}
	if len(bundle.TS) > 0 {
		resp["lrc_trans"] = render.Render(render.Options{
			Source: bundle.Song.Source, Tags: bundle.Tags, Orig: bundle.TS,
			Mode: lyrics.ModeLine, OffsetMs: req.OffsetMs, MsDigits: msDigits,
		})
	}

	Respond(w, r).JSON(resp)
}

// fetchByID implements the shared logic behind /fetch_by_id and
// /fetch_by_id_separate: it fetches lyrics for a song reconstructed
// directly from the request, bypassing search/scoring entirely.
func fetchByID(w http.ResponseWriter, r *http.Request, separate bool) {
	stats.Get().RecordRequest(r.URL.Path)

	var req fetchByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "invalid request body")
		return
	}
	if rejectEnhancedMode(w, r, req.Mode) {
		return
	}
	if req.Source == "" || req.ID == "" {
		Respond(w, r).Error(http.StatusBadRequest, "source and id are required")
		return
	}

	src := lyrics.Source(strings.ToUpper(req.Source))
	if lyrics.Index(lyrics.Sources, src) < 0 {
		Respond(w, r).Error(http.StatusBadRequest, "invalid source: "+req.Source)
		return
	}

	provider, err := providers.GetRegistry().Get(strings.ToLower(string(src)))
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "invalid source: "+req.Source)
		return
	}

	song := req.toSong()
	song.Source = src

	bundle, err := provider.FetchLyrics(r.Context(), song)
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "failed to fetch lyrics: "+err.Error())
		return
	}
	if len(bundle.Orig) == 0 {
		Respond(w, r).Error(http.StatusNotFound, "no lyrics content found")
		return
	}

	mode := resolveMode(req.Mode)
	translation := resolveTranslation(req.Translation)
	msDigits := req.MsDigits
	if msDigits == 0 {
		msDigits = 3
	}

	if separate {
		resp := map[string]string{
			"lrc_orig": render.Render(render.Options{
				Source: bundle.Song.Source, Tags: bundle.Tags, Orig: bundle.Orig,
				Mode: mode, OffsetMs: req.OffsetMs, MsDigits: msDigits,
			}),
		}
		if len(bundle.TS) > 0 && translation != lyrics.TranslationNone {
			resp["lrc_trans"] = render.Render(render.Options{
				Source: bundle.Song.Source, Tags: bundle.Tags, Orig: bundle.TS,
				Mode: lyrics.ModeLine, OffsetMs: req.OffsetMs, MsDigits: msDigits,
			})
		}
		Respond(w, r).SetProvider(string(src)).JSON(resp)
		return
	}

	includeTranslation := translation != lyrics.TranslationNone && len(bundle.TS) > 0
	lrc := render.Render(render.Options{
		Source: bundle.Song.Source, Tags: bundle.Tags, Orig: bundle.Orig, TS: bundle.TS,
		Mode: mode, IncludeTranslation: includeTranslation, OffsetMs: req.OffsetMs, MsDigits: msDigits,
	})
	Respond(w, r).SetProvider(string(src)).JSON(map[string]string{"lrc": lrc})
}

func fetchByIDHandler(w http.ResponseWriter, r *http.Request) {
	fetchByID(w, r, false)
}

func fetchByIDSeparateHandler(w http.ResponseWriter, r *http.Request) {
	fetchByID(w, r, true)
}

// writeFetchError maps a fetch/lyricserr error to its HTTP response.
func writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	if lyricserr.Is(err, lyricserr.KindNotFound) {
		Respond(w, r).Error(http.StatusNotFound, err.Error())
		return
	}
	Respond(w, r).Error(http.StatusBadRequest, err.Error())
}

func statsHandler(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest(r.URL.Path)
	Respond(w, r).JSON(stats.Get().Snapshot())
}

func cacheDumpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(dumpCaches())
}

func cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	clearCaches()
	Respond(w, r).JSON(map[string]bool{"cleared": true})
}
