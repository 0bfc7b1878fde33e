package main

import "lyrics-fetch-go/lyrics"

// searchRequest is the body of POST /search.
type searchRequest struct {
	Title          string   `json:"title"`
	Artist         string   `json:"artist"`
	Sources        []string `json:"sources"`
	LimitPerSource int      `json:"limit_per_source"`
}

// songDTO is the wire representation of a lyrics.Song in search results.
type songDTO struct {
	Source     string         `json:"source"`
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	Title      string         `json:"title"`
	Artist     *string        `json:"artist"`
	Album      string         `json:"album"`
	DurationMs *int           `json:"duration_ms"`
	Extra      map[string]any `json:"extra"`
}

// searchResponse is the body of a successful POST /search.
type searchResponse struct {
	Results []songDTO `json:"results"`
	Errors  []string  `json:"errors,omitempty"`
}

// fetchByIDRequest is the shared body shape for POST /fetch_by_id and
// POST /fetch_by_id_separate: it reconstructs a lyrics.Song directly from
// request fields rather than searching for one.
type fetchByIDRequest struct {
	Source      string         `json:"source"`
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Artist      string         `json:"artist"`
	Album       string         `json:"album"`
	DurationMs  *int           `json:"duration_ms"`
	Extra       map[string]any `json:"extra"`
	Mode        string         `json:"mode"`
	Translation string         `json:"translation"`
	OffsetMs    int            `json:"offset_ms"`
	MsDigits    int            `json:"ms_digits"`
}

func (req fetchByIDRequest) toSong() lyrics.Song {
	var artist lyrics.Artist
	if req.Artist != "" {
		artist = lyrics.NewArtist(req.Artist)
	}
	return lyrics.Song{
		Source:     lyrics.Source(req.Source),
		ID:         req.ID,
		Title:      req.Title,
		Artist:     artist,
		Album:      req.Album,
		DurationMs: req.DurationMs,
		Extra:      req.Extra,
	}
}

// fetchRequest is the shared body shape for POST /fetch and
// POST /fetch_separate: a full search-then-fetch lookup by title/artist.
type fetchRequest struct {
	Title         string   `json:"title"`
	Artist        string   `json:"artist"`
	Sources       []string `json:"sources"`
	MinScore      float64  `json:"min_score"`
	MaxCandidates int      `json:"max_candidates"`
	Mode          string   `json:"mode"`
	Translation   string   `json:"translation"`
	OffsetMs      int      `json:"offset_ms"`
	MsDigits      int      `json:"ms_digits"`

	OpenAIBaseURL    string `json:"openai_base_url"`
	OpenAIAPIKey     string `json:"openai_api_key"`
	OpenAIModel      string `json:"openai_model"`
	OpenAITargetLang string `json:"openai_target_lang"`
}

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
