// Package openai translates lyric lines through an OpenAI-compatible chat
// completions endpoint, one full lyrics track per call, with results
// memoized in the shared TTL cache.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"lyrics-fetch-go/cache"
	"lyrics-fetch-go/config"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/stats"
	"lyrics-fetch-go/version"
)

var sharedCache = cache.New()

// DumpCache returns a snapshot of the translation result cache for debug
// inspection.
func DumpCache() map[any]any { return sharedCache.Dump() }

// ClearCache empties the translation result cache.
func ClearCache() { sharedCache.Clear() }

// Config names the OpenAI-compatible endpoint to translate through.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	TimeoutS  int
}

func (c Config) complete() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

func (c Config) timeout() time.Duration {
	if c.TimeoutS <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutS) * time.Second
}

type cacheKey struct {
	version    string
	kind       string
	targetLang string
	linesHash  uint64
	baseURL    string
	model      string
}

func hashLines(lines []string) uint64 {
	h := fnv.New64a()
	for _, l := range lines {
		_, _ = h.Write([]byte(l))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// TranslateLines translates lines into targetLang, one line in, one line
// out, preserving order and count. Results are cached for four hours keyed
// on the target language, model, endpoint, and a hash of the input lines.
func TranslateLines(cfg Config, lines []string, targetLang string) ([]string, error) {
	if !cfg.complete() {
		return nil, lyricserr.NewTranslateError("openai config incomplete (base_url/api_key/model)", nil)
	}

	key := cacheKey{version.Version, "openai", targetLang, hashLines(lines), cfg.BaseURL, cfg.Model}
	if cached, ok := sharedCache.Get(key, nil).([]string); ok && len(cached) == len(lines) {
		stats.Get().RecordCacheHit()
		return cached, nil
	}
	stats.Get().RecordCacheMiss()

	var b strings.Builder
	b.WriteString("You are a professional lyric translator.\n")
	fmt.Fprintf(&b, "Translate the following lyrics into %s line-by-line.\n", targetLang)
	b.WriteString("Do not combine or split lines.\n")
	b.WriteString("Output only in the following format:\n")
	b.WriteString("01|Translated line 1\n")
	b.WriteString("02|Translated line 2\n\n")
	b.WriteString("Input:\n")
	for i, text := range lines {
		fmt.Fprintf(&b, "%02d|%s\n", i+1, text)
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:    cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: b.String()}},
		Stream:   false,
	})
	if err != nil {
		return nil, lyricserr.NewTranslateError("openai request encode failed", err)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, lyricserr.NewTranslateError("openai request build failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lyrics-fetch-go/"+version.Version)

	log.Debugf("%s translating %d lines into %s via %s", logcolors.LogTranslate, len(lines), targetLang, cfg.Model)

	client := &http.Client{Timeout: cfg.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, lyricserr.NewRequestError("openai request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lyricserr.NewRequestError("openai response read failed", err)
	}
	if resp.StatusCode >= 400 {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("openai request failed with status %d", resp.StatusCode), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, lyricserr.NewRequestError("openai response decode failed", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, lyricserr.NewTranslateError("openai response had no choices", nil)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	content = strings.TrimSpace(strings.TrimPrefix(content, "```"))
	content = strings.TrimSpace(strings.TrimSuffix(content, "```"))

	var out []string
	for _, line := range strings.Split(content, "\n") {
		idx := strings.Index(line, "|")
		if idx < 0 {
			continue
		}
		out = append(out, line[idx+1:])
	}

	if len(out) != len(lines) {
		return nil, lyricserr.NewTranslateError(
			fmt.Sprintf("model output line count mismatch: input %d output %d", len(lines), len(out)), nil)
	}

	sharedCache.Set(key, out, config.Get().Translation.TranslationCacheTTLSeconds)
	return out, nil
}

// TranslateData translates every line of orig into targetLang, returning a
// new single-word-per-line track carrying the original timing.
func TranslateData(cfg Config, orig lyrics.LyricsData, targetLang string) (lyrics.LyricsData, error) {
	texts := make([]string, len(orig))
	for i, ln := range orig {
		texts[i] = ln.Text()
	}

	translated, err := TranslateLines(cfg, texts, targetLang)
	if err != nil {
		return nil, err
	}

	out := make(lyrics.LyricsData, len(orig))
	for i, ln := range orig {
		out[i] = lyrics.LyricsLine{
			Start: ln.Start,
			End:   ln.End,
			Words: []lyrics.LyricsWord{{Start: ln.Start, End: ln.End, Text: translated[i]}},
		}
	}
	return out, nil
}
