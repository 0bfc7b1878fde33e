package parsers

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"lyrics-fetch-go/lyrics"
)

var (
	krcTagRe  = regexp.MustCompile(`^\[(\w+):([^\]]*)\]$`)
	krcLineRe = regexp.MustCompile(`^\[(\d+),(\d+)\](.*)$`)
	krcWordRe = regexp.MustCompile(`<(\d+),(\d+),\d+>`)
)

type krcLanguageBlock struct {
	Content []krcLanguageEntry `json:"content"`
}

type krcLanguageEntry struct {
	Type          int        `json:"type"`
	LyricContent  [][]string `json:"lyricContent"`
}

// ParseKRC parses a decrypted KRC document into its original track plus,
// when present, a base64 JSON "language" tag carrying romanization
// (type 0) and/or translation (type 1) tracks aligned to the original
// line/word structure.
func ParseKRC(krc string) (tags map[string]string, orig, ts, roma lyrics.LyricsData, err error) {
	tags = map[string]string{}

	for _, raw := range strings.Split(krc, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "[") {
			continue
		}

		if m := krcTagRe.FindStringSubmatch(line); m != nil {
			tags[m[1]] = m[2]
			continue
		}

		if m := krcLineRe.FindStringSubmatch(line); m != nil {
			lineStart := atoiSafe(m[1])
			lineEnd := lineStart + atoiSafe(m[2])
			words := parseKRCWords(m[3], lineStart)
			if len(words) == 0 {
				words = []lyrics.LyricsWord{{Start: intp(lineStart), End: intp(lineEnd), Text: m[3]}}
			}
			orig = append(orig, lyrics.LyricsLine{Start: intp(lineStart), End: intp(lineEnd), Words: words})
		}
	}

	langRaw := strings.TrimSpace(tags["language"])
	if langRaw == "" {
		return tags, orig, nil, nil, nil
	}

	decoded, decErr := base64.StdEncoding.DecodeString(langRaw)
	if decErr != nil {
		return tags, orig, nil, nil, nil
	}
	var block krcLanguageBlock
	if jsonErr := json.Unmarshal(decoded, &block); jsonErr != nil {
		return tags, orig, nil, nil, nil
	}

	for _, entry := range block.Content {
		switch entry.Type {
		case 0:
			offset := 0
			for i, line := range orig {
				if lineIsBlank(line) {
					offset++
					continue
				}
				idx := i - offset
				if idx < 0 || idx >= len(entry.LyricContent) {
					continue
				}
				romaLine := entry.LyricContent[idx]
				var words []lyrics.LyricsWord
				for j, w := range line.Words {
					text := ""
					if j < len(romaLine) {
						text = romaLine[j]
					}
					words = append(words, lyrics.LyricsWord{Start: w.Start, End: w.End, Text: text})
				}
				roma = append(roma, lyrics.LyricsLine{Start: line.Start, End: line.End, Words: words})
			}
		case 1:
			for i, line := range orig {
				if i >= len(entry.LyricContent) || len(entry.LyricContent[i]) == 0 {
					continue
				}
				ts = append(ts, lyrics.LyricsLine{
					Start: line.Start, End: line.End,
					Words: []lyrics.LyricsWord{{Start: line.Start, End: line.End, Text: entry.LyricContent[i][0]}},
				})
			}
		}
	}

	if len(ts) == 0 {
		ts = nil
	}
	if len(roma) == 0 {
		roma = nil
	}
	return tags, orig, ts, roma, nil
}

func lineIsBlank(line lyrics.LyricsLine) bool {
	for _, w := range line.Words {
		if w.Text != "" {
			return false
		}
	}
	return true
}

// parseKRCWords splits a KRC line body on <start,duration,idx> markers whose
// offsets are relative to lineStart (unlike QRC/YRC's absolute offsets). Each
// marker is followed by its word's text, up to the next marker.
func parseKRCWords(content string, lineStart int) []lyrics.LyricsWord {
	locs := krcWordRe.FindAllStringSubmatchIndex(content, -1)
	var words []lyrics.LyricsWord
	for i, loc := range locs {
		start := lineStart + atoiSafe(content[loc[2]:loc[3]])
		dur := atoiSafe(content[loc[4]:loc[5]])
		segStart := loc[1]
		segEnd := len(content)
		if i+1 < len(locs) {
			segEnd = locs[i+1][0]
		}
		text := content[segStart:segEnd]
		words = append(words, lyrics.LyricsWord{Start: intp(start), End: intp(start + dur), Text: text})
	}
	return words
}
