package parsers

import (
	"regexp"
	"strings"

	"lyrics-fetch-go/lyrics"
)

var (
	yrcLineRe = regexp.MustCompile(`^\[(\d+),(\d+)\](.*)$`)
	yrcWordRe = regexp.MustCompile(`\((\d+),(\d+),\d+\)`)
)

// ParseYRC parses NE's YRC container (NE's analog of KRC): same
// marker-then-content word grammar as KRC, but word offsets are absolute
// (no line-start addition), and there is no language block.
func ParseYRC(yrc string) lyrics.LyricsData {
	var data lyrics.LyricsData

	for _, raw := range strings.Split(yrc, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := yrcLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineStart := atoiSafe(m[1])
		lineEnd := lineStart + atoiSafe(m[2])
		words := parseYRCWords(m[3])
		if len(words) == 0 {
			words = []lyrics.LyricsWord{{Start: intp(lineStart), End: intp(lineEnd), Text: m[3]}}
		}
		data = append(data, lyrics.LyricsLine{Start: intp(lineStart), End: intp(lineEnd), Words: words})
	}

	return data
}

func parseYRCWords(content string) []lyrics.LyricsWord {
	locs := yrcWordRe.FindAllStringSubmatchIndex(content, -1)
	var words []lyrics.LyricsWord
	for i, loc := range locs {
		start := atoiSafe(content[loc[2]:loc[3]])
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
