package parsers

import (
	"regexp"
	"strings"

	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/lyrics"
)

var (
	qrcEnvelopeRe = regexp.MustCompile(`(?s)<Lyric_1 LyricType="1" LyricContent="(?P<content>.*?)"/>`)
	qrcTagRe      = regexp.MustCompile(`^\[(\w+):([^\]]*)\]$`)
	qrcLineRe     = regexp.MustCompile(`^\[(\d+),(\d+)\](.*)$`)
	qrcWordMarkRe = regexp.MustCompile(`\((\d+),(\d+)\)`)
)

// ParseQRC extracts the LyricContent="..." envelope from a decrypted QRC
// document and parses its line/word-timing body.
func ParseQRC(doc string) (map[string]string, lyrics.LyricsData, error) {
	m := qrcEnvelopeRe.FindStringSubmatch(doc)
	if m == nil || m[1] == "" {
		return nil, nil, lyricserr.NewProcessingError("unsupported lyric format", nil)
	}
	return parseQRCBody(m[1])
}

// ParseQRCAny tries the QRC envelope first, then falls back to bare LRC,
// then to plaintext — mirroring how providers that may return either
// container shape hand off to a single entry point.
func ParseQRCAny(doc string) (map[string]string, lyrics.LyricsData, error) {
	if qrcEnvelopeRe.MatchString(doc) {
		return ParseQRC(doc)
	}
	if strings.Contains(doc, "[") && strings.Contains(doc, "]") {
		if tags, data, err := ParseLRC(doc, ""); err == nil && len(data) > 0 {
			return tags, data, nil
		}
	}
	return map[string]string{}, ParsePlaintext(doc), nil
}

func parseQRCBody(content string) (map[string]string, lyrics.LyricsData, error) {
	tags := map[string]string{}
	var data lyrics.LyricsData

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := qrcLineRe.FindStringSubmatch(line); m != nil {
			lineStart := atoiSafe(m[1])
			lineEnd := lineStart + atoiSafe(m[2])
			lineContent := m[3]

			if strings.HasPrefix(lineContent, "(") && strings.HasSuffix(lineContent, ")") &&
				qrcWordMarkRe.MatchString(lineContent) && qrcWordMarkRe.FindString(lineContent) == lineContent {
				data = append(data, lyrics.LyricsLine{Start: intp(lineStart), End: intp(lineEnd)})
				continue
			}

			words := parseQRCWords(lineContent)
			if len(words) == 0 {
				words = []lyrics.LyricsWord{{Start: intp(lineStart), End: intp(lineEnd), Text: lineContent}}
			}
			data = append(data, lyrics.LyricsLine{Start: intp(lineStart), End: intp(lineEnd), Words: words})
			continue
		}

		if m := qrcTagRe.FindStringSubmatch(line); m != nil {
			tags[m[1]] = m[2]
		}
	}

	return tags, data, nil
}

// parseQRCWords splits a QRC line body on (start,duration) word markers; the
// text preceding each marker is that word's content, with word offsets
// already absolute (no line-start addition, unlike KRC).
func parseQRCWords(content string) []lyrics.LyricsWord {
	locs := qrcWordMarkRe.FindAllStringSubmatchIndex(content, -1)
	var words []lyrics.LyricsWord
	prev := 0
	for _, loc := range locs {
		text := content[prev:loc[0]]
		prev = loc[1]
		if text == "\r" {
			continue
		}
		start := atoiSafe(content[loc[2]:loc[3]])
		dur := atoiSafe(content[loc[4]:loc[5]])
		words = append(words, lyrics.LyricsWord{Start: intp(start), End: intp(start + dur), Text: text})
	}
	return words
}
