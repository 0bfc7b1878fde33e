package parsers

import (
	"regexp"
	"sort"
	"strings"

	"lyrics-fetch-go/lyrics"
)

var (
	lrcTagRe          = regexp.MustCompile(`^\[(\w+):([^\]]*)\]$`)
	lrcLineRe         = regexp.MustCompile(`^\[(\d+):(\d+)\.(\d+)\](.*)$`)
	lrcLeadingTagsRe  = regexp.MustCompile(`^(?:\[\d+:\d+\.\d+\])+`)
	lrcTimestampRe    = regexp.MustCompile(`\[(\d+):(\d+)\.(\d+)\]`)
	lrcEnhancedMarkRe = regexp.MustCompile(`<(\d+):(\d+)\.(\d+)>`)
	lrcEnhancedTailRe = regexp.MustCompile(`<(\d+):(\d+)\.(\d+)>$`)
)

// ParseLRC parses standard, enhanced (<mm:ss.xxx> word timing), and
// bracketed-word-timing LRC text into tags and timed lines. When source is
// lyrics.NE, lines carrying two or more leading timestamp tags are expanded
// into one line per timestamp, each repeating the shared text verbatim — a
// dialect NE uses for duet/backing-vocal lyrics.
func ParseLRC(content string, source lyrics.Source) (map[string]string, lyrics.LyricsData, error) {
	tags := map[string]string{}
	var data lyrics.LyricsData

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.HasPrefix(line, "[") {
			continue
		}

		if m := lrcLineRe.FindStringSubmatch(line); m != nil {
			lineContent := m[4]
			start := ms(m[1], m[2], m[3])

			if source == lyrics.NE {
				if leading := lrcLeadingTagsRe.FindString(line); leading != "" {
					tsMatches := lrcTimestampRe.FindAllStringSubmatch(leading, -1)
					if len(tsMatches) >= 2 {
						rest := line[len(leading):]
						for _, tm := range tsMatches {
							tsStart := ms(tm[1], tm[2], tm[3])
							data = append(data, lyrics.LyricsLine{
								Start: tsStart,
								Words: []lyrics.LyricsWord{{Start: tsStart, Text: rest}},
							})
						}
						continue
					}
				}
			}

			var words []lyrics.LyricsWord
			var end *int
			if strings.Contains(lineContent, "<") && strings.Contains(lineContent, ">") {
				words = parseEnhancedWords(lineContent)
			} else {
				words, end = parsePlainWords(lineContent, *start)
			}
			if len(words) > 0 {
				if end == nil {
					end = words[len(words)-1].End
				}
				data = append(data, lyrics.LyricsLine{Start: start, End: end, Words: words})
			}
			continue
		}

		if m := lrcTagRe.FindStringSubmatch(line); m != nil {
			tags[m[1]] = m[2]
		}
	}

	sort.SliceStable(data, func(i, j int) bool {
		return derefInt(data[i].Start) < derefInt(data[j].Start)
	})
	for i := 1; i < len(data); i++ {
		if data[i-1].End == nil && data[i-1].Start != nil && data[i].Start != nil {
			data[i-1].End = data[i].Start
		}
	}

	out := data[:0]
	for _, ln := range data {
		if len(ln.Words) > 0 {
			out = append(out, ln)
		}
	}
	return tags, out, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// parsePlainWords splits content on trailing [mm:ss.xxx] end markers, the
// word-timing dialect where a marker closes the word preceding it.
func parsePlainWords(content string, lineStart int) ([]lyrics.LyricsWord, *int) {
	locs := lrcTimestampRe.FindAllStringSubmatchIndex(content, -1)
	var words []lyrics.LyricsWord
	prev := 0
	cursor := lineStart
	var lastEnd *int
	for _, loc := range locs {
		text := content[prev:loc[0]]
		end := ms(content[loc[2]:loc[3]], content[loc[4]:loc[5]], content[loc[6]:loc[7]])
		if text != "" {
			words = append(words, lyrics.LyricsWord{Start: intp(cursor), End: end, Text: text})
			cursor = *end
		}
		lastEnd = end
		prev = loc[1]
	}
	lineEnd := lastEnd
	if trailing := content[prev:]; trailing != "" {
		words = append(words, lyrics.LyricsWord{Start: intp(cursor), Text: trailing})
		lineEnd = nil
	}
	return words, lineEnd
}

// parseEnhancedWords splits content on leading <mm:ss.xxx> start markers,
// chaining each word's end to the following word's start, with an optional
// trailing end marker closing the final word.
func parseEnhancedWords(content string) []lyrics.LyricsWord {
	locs := lrcEnhancedMarkRe.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	var words []lyrics.LyricsWord
	for i, loc := range locs {
		wordStart := ms(content[loc[2]:loc[3]], content[loc[4]:loc[5]], content[loc[6]:loc[7]])
		segStart := loc[1]
		segEnd := len(content)
		if i+1 < len(locs) {
			segEnd = locs[i+1][0]
		}
		seg := content[segStart:segEnd]

		wordText := seg
		var wordEnd *int
		if i == len(locs)-1 {
			if tail := lrcEnhancedTailRe.FindStringSubmatchIndex(seg); tail != nil {
				wordEnd = ms(seg[tail[2]:tail[3]], seg[tail[4]:tail[5]], seg[tail[6]:tail[7]])
				wordText = seg[:tail[0]]
			}
		}

		if len(words) > 0 {
			words[len(words)-1].End = wordStart
		}
		if wordText != "" {
			words = append(words, lyrics.LyricsWord{Start: wordStart, End: wordEnd, Text: wordText})
		}
	}
	return words
}
