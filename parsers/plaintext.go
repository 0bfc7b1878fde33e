// Package parsers turns raw LRC/QRC/KRC/YRC lyric text into lyrics.LyricsData.
package parsers

import (
	"strconv"
	"strings"

	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/timeutil"
)

// ParsePlaintext wraps each line of s, verbatim, as an untimed lyric line.
// Used as the final fallback when no recognizable lyric markup is present.
func ParsePlaintext(s string) lyrics.LyricsData {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(s, "\n") {
		lines = lines[:len(lines)-1]
	}
	data := make(lyrics.LyricsData, 0, len(lines))
	for _, line := range lines {
		data = append(data, lyrics.LyricsLine{Words: []lyrics.LyricsWord{{Text: line}}})
	}
	return data
}

// ms converts matched minute/second/fraction strings to a millisecond pointer.
func ms(mStr, sStr, fracStr string) *int {
	m, _ := strconv.Atoi(mStr)
	s, _ := strconv.Atoi(sStr)
	v := timeutil.FormattedToMs(m, s, fracStr)
	return &v
}

func intp(v int) *int { return &v }

func atoiSafe(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
