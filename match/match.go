// Package match scores how well a candidate title/artist pair matches a
// search query, using the same normalization and Ratcliff/Obershelp
// similarity ratio as the reference implementation.
package match

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var symbolMap = map[string]string{
	"（": "(", "）": ")", "：": ":", "！": "!", "？": "?", "／": "/",
	"＆": "&", "＊": "*", "＠": "@", "＃": "#", "＄": "$", "％": "%",
	"＼": "\\", "｜": "|", "＝": "=", "＋": "+", "－": "-", "＜": "<",
	"＞": ">", "［": "[", "］": "]", "｛": "{", "｝": "}",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// titleTagRe strips bracketed qualifiers ("(Remix)", "[Live]") and common
// version/style/instrumental markers from a title before comparison.
var titleTagRe = regexp.MustCompile(
	`[-<(\[～]([～\]^)>-]*)[～\]^)>-]` +
		`|(\w+ ?(?:(?:solo |size )?ver(?:sion)?\.?|size|style|mix(?:ed)?|edit(?:ed)?|版|solo))` +
		`|(纯音乐|inst\.?(?:rumental)?|off ?vocal(?: ?[Vv]er\.?)?)`,
)

// UnifiedSymbol normalizes fullwidth punctuation to its ASCII equivalent and
// collapses runs of whitespace to a single space.
func UnifiedSymbol(text string) string {
	text = strings.TrimSpace(text)
	for from, to := range symbolMap {
		text = strings.ReplaceAll(text, from, to)
	}
	return whitespaceRe.ReplaceAllString(text, " ")
}

// NormalizeTitle lowercases, unifies symbols, strips version/remix/
// instrumental qualifiers, and collapses whitespace.
func NormalizeTitle(title string) string {
	t := strings.ToLower(UnifiedSymbol(title))
	t = titleTagRe.ReplaceAllString(t, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

// NormalizeArtist lowercases, unifies symbols, and folds the middle-dot
// variant used interchangeably by Chinese-market sources.
func NormalizeArtist(artist string) string {
	return strings.ReplaceAll(strings.ToLower(UnifiedSymbol(artist)), "·", "・")
}

// TextDifference is the Ratcliff/Obershelp similarity ratio between two
// strings, treating the space character as junk (ignored when computing
// matching blocks), operating on runes so multi-byte characters compare
// correctly.
func TextDifference(a, b string) float64 {
	if a == b {
		return 1.0
	}
	m := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), false, isSpace)
	return m.Ratio()
}

func splitRunes(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

func isSpace(s string) bool { return s == " " }

// ScoreCandidate returns a 0-100 confidence that a candidate (cand_title,
// cand_artist) matches the query (title, artist). Artist similarity is
// blended in only when both sides supply one; a very poor title match
// additionally incurs a flat penalty.
func ScoreCandidate(title, artist, candTitle, candArtist string) float64 {
	titleScore := TextDifference(NormalizeTitle(title), NormalizeTitle(candTitle)) * 100.0

	var score float64
	if artist != "" && candArtist != "" {
		artistScore := TextDifference(NormalizeArtist(artist), NormalizeArtist(candArtist)) * 100.0
		score = titleScore*0.55 + artistScore*0.45
	} else {
		score = titleScore
	}

	if titleScore < 30 {
		score = max0(score - 35.0)
	}
	return max0(score)
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
