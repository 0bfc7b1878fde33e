// Package render turns a lyrics bundle's timed tracks into LRC text, in one
// of three granularities (line/verbatim/enhanced) with an optional aligned
// translation track.
package render

import (
	"strings"

	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/timeutil"
)

// msConverter renders a millisecond value as the bracketed timestamp text
// used inside an LRC tag, at either centisecond (digits=2) or millisecond
// (digits=3) precision.
type msConverter func(ms int) string

func converterFor(msDigits int) msConverter {
	if msDigits == 2 {
		return timeutil.MsToRounded
	}
	return func(ms int) string { return timeutil.MsToFormatted(ms, 3) }
}

func lineText(words []lyrics.LyricsWord) string {
	var b strings.Builder
	for _, w := range words {
		if w.Text != "" {
			b.WriteString(w.Text)
		}
	}
	return b.String()
}

// lineToString renders a single line at the requested mode. For "line" mode
// it's just the leading timestamp plus concatenated text; "verbatim" and
// "enhanced" interleave a timestamp tag before/after each word using
// different bracket symbols, with verbatim defaulting an unmarked word's
// start to the previous word's end (or the line start).
func lineToString(line lyrics.LyricsLine, mode lyrics.LrcMode, lineStartTime, lineEndTime *int, conv msConverter) string {
	var b strings.Builder
	if lineStartTime != nil {
		b.WriteString("[" + conv(*lineStartTime) + "]")
	}

	if mode == lyrics.ModeLine {
		b.WriteString(lineText(line.Words))
		return b.String()
	}

	open, close := "[", "]"
	if mode == lyrics.ModeEnhanced {
		open, close = "<", ">"
	}

	var lastEnd *int
	if mode == lyrics.ModeVerbatim {
		lastEnd = line.Start
	}

	for _, w := range line.Words {
		if w.Start != nil && !intEq(w.Start, lastEnd) {
			start := *w.Start
			if lineStartTime != nil && *lineStartTime > start {
				start = *lineStartTime
			}
			b.WriteString(open + conv(start) + close)
		}
		b.WriteString(w.Text)
		if w.End != nil {
			b.WriteString(open + conv(*w.End) + close)
		}
		lastEnd = w.End
	}

	rendered := b.String()
	if lineEndTime != nil && !strings.HasSuffix(rendered, close) {
		rendered += open + conv(*lineEndTime) + close
	}
	return rendered
}

func intEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// alignTranslation maps each original-track line index to the translation
// line that best corresponds to it: exact start-time match first, then
// positional (index) match when both tracks have equal length, then
// nearest-start match as a last resort.
func alignTranslation(orig, ts lyrics.LyricsData) map[int]lyrics.LyricsLine {
	out := make(map[int]lyrics.LyricsLine)

	byStart := make(map[int]lyrics.LyricsLine)
	for _, ln := range ts {
		if ln.Start != nil {
			byStart[*ln.Start] = ln
		}
	}

	for i, o := range orig {
		if o.Start != nil {
			if t, ok := byStart[*o.Start]; ok {
				out[i] = t
			}
		}
	}
	if len(out) == len(orig) {
		return out
	}

	if len(orig) == len(ts) {
		for i, t := range ts {
			if _, ok := out[i]; !ok {
				out[i] = t
			}
		}
		return out
	}

	var withStart []lyrics.LyricsLine
	for _, ln := range ts {
		if ln.Start != nil {
			withStart = append(withStart, ln)
		}
	}
	if len(withStart) == 0 {
		return out
	}

	for i, o := range orig {
		if _, ok := out[i]; ok || o.Start == nil {
			continue
		}
		best := withStart[0]
		bestDelta := abs(derefOr(best.Start, 0) - *o.Start)
		for _, cand := range withStart[1:] {
			delta := abs(derefOr(cand.Start, 0) - *o.Start)
			if delta < bestDelta {
				best, bestDelta = cand, delta
			}
		}
		out[i] = best
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Options configures Render.
type Options struct {
	Source              lyrics.Source
	Tags                map[string]string
	Orig                lyrics.LyricsData
	TS                  lyrics.LyricsData
	Mode                lyrics.LrcMode
	IncludeTranslation  bool
	OffsetMs            int
	MsDigits            int
	AddEndTimestampLine bool
}

// Render produces the final LRC text for opts, clamping every adjusted
// timestamp at zero.
func Render(opts Options) string {
	conv := converterFor(opts.MsDigits)

	adj := func(t *int) *int {
		if t == nil {
			return nil
		}
		v := *t + opts.OffsetMs
		if v < 0 {
			v = 0
		}
		return &v
	}

	var lines []string

	var head []string
	for _, k := range []string{"ti", "ar", "al", "by"} {
		if v := opts.Tags[k]; v != "" {
			head = append(head, "["+k+":"+v+"]")
		}
	}
	if opts.OffsetMs != 0 {
		head = append(head, "[offset:"+itoa(opts.OffsetMs)+"]")
	}
	head = append(head, "[tool:lyrics-fetch-go]")
	if len(head) > 0 {
		lines = append(lines, strings.Join(head, "\n"))
		lines = append(lines, "")
	}

	var tsMap map[int]lyrics.LyricsLine
	if opts.IncludeTranslation && len(opts.TS) > 0 {
		tsMap = alignTranslation(opts.Orig, opts.TS)
	}

	for idx, oline := range opts.Orig {
		lineStartTime := oline.Start
		lineEndTime := oline.End
		if len(oline.Words) > 0 {
			if oline.Words[0].Start != nil {
				lineStartTime = oline.Words[0].Start
			}
			if last := oline.Words[len(oline.Words)-1].End; last != nil {
				lineEndTime = last
			}
		}

		adjWords := make([]lyrics.LyricsWord, len(oline.Words))
		for i, w := range oline.Words {
			adjWords[i] = lyrics.LyricsWord{Start: adj(w.Start), End: adj(w.End), Text: w.Text}
		}
		adjLine := lyrics.LyricsLine{Start: adj(oline.Start), End: adj(oline.End), Words: adjWords}

		lines = append(lines, lineToString(adjLine, opts.Mode, adj(lineStartTime), adj(lineEndTime), conv))

		if tline, ok := tsMap[idx]; ok {
			tStart := tline.Start
			if tStart == nil {
				tStart = oline.Start
			}
			tAdjWords := make([]lyrics.LyricsWord, len(tline.Words))
			for i, w := range tline.Words {
				tAdjWords[i] = lyrics.LyricsWord{Start: adj(w.Start), End: adj(w.End), Text: w.Text}
			}
			tAdjLine := lyrics.LyricsLine{Start: adj(tline.Start), End: adj(tline.End), Words: tAdjWords}
			lines = append(lines, lineToString(tAdjLine, lyrics.ModeLine, adj(tStart), adj(tline.End), conv))
		}

		if opts.Mode == lyrics.ModeLine && opts.AddEndTimestampLine && lineEndTime != nil {
			end := adj(lineEndTime)
			v := 0
			if end != nil {
				v = *end
			}
			lines = append(lines, "["+conv(v)+"]")
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

func itoa(v int) string {
	if v < 0 {
		return "-" + itoa(-v)
	}
	if v == 0 {
		return "0"
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	return string(b)
}
