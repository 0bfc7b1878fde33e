package render

import (
	"strings"
	"testing"

	"lyrics-fetch-go/lyrics"
)

func ip(v int) *int { return &v }

func TestLineToStringLineMode(t *testing.T) {
	line := lyrics.LyricsLine{
		Start: ip(1000),
		End:   ip(4000),
		Words: []lyrics.LyricsWord{{Text: "hello "}, {Text: "world"}},
	}
	conv := converterFor(3)
	got := lineToString(line, lyrics.ModeLine, line.Start, line.End, conv)
	want := "[" + conv(1000) + "]hello world"
	if got != want {
		t.Errorf("lineToString(line mode) = %q, want %q", got, want)
	}
}

func TestLineToStringVerbatimMode(t *testing.T) {
	line := lyrics.LyricsLine{
		Start: ip(1000),
		End:   ip(3000),
		Words: []lyrics.LyricsWord{
			{Start: ip(1000), End: ip(2000), Text: "hi"},
			{Start: ip(2000), End: ip(3000), Text: "there"},
		},
	}
	conv := converterFor(3)
	got := lineToString(line, lyrics.ModeVerbatim, line.Start, line.End, conv)
	// word 1 starts exactly at lastEnd (line.Start) so no leading marker emitted
	want := "[" + conv(1000) + "]hi[" + conv(2000) + "]there[" + conv(3000) + "]"
	if got != want {
		t.Errorf("lineToString(verbatim) = %q, want %q", got, want)
	}
}

func TestLineToStringVerbatimEmitsLeadingMarkerOnGap(t *testing.T) {
	line := lyrics.LyricsLine{
		Start: ip(1000),
		End:   ip(4000),
		Words: []lyrics.LyricsWord{
			{Start: ip(2000), End: ip(3000), Text: "gap"},
		},
	}
	conv := converterFor(3)
	got := lineToString(line, lyrics.ModeVerbatim, line.Start, line.End, conv)
	if !strings.Contains(got, conv(2000)) {
		t.Errorf("expected leading marker for gap word, got %q", got)
	}
}

func TestLineToStringEnhancedUsesAngleBrackets(t *testing.T) {
	line := lyrics.LyricsLine{
		Start: ip(0),
		End:   ip(1000),
		Words: []lyrics.LyricsWord{{Start: ip(0), End: ip(1000), Text: "x"}},
	}
	conv := converterFor(3)
	got := lineToString(line, lyrics.ModeEnhanced, line.Start, line.End, conv)
	if !strings.Contains(got, "<") || strings.Contains(got[1:], "[") {
		t.Errorf("enhanced mode should use angle brackets after the leading line marker, got %q", got)
	}
}

func TestAlignTranslationExactStart(t *testing.T) {
	orig := lyrics.LyricsData{{Start: ip(1000)}, {Start: ip(2000)}}
	ts := lyrics.LyricsData{{Start: ip(2000), Words: []lyrics.LyricsWord{{Text: "b"}}}, {Start: ip(1000), Words: []lyrics.LyricsWord{{Text: "a"}}}}
	aligned := alignTranslation(orig, ts)
	if len(aligned) != 2 {
		t.Fatalf("expected 2 aligned lines, got %d", len(aligned))
	}
	if aligned[0].Words[0].Text != "a" || aligned[1].Words[0].Text != "b" {
		t.Errorf("aligned by start mismatched: %+v", aligned)
	}
}

func TestAlignTranslationIndexFallbackSameLength(t *testing.T) {
	orig := lyrics.LyricsData{{Start: ip(1000)}, {Start: ip(2000)}}
	ts := lyrics.LyricsData{{Words: []lyrics.LyricsWord{{Text: "a"}}}, {Words: []lyrics.LyricsWord{{Text: "b"}}}}
	aligned := alignTranslation(orig, ts)
	if len(aligned) != 2 {
		t.Fatalf("expected index-paired fallback to align all lines, got %d", len(aligned))
	}
}

func TestAlignTranslationNearestStartFallback(t *testing.T) {
	orig := lyrics.LyricsData{{Start: ip(1000)}, {Start: ip(5000)}, {Start: ip(9000)}}
	ts := lyrics.LyricsData{{Start: ip(1100), Words: []lyrics.LyricsWord{{Text: "near1"}}}, {Start: ip(8900), Words: []lyrics.LyricsWord{{Text: "near3"}}}}
	aligned := alignTranslation(orig, ts)
	if aligned[0].Words[0].Text != "near1" {
		t.Errorf("expected nearest-start match for line 0, got %+v", aligned[0])
	}
	if aligned[2].Words[0].Text != "near3" {
		t.Errorf("expected nearest-start match for line 2, got %+v", aligned[2])
	}
}

func TestRenderIncludesHeaderTags(t *testing.T) {
	out := Render(Options{
		Tags: map[string]string{"ti": "Title", "ar": "Artist", "al": "Album"},
		Orig: lyrics.LyricsData{{Start: ip(0), Words: []lyrics.LyricsWord{{Text: "la"}}}},
		Mode: lyrics.ModeLine,
	})
	for _, tag := range []string{"[ti:Title]", "[ar:Artist]", "[al:Album]"} {
		if !strings.Contains(out, tag) {
			t.Errorf("Render output missing %s, got %q", tag, out)
		}
	}
}

func TestRenderOffsetClampsAtZero(t *testing.T) {
	out := Render(Options{
		Orig:     lyrics.LyricsData{{Start: ip(100), Words: []lyrics.LyricsWord{{Text: "x"}}}},
		Mode:     lyrics.ModeLine,
		OffsetMs: -5000,
	})
	conv := converterFor(3)
	if !strings.Contains(out, conv(0)) {
		t.Errorf("expected offset-clamped-to-zero timestamp, got %q", out)
	}
}

func TestRenderIncludesTranslationLine(t *testing.T) {
	out := Render(Options{
		Orig:               lyrics.LyricsData{{Start: ip(1000), Words: []lyrics.LyricsWord{{Text: "orig"}}}},
		TS:                 lyrics.LyricsData{{Start: ip(1000), Words: []lyrics.LyricsWord{{Text: "translated"}}}},
		Mode:               lyrics.ModeLine,
		IncludeTranslation: true,
	})
	if !strings.Contains(out, "translated") {
		t.Errorf("expected translation line in output, got %q", out)
	}
}

func TestRenderAddEndTimestampLine(t *testing.T) {
	out := Render(Options{
		Orig:                lyrics.LyricsData{{Start: ip(1000), End: ip(2000), Words: []lyrics.LyricsWord{{Text: "x"}}}},
		Mode:                lyrics.ModeLine,
		AddEndTimestampLine: true,
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	conv := converterFor(3)
	if last != "["+conv(2000)+"]" {
		t.Errorf("expected trailing bare end-timestamp line, got %q (full output %q)", last, out)
	}
}
