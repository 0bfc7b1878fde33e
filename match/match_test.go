package match

import "testing"

func TestUnifiedSymbol(t *testing.T) {
	got := UnifiedSymbol(" Hello（World）  foo ")
	want := "Hello(World) foo"
	if got != want {
		t.Errorf("UnifiedSymbol = %q, want %q", got, want)
	}
}

func TestNormalizeTitleStripsTags(t *testing.T) {
	got := NormalizeTitle("Song Title (Remix)")
	if got != "song title" {
		t.Errorf("NormalizeTitle = %q, want %q", got, "song title")
	}
}

func TestNormalizeArtistFoldsMiddleDot(t *testing.T) {
	got := NormalizeArtist("A·B")
	if got != "a・b" {
		t.Errorf("NormalizeArtist = %q, want %q", got, "a・b")
	}
}

func TestTextDifferenceIdentical(t *testing.T) {
	if got := TextDifference("same", "same"); got != 1.0 {
		t.Errorf("TextDifference(identical) = %v, want 1.0", got)
	}
}

func TestTextDifferenceIgnoresSpaces(t *testing.T) {
	got := TextDifference("a b c", "abc")
	if got != 1.0 {
		t.Errorf("TextDifference ignoring spaces = %v, want 1.0", got)
	}
}

func TestScoreCandidateExactMatch(t *testing.T) {
	score := ScoreCandidate("My Song", "Artist", "My Song", "Artist")
	if score != 100.0 {
		t.Errorf("ScoreCandidate exact = %v, want 100", score)
	}
}

func TestScoreCandidateNoArtistUsesOnlyTitle(t *testing.T) {
	score := ScoreCandidate("My Song", "", "My Song", "")
	if score != 100.0 {
		t.Errorf("ScoreCandidate title-only exact = %v, want 100", score)
	}
}

func TestScoreCandidatePoorTitleMatchPenalized(t *testing.T) {
	score := ScoreCandidate("Completely Different", "Same Artist", "Nothing Alike", "Same Artist")
	if score > 65 {
		t.Errorf("ScoreCandidate poor title match = %v, want heavily penalized", score)
	}
}

func TestScoreCandidateNeverNegative(t *testing.T) {
	score := ScoreCandidate("abc", "xyz", "zzz", "qqq")
	if score < 0 {
		t.Errorf("ScoreCandidate = %v, want >= 0", score)
	}
}
