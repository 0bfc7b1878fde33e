package openai

import (
	"testing"

	"lyrics-fetch-go/lyrics"
	"lyrics-fetch-go/lyricserr"
)

func TestTranslateLinesRejectsIncompleteConfig(t *testing.T) {
	_, err := TranslateLines(Config{}, []string{"a"}, "en")
	if err == nil {
		t.Fatal("expected error for incomplete config")
	}
	if !lyricserr.Is(err, lyricserr.KindTranslate) {
		t.Errorf("expected a translate-kind error, got %v", err)
	}
}

func TestTranslateLinesRejectsPartialConfig(t *testing.T) {
	_, err := TranslateLines(Config{BaseURL: "https://api.example.com", Model: "gpt"}, []string{"a"}, "en")
	if err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestHashLinesDeterministic(t *testing.T) {
	a := hashLines([]string{"x", "y"})
	b := hashLines([]string{"x", "y"})
	if a != b {
		t.Errorf("hashLines should be deterministic: %d != %d", a, b)
	}
	c := hashLines([]string{"xy"})
	if a == c {
		t.Error("hashLines should distinguish different line splits with the same concatenation")
	}
}

func TestConfigComplete(t *testing.T) {
	cases := []struct {
		cfg  Config
		want bool
	}{
		{Config{}, false},
		{Config{BaseURL: "  ", APIKey: "k", Model: "m"}, false},
		{Config{BaseURL: "u", APIKey: "k", Model: "m"}, true},
	}
	for _, c := range cases {
		if got := c.cfg.complete(); got != c.want {
			t.Errorf("complete() for %+v = %v, want %v", c.cfg, got, c.want)
		}
	}
}

func TestTranslateDataRequiresWorkingTranslateLines(t *testing.T) {
	orig := lyrics.LyricsData{
		{Start: lyrics.IntPtr(0), End: lyrics.IntPtr(1000), Words: []lyrics.LyricsWord{{Text: "hello"}}},
	}
	_, err := TranslateData(Config{}, orig, "en")
	if err == nil {
		t.Fatal("expected TranslateData to propagate the config error")
	}
}
