package parsers

import "testing"

func TestParseYRCBasic(t *testing.T) {
	yrc := "[0,2000](0,1000,0)Hel(1000,1000,0)lo\n"
	data := ParseYRC(yrc)
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	line := data[0]
	if *line.Start != 0 || *line.End != 2000 {
		t.Errorf("line bounds = %d,%d", *line.Start, *line.End)
	}
	if len(line.Words) != 2 {
		t.Fatalf("len(words) = %d, want 2: %+v", len(line.Words), line.Words)
	}
	// YRC word offsets are absolute, unlike KRC's line-relative offsets.
	if line.Words[0].Text != "Hel" || *line.Words[0].Start != 0 || *line.Words[0].End != 1000 {
		t.Errorf("word0 = %+v", line.Words[0])
	}
	if line.Words[1].Text != "lo" || *line.Words[1].Start != 1000 || *line.Words[1].End != 2000 {
		t.Errorf("word1 = %+v", line.Words[1])
	}
}

func TestParseYRCNoWordMarkers(t *testing.T) {
	yrc := "[0,1500]plain line\n"
	data := ParseYRC(yrc)
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	if data[0].Words[0].Text != "plain line" {
		t.Errorf("words = %+v", data[0].Words)
	}
}
