package parsers

import "testing"

func TestParseQRCBasic(t *testing.T) {
	doc := `<Lyric_1 LyricType="1" LyricContent="[ti:Song]
[0,3000]Hel(0,500)lo(500,500) wor(1000,500)ld(1500,500)
"/>`
	tags, data, err := ParseQRC(doc)
	if err != nil {
		t.Fatalf("ParseQRC: %v", err)
	}
	if tags["ti"] != "Song" {
		t.Errorf("tags = %v", tags)
	}
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	line := data[0]
	if *line.Start != 0 || *line.End != 3000 {
		t.Errorf("line bounds = %d,%d", *line.Start, *line.End)
	}
	if len(line.Words) != 4 {
		t.Fatalf("len(words) = %d, want 4: %+v", len(line.Words), line.Words)
	}
	if line.Words[0].Text != "Hel" || *line.Words[0].Start != 0 || *line.Words[0].End != 500 {
		t.Errorf("word0 = %+v", line.Words[0])
	}
	if line.Words[2].Text != " wor" || *line.Words[2].Start != 1000 {
		t.Errorf("word2 = %+v", line.Words[2])
	}
}

func TestParseQRCNoEnvelope(t *testing.T) {
	if _, _, err := ParseQRC("not a qrc document"); err == nil {
		t.Error("ParseQRC(no envelope) = nil error, want error")
	}
}

func TestParseQRCAnyFallsBackToPlaintext(t *testing.T) {
	tags, data, err := ParseQRCAny("just some plain text\nsecond line")
	if err != nil {
		t.Fatalf("ParseQRCAny: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v, want empty", tags)
	}
	if len(data) != 2 {
		t.Fatalf("len(data) = %d, want 2", len(data))
	}
}
