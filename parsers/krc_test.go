package parsers

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestParseKRCBasic(t *testing.T) {
	krc := "[ar:Artist]\n[0,2000]<0,1000,0>Hel<1000,1000,0>lo\n"
	tags, orig, ts, roma, err := ParseKRC(krc)
	if err != nil {
		t.Fatalf("ParseKRC: %v", err)
	}
	if tags["ar"] != "Artist" {
		t.Errorf("tags = %v", tags)
	}
	if ts != nil || roma != nil {
		t.Errorf("expected no ts/roma without a language tag, got ts=%v roma=%v", ts, roma)
	}
	if len(orig) != 1 {
		t.Fatalf("len(orig) = %d, want 1", len(orig))
	}
	line := orig[0]
	if *line.Start != 0 || *line.End != 2000 {
		t.Errorf("line bounds = %d,%d", *line.Start, *line.End)
	}
	if len(line.Words) != 2 {
		t.Fatalf("len(words) = %d, want 2: %+v", len(line.Words), line.Words)
	}
	if line.Words[0].Text != "Hel" || *line.Words[0].Start != 0 || *line.Words[0].End != 1000 {
		t.Errorf("word0 = %+v", line.Words[0])
	}
	if line.Words[1].Text != "lo" || *line.Words[1].Start != 1000 || *line.Words[1].End != 2000 {
		t.Errorf("word1 = %+v", line.Words[1])
	}
}

func TestParseKRCWithLanguageBlock(t *testing.T) {
	block := map[string]any{
		"content": []map[string]any{
			{"type": 0, "lyricContent": [][]string{{"Ni", "Hao"}}},
			{"type": 1, "lyricContent": [][]string{{"Hello"}}},
		},
	}
	raw, err := json.Marshal(block)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	krc := "[language:" + encoded + "]\n[0,2000]<0,1000,0>Ni<1000,1000,0>Hao\n"
	_, orig, ts, roma, err := ParseKRC(krc)
	if err != nil {
		t.Fatalf("ParseKRC: %v", err)
	}
	if len(orig) != 1 {
		t.Fatalf("len(orig) = %d, want 1", len(orig))
	}
	if len(roma) != 1 || len(roma[0].Words) != 2 {
		t.Fatalf("roma = %+v", roma)
	}
	if roma[0].Words[0].Text != "Ni" || roma[0].Words[1].Text != "Hao" {
		t.Errorf("roma words = %+v", roma[0].Words)
	}
	if len(ts) != 1 || ts[0].Words[0].Text != "Hello" {
		t.Errorf("ts = %+v", ts)
	}
}
