package util

import (
	"os"
	"path"
	"testing"
)

func TestAppendToFile(t *testing.T) {
	p := path.Join(t.TempDir(), "records.jsonl")
	if err := AppendToFile(p, `{"a":1}`); err != nil {
		t.Fatal(err)
	}
	if err := AppendToFile(p, `{"a":2}`, `{"a":3}`); err != nil {
		t.Fatal(err)
	}
	bs, _ := os.ReadFile(p)
	if string(bs) != "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n" {
		t.Errorf("unexpected content %q", string(bs))
	}
}

func TestWriteToFileCreatesDir(t *testing.T) {
	p := path.Join(t.TempDir(), "summary", "eval.txt")
	if err := WriteToFile(p, "one", "two"); err != nil {
		t.Fatal(err)
	}
	bs, _ := os.ReadFile(p)
	if string(bs) != "one\ntwo\n" {
		t.Errorf("unexpected content %q", string(bs))
	}
}
