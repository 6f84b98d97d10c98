package jsonutil

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshal(t *testing.T) {
	t.Parallel()
	in := sample{Name: "waf", Count: 3}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestUnmarshalRead(t *testing.T) {
	t.Parallel()
	var out sample
	if err := UnmarshalRead(strings.NewReader(`{"name":"port","count":1}`), &out); err != nil {
		t.Fatalf("UnmarshalRead: %v", err)
	}
	if out.Name != "port" || out.Count != 1 {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestMarshalWrite(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := MarshalWrite(&buf, sample{Name: "subdo"}); err != nil {
		t.Fatalf("MarshalWrite: %v", err)
	}
	if !Valid(buf.Bytes()) {
		t.Fatalf("output not valid JSON: %q", buf.String())
	}
}

func TestMarshalIndent(t *testing.T) {
	t.Parallel()
	data, err := MarshalIndent(sample{Name: "cms", Count: 2}, "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if !strings.Contains(string(data), "\n") {
		t.Fatalf("expected indented output, got %q", data)
	}
}

func TestValidRejectsGarbage(t *testing.T) {
	t.Parallel()
	if Valid([]byte(`{"name":`)) {
		t.Fatal("truncated JSON reported valid")
	}
}
