package sinks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterSinkWritesBodyOnly(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink("out", &buf)

	err := sink.Deliver(context.Background(), Delivery{
		RequestID: "r1",
		Body:      "hello",
	})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if got := buf.String(); got != "hello\n" {
		t.Fatalf("wrote %q", got)
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.log")
	sink, err := newFileSink(context.Background(), SinkConfig{
		ID:   "log",
		Type: TypeFile,
		File: &FileSinkConfig{Path: path},
	}, nil)
	if err != nil {
		t.Fatalf("newFileSink: %v", err)
	}

	if err := sink.Deliver(context.Background(), Delivery{Body: "one"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if err := sink.Deliver(context.Background(), Delivery{Body: "two"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sink file: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Fatalf("file content %q", string(data))
	}
}

func TestFileSinkCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "responses.log")
	sink, err := newFileSink(context.Background(), SinkConfig{
		ID:   "log",
		Type: TypeFile,
		File: &FileSinkConfig{Path: path},
	}, nil)
	if err != nil {
		t.Fatalf("newFileSink: %v", err)
	}
	if err := sink.Deliver(context.Background(), Delivery{Body: "x"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
}
