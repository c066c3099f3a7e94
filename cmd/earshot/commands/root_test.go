package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.pcm")
	data := bytes.Repeat([]byte{0x01, 0x02}, 1500) // 3000 bytes
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	frames, err := readFrames(path, 2048)
	if err != nil {
		t.Fatalf("readFrames() error = %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if len(frames[0]) != 2048 {
		t.Errorf("first frame = %d bytes, want 2048", len(frames[0]))
	}
	if len(frames[1]) != 3000-2048 {
		t.Errorf("last frame = %d bytes, want the remainder", len(frames[1]))
	}
}

func TestReadFramesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pcm")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	frames, err := readFrames(path, 2048)
	if err != nil {
		t.Fatalf("readFrames() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("got %d frames, want 0", len(frames))
	}
}

func TestReadFramesMissingFile(t *testing.T) {
	if _, err := readFrames(filepath.Join(t.TempDir(), "nope.pcm"), 2048); err == nil {
		t.Error("readFrames() succeeded on a missing file")
	}
}
