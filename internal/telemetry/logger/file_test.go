package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "respd.log")
	w := NewFileWriter(FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1})

	l, err := New(Config{Level: "info", Output: w})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}
