package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestModeFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want Mode
	}{
		{"", ModeProd},
		{"dev", ModeDev},
		{"DEBUG", ModeDev},
		{"off", ModeOff},
		{"whatever", ModeProd},
	}
	for _, tt := range tests {
		t.Setenv("ZIBAO_LOG_MODE", tt.env)
		if got := ModeFromEnv(); got != tt.want {
			t.Errorf("ModeFromEnv() with %q = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zibao.log")
	l, err := New(Options{Mode: ModeProd, Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("level unlocked")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "level unlocked") {
		t.Errorf("log file missing message, got %q", b)
	}
}

func TestNew_OffIsNop(t *testing.T) {
	l, err := New(Options{Mode: ModeOff, Path: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(0) {
		t.Error("off mode logger should be disabled")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
