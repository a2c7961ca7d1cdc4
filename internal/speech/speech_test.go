package speech

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Speak("一")
	r.Speak("二")
	if r.Last() != "二" || r.Current() != "二" {
		t.Errorf("Last/Current = %q/%q, want 二", r.Last(), r.Current())
	}
	r.Stop()
	if r.Current() != "" {
		t.Errorf("Current after Stop = %q", r.Current())
	}
	if got := r.Spoken(); len(got) != 2 {
		t.Errorf("Spoken = %v", got)
	}
	if r.Stops() != 1 {
		t.Errorf("Stops = %d", r.Stops())
	}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		transcript string
		err        error
		char       string
		want       Verdict
	}{
		{"人", nil, "人", Matched},
		{"大人", nil, "人", Matched},
		{"入", nil, "人", Missed},
		{"", nil, "人", Unheard},
		{"   ", nil, "人", Unheard},
		{"人", errors.New("no-speech"), "人", Unheard},
	}
	for _, tt := range tests {
		if got := Judge(tt.transcript, tt.err, tt.char); got != tt.want {
			t.Errorf("Judge(%q, %v, %q) = %v, want %v", tt.transcript, tt.err, tt.char, got, tt.want)
		}
	}
}

func TestFromEnv_Off(t *testing.T) {
	t.Setenv("ZIBAO_TTS", "off")
	if _, ok := FromEnv(nil).(Nop); !ok {
		t.Error("ZIBAO_TTS=off should give the no-op speaker")
	}
}

func TestFromEnv_CustomCommand(t *testing.T) {
	t.Setenv("ZIBAO_TTS", "espeak-ng -v cmn -s 140")
	c, ok := FromEnv(nil).(*Command)
	if !ok {
		t.Fatal("expected a command speaker")
	}
	if c.name != "espeak-ng" || len(c.args) != 4 {
		t.Errorf("parsed command = %s %v", c.name, c.args)
	}
}

func TestCommand_ReplacesPreviousUtterance(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	log := filepath.Join(dir, "spoken")
	script := filepath.Join(dir, "tts.sh")
	body := "#!/bin/sh\necho \"$1\" >> " + log + "\nsleep 5\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCommand(script, nil, nil)
	c.Speak("一")
	c.Speak("二")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		b, _ := os.ReadFile(log)
		if strings.Contains(string(b), "二") {
			c.Stop()
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.cancel != nil {
				t.Error("Stop should clear the in-flight process")
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	b, _ := os.ReadFile(log)
	t.Fatalf("second utterance never started, log = %q", b)
}
