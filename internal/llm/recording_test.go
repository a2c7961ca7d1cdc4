package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/zibao/internal/store"
)

type fakeRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return f.err
}

func TestRecording_Success(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"title":"小猫"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithRecording(mock, rec, nil)

	req := UserPrompt("写故事", "猫")
	req.Schema = testSchema()
	if _, err := p.Generate(WithPurpose(context.Background(), PurposeStory), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Provider != ProviderMock || ev.Model != "mock" || ev.Purpose != PurposeStory {
		t.Errorf("event identity = %s/%s/%s", ev.Provider, ev.Model, ev.Purpose)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Errorf("event = %+v", ev)
	}
	if ev.ResponseBody != `{"title":"小猫"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
	for _, want := range []string{"[system]\n写故事", "[user]\n猫", "[schema: test-story]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
}

func TestRecording_FailureStillRecorded(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := WithRecording(NewMockProvider(), rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("provider error should pass through, got %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("failure not recorded: %+v", rec.events)
	}
}

func TestRecording_NilRecorder(t *testing.T) {
	p := WithRecording(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderMock {
		t.Errorf("Name = %q", p.Name())
	}
}
