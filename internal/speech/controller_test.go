package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedSyn struct {
	block chan struct{} // closed to let Synthesize return
	err   error
}

func (s *scriptedSyn) Synthesize(ctx context.Context, text string) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

type recordingGate struct {
	mu    sync.Mutex
	calls []bool
}

func (g *recordingGate) SetEnabled(enabled bool) {
	g.mu.Lock()
	g.calls = append(g.calls, enabled)
	g.mu.Unlock()
}

func (g *recordingGate) snapshot() []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]bool, len(g.calls))
	copy(out, g.calls)
	return out
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("done channel never fired")
	}
}

func TestSpeakGatesMicAroundUtterance(t *testing.T) {
	gate := &recordingGate{}
	c := NewController(&scriptedSyn{}, gate)

	done := c.Speak(context.Background(), "hello")
	waitDone(t, done)

	calls := gate.snapshot()
	if len(calls) != 2 || calls[0] != false || calls[1] != true {
		t.Fatalf("gate calls = %v, want [false true]", calls)
	}
}

func TestCancelFiresDoneWithMicEnabled(t *testing.T) {
	gate := &recordingGate{}
	syn := &scriptedSyn{block: make(chan struct{})}
	c := NewController(syn, gate)

	done := c.Speak(context.Background(), "a long question")
	c.Cancel()
	waitDone(t, done)

	calls := gate.snapshot()
	if len(calls) == 0 || calls[len(calls)-1] != true {
		t.Fatalf("mic not re-enabled after cancel: %v", calls)
	}
}

func TestSynthesizerErrorStillCompletes(t *testing.T) {
	gate := &recordingGate{}
	c := NewController(&scriptedSyn{err: errors.New("voice service down")}, gate)

	done := c.Speak(context.Background(), "hello")
	waitDone(t, done)

	calls := gate.snapshot()
	if calls[len(calls)-1] != true {
		t.Fatalf("mic left disabled after error: %v", calls)
	}
}

func TestCancelWithoutSpeakIsNoOp(t *testing.T) {
	c := NewController(&scriptedSyn{}, &recordingGate{})
	c.Cancel()
	c.Cancel()
}

func TestSecondSpeakCancelsFirst(t *testing.T) {
	gate := &recordingGate{}
	syn := &scriptedSyn{block: make(chan struct{})}
	c := NewController(syn, gate)

	first := c.Speak(context.Background(), "one")
	second := c.Speak(context.Background(), "two")

	// First speak was superseded; its done must fire without help.
	waitDone(t, first)

	close(syn.block)
	waitDone(t, second)
}
