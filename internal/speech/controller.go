package speech

import (
	"context"
	"log"
	"sync"
	"time"
)

// Synthesizer turns text into audio delivered to the session's audio sink.
// Synthesize blocks until playback ends or ctx is cancelled.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// MicGate controls whether candidate audio reaches the recognizer. The gate
// is owned by this controller while a speak is in flight; only session
// teardown may touch it otherwise.
type MicGate interface {
	SetEnabled(enabled bool)
}

// Controller wraps a Synthesizer with the speak/cancel contract the turn
// loop relies on: the mic is disabled for the duration of a speak, the done
// channel fires exactly once (on completion, cancellation or synthesizer
// error), and the mic is re-enabled before it fires. The turn loop is never
// left waiting.
type Controller struct {
	syn Synthesizer
	mic MicGate

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewController(syn Synthesizer, mic MicGate) *Controller {
	return &Controller{syn: syn, mic: mic}
}

// Speak starts synthesizing text and returns a channel closed when the
// utterance ends for any reason. A previous in-flight speak is cancelled
// first; the caller's single-flight discipline should make that a no-op.
func (c *Controller) Speak(parent context.Context, text string) <-chan struct{} {
	c.Cancel()

	ctx, cancel := context.WithCancel(parent)
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	c.mic.SetEnabled(false)
	done := make(chan struct{})
	start := time.Now()

	go func() {
		defer close(done)
		err := c.syn.Synthesize(ctx, text)
		c.mu.Lock()
		// Only clear our own registration; a newer speak may have replaced it.
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
		c.mic.SetEnabled(true)
		switch {
		case ctx.Err() != nil:
			metricUtterances.WithLabelValues("cancelled").Inc()
		case err != nil:
			// Synthesis failure is non-fatal: the completion still fires so
			// the turn proceeds.
			log.Printf("[speech] synthesize error: %v", err)
			metricUtterances.WithLabelValues("error").Inc()
		default:
			metricUtterances.WithLabelValues("completed").Inc()
			metricSpeakDuration.Observe(float64(time.Since(start).Milliseconds()))
		}
	}()
	return done
}

// Cancel stops the in-flight utterance, if any. Used for barge-in and
// session teardown. The pending done channel still fires.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
