package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AudioSink receives synthesized audio chunks, typically forwarding them to
// the session transport as binary frames.
type AudioSink interface {
	WriteAudio(ctx context.Context, chunk []byte) error
}

// ElevenLabs streams TTS audio from the ElevenLabs HTTP API into an
// AudioSink. Chunks are forwarded as they arrive so playback starts before
// the full utterance is rendered.
type ElevenLabs struct {
	http    *http.Client
	apiKey  string
	voiceID string
	base    string
	sink    AudioSink
}

func NewElevenLabs(apiKey, voiceID string, sink AudioSink) *ElevenLabs {
	return &ElevenLabs{
		http:    &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		voiceID: voiceID,
		base:    "https://api.elevenlabs.io/v1",
		sink:    sink,
	}
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/text-to-speech/%s/stream", e.base, e.voiceID)
	body := fmt.Sprintf(`{"text":%q}`, text)
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("elevenlabs: %s: %s", resp.Status, string(b))
	}

	buf := make([]byte, 4096)
	first := true
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if first {
				metricFirstAudio.Observe(float64(time.Since(start).Milliseconds()))
				first = false
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if werr := e.sink.WriteAudio(ctx, chunk); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Null is a no-op synthesizer for tests and audio-less deployments. It
// returns as soon as ctx allows, so completion signals still fire.
type Null struct{}

func (Null) Synthesize(ctx context.Context, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
