package agent

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"voxhire/agent/internal/config"
	"voxhire/agent/internal/echofilter"
	"voxhire/agent/internal/ledger"
	"voxhire/agent/internal/script"
	"voxhire/agent/internal/speech"
	"voxhire/agent/internal/store"
	"voxhire/agent/internal/submit"
	"voxhire/agent/internal/transcript"
	"voxhire/agent/internal/transport"
	"voxhire/agent/internal/turn"
)

var (
	ErrAlreadyRunning = errors.New("interview already running for session")
	ErrNotRunning     = errors.New("no interview running for session")
)

// Runner owns one turn controller per active session and routes transport
// traffic to it. It is the session-lifecycle authority: start, end, jump,
// status.
type Runner struct {
	cfg     config.Config
	store   *store.Store
	script  *script.Interview
	reg     *transport.Registry
	gateway submit.Gateway
	newSyn  func(sessionID string) speech.Synthesizer

	mu     sync.Mutex
	active map[string]*turn.Controller
}

func NewRunner(cfg config.Config, st *store.Store, iv *script.Interview, reg *transport.Registry, gw submit.Gateway) *Runner {
	r := &Runner{
		cfg:     cfg,
		store:   st,
		script:  iv,
		reg:     reg,
		gateway: gw,
		active:  make(map[string]*turn.Controller),
	}
	r.newSyn = r.defaultSynthesizer
	return r
}

func (r *Runner) defaultSynthesizer(sessionID string) speech.Synthesizer {
	if r.cfg.Eleven.APIKey == "" || r.cfg.Eleven.VoiceID == "" {
		return speech.Null{}
	}
	return speech.NewElevenLabs(r.cfg.Eleven.APIKey, r.cfg.Eleven.VoiceID, &registrySink{reg: r.reg, sessionID: sessionID})
}

// Start builds the session's collaborators and launches its turn controller.
func (r *Runner) Start(sessionID string) error {
	sess := r.store.GetSession(sessionID)
	if sess == nil {
		return errors.New("unknown session")
	}

	r.mu.Lock()
	if _, exists := r.active[sessionID]; exists {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	gate := &micGate{reg: r.reg, sessionID: sessionID}
	ctl := turn.New(turn.Params{
		SessionID:      sessionID,
		CandidateName:  sess.CandidateName,
		CandidateEmail: sess.CandidateEmail,
		InterviewTitle: r.script.Title,
		Greeting:       r.cfg.Interview.Greeting,
		Closing:        r.cfg.Interview.Closing,
		Ledger:         ledger.FromScript(r.script),
		Filter:         echofilter.New(),
		Speech:         speech.NewController(r.newSyn(sessionID), gate),
		Gateway:        r.gateway,
		Transcript:     transcript.NewLog(),
		LogEvent: func(typ string, payload map[string]any) {
			r.store.AppendEvent(sessionID, typ, payload)
		},
		CloseTransport: func() {
			gate.SetEnabled(true)
			if ch := r.reg.Get(sessionID); ch != nil {
				_ = ch.Close("session over")
			}
		},
	})
	r.active[sessionID] = ctl
	r.mu.Unlock()

	ctl.Start(context.Background())
	r.store.SetStatus(sessionID, "running")
	r.store.AppendEvent(sessionID, "interview_started", nil)

	// Reap when the controller reaches a terminal state.
	go func() {
		<-ctl.Done()
		r.mu.Lock()
		if r.active[sessionID] == ctl {
			delete(r.active, sessionID)
		}
		r.mu.Unlock()
		final := ctl.Snapshot().State
		r.store.SetStatus(sessionID, string(final))
		r.store.AppendEvent(sessionID, "interview_finished", map[string]any{"state": string(final)})
	}()
	return nil
}

// End aborts a running interview; the controller submits what it has and
// tears down.
func (r *Runner) End(sessionID string) error {
	ctl := r.get(sessionID)
	if ctl == nil {
		return ErrNotRunning
	}
	ctl.End()
	select {
	case <-ctl.Done():
	case <-time.After(35 * time.Second):
		log.Printf("[agent] end timed out session=%s", sessionID)
	}
	return nil
}

// Jump forwards a section jump request to the session's controller.
func (r *Runner) Jump(sessionID string, sectionID int64) error {
	ctl := r.get(sessionID)
	if ctl == nil {
		return ErrNotRunning
	}
	ctl.Jump(sectionID)
	return nil
}

func (r *Runner) IsRunning(sessionID string) bool { return r.get(sessionID) != nil }

// Status returns the controller's projection, or a zero snapshot with the
// stored status when the session is not running.
func (r *Runner) Status(sessionID string) (turn.Snapshot, bool) {
	if ctl := r.get(sessionID); ctl != nil {
		return ctl.Snapshot(), true
	}
	return turn.Snapshot{}, false
}

// StopAll ends every running interview; used at shutdown.
func (r *Runner) StopAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		_ = r.End(id)
	}
}

func (r *Runner) get(sessionID string) *turn.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[sessionID]
}

// transport.Sink implementation

func (r *Runner) OnConnected(sessionID string) {
	if ctl := r.get(sessionID); ctl != nil {
		ctl.OnConnState(transport.StateConnected)
	}
}

func (r *Runner) OnMessage(sessionID string, msg transport.Message) {
	if ctl := r.get(sessionID); ctl != nil {
		ctl.OnTransportMessage(msg)
	}
}

func (r *Runner) OnDisconnected(sessionID string, err error) {
	if ctl := r.get(sessionID); ctl != nil {
		ctl.OnConnState(transport.StateDisconnected)
	}
}

// micGate toggles candidate audio capture on the remote client via control
// events on the transport.
type micGate struct {
	reg       *transport.Registry
	sessionID string
}

func (g *micGate) SetEnabled(enabled bool) {
	typ := "input_audio.disable"
	if enabled {
		typ = "input_audio.enable"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.reg.SendJSON(ctx, g.sessionID, transport.Event{Type: typ}); err != nil {
		log.Printf("[agent] mic gate send session=%s: %v", g.sessionID, err)
	}
}

// registrySink forwards synthesized audio chunks to the session's live
// transport as binary frames.
type registrySink struct {
	reg       *transport.Registry
	sessionID string
}

func (s *registrySink) WriteAudio(ctx context.Context, chunk []byte) error {
	return s.reg.SendBinary(ctx, s.sessionID, chunk)
}
