package turn

import (
	"context"
	"fmt"
	"log"
	"time"

	"voxhire/agent/internal/echofilter"
	"voxhire/agent/internal/ledger"
	"voxhire/agent/internal/submit"
	"voxhire/agent/internal/transcript"
	"voxhire/agent/internal/transport"
)

// State is the externally observable conversation state.
type State string

const (
	StateIdle          State = "idle"
	StateConnecting    State = "connecting"
	StateAgentSpeaking State = "agent_speaking"
	StateListening     State = "listening"
	StateSubmitting    State = "submitting"
	StateEnded         State = "ended"
	StateErrored       State = "errored"
)

func (s State) Terminal() bool { return s == StateEnded || s == StateErrored }

// Speech is the speak/cancel contract of the speech output controller.
type Speech interface {
	Speak(ctx context.Context, text string) <-chan struct{}
	Cancel()
}

const nextQuestionPrefix = "Thank you. Next question: "

// Params wires a controller to its collaborators.
type Params struct {
	SessionID      string
	CandidateName  string
	CandidateEmail string
	InterviewTitle string

	// Greeting is a format string taking candidate name and interview title;
	// the first question's prompt is appended to it.
	Greeting string
	Closing  string

	Ledger     *ledger.Ledger
	Filter     *echofilter.Filter
	Speech     Speech
	Gateway    submit.Gateway
	Transcript *transcript.Log

	// LogEvent appends to the session event log; optional.
	LogEvent func(typ string, payload map[string]any)
	// CloseTransport releases the session's transport and media resources;
	// called exactly once at teardown.
	CloseTransport func()
}

type evKind int

const (
	evConnState evKind = iota
	evTransport
	evSpeakDone
	evJump
	evEnd
)

type event struct {
	kind      evKind
	connState transport.ConnState
	msg       transport.Message
	sectionID int64
	seq       uint64
}

// Controller is the per-session turn-taking state machine. It reconciles
// the speech-output lifecycle, the transport connection lifecycle and the
// inbound recognition stream into one conversational turn at a time.
//
// All transitions happen on the single run goroutine; external callers only
// enqueue events. Exactly one question is in flight at any moment: either
// being spoken or being listened for.
type Controller struct {
	p Params

	ctx    context.Context
	cancel context.CancelFunc

	queue chan event
	done  chan struct{}

	// Loop-local; touched only by the run goroutine.
	expected         string // utterance currently being spoken / just spoken
	speakSeq         uint64
	barged           bool
	pendingUtterance string // completed recognition captured during a barge-in
	pendingJump      int64  // section jump deferred until the speak resolves
	closed           bool
	submitted        bool

	snap snapshot
}

func New(p Params) *Controller {
	if p.Filter == nil {
		p.Filter = echofilter.New()
	}
	if p.Transcript == nil {
		p.Transcript = transcript.NewLog()
	}
	if p.LogEvent == nil {
		p.LogEvent = func(string, map[string]any) {}
	}
	if p.Gateway == nil {
		p.Gateway = submit.LogGateway{}
	}
	c := &Controller{
		p:     p,
		queue: make(chan event, 256),
		done:  make(chan struct{}),
	}
	c.snap.set(StateIdle, 0, p.Ledger.Progress())
	return c
}

// Start moves the session out of Idle and begins processing events. The
// transport is considered connecting until its state stream reports
// connected.
func (c *Controller) Start(parent context.Context) {
	c.ctx, c.cancel = context.WithCancel(parent)
	c.setState(StateConnecting)
	go c.run()
}

// Done is closed when the session reaches a terminal state and teardown has
// completed.
func (c *Controller) Done() <-chan struct{} { return c.done }

// OnConnState enqueues a transport connection-state change. May be called
// from any goroutine.
func (c *Controller) OnConnState(st transport.ConnState) {
	c.push(event{kind: evConnState, connState: st})
}

// OnTransportMessage enqueues a decoded inbound transport event.
func (c *Controller) OnTransportMessage(msg transport.Message) {
	c.push(event{kind: evTransport, msg: msg})
}

// Jump requests moving the interview to the first unanswered question of a
// section; the presentation layer's chosen index is never trusted directly.
func (c *Controller) Jump(sectionID int64) {
	c.push(event{kind: evJump, sectionID: sectionID})
}

// End aborts the session, submitting whatever has been answered so far.
func (c *Controller) End() {
	c.push(event{kind: evEnd})
}

func (c *Controller) push(e event) {
	select {
	case <-c.done:
	case c.queue <- e:
	}
}

func (c *Controller) run() {
	defer close(c.done)
	defer c.teardown()
	for e := range c.queue {
		c.handle(e)
		if c.state().Terminal() {
			return
		}
	}
}

func (c *Controller) handle(e event) {
	switch e.kind {
	case evConnState:
		c.handleConnState(e.connState)
	case evTransport:
		c.handleTransport(e.msg)
	case evSpeakDone:
		c.handleSpeakDone(e.seq)
	case evJump:
		c.handleJump(e.sectionID)
	case evEnd:
		c.handleEnd()
	}
}

func (c *Controller) handleConnState(st transport.ConnState) {
	switch st {
	case transport.StateConnected:
		if c.state() != StateConnecting {
			c.p.LogEvent("transport_reconnected", nil)
			return
		}
		next := c.p.Ledger.FirstUnanswered()
		if next == nil {
			c.beginSubmitting()
			return
		}
		greeting := fmt.Sprintf(c.p.Greeting, c.p.CandidateName, c.p.InterviewTitle)
		c.dispatch(next, greeting)
	case transport.StateDisconnected:
		// Transport loss preempts everything else: fatal to the session from
		// any non-terminal state.
		if !c.state().Terminal() {
			metricTransportFailures.Inc()
			c.p.LogEvent("transport_lost", nil)
			c.setState(StateErrored)
		}
	}
}

func (c *Controller) handleTransport(msg transport.Message) {
	switch msg.Kind {
	case transport.KindTranscriptDelta, transport.KindTranscriptFinal:
	default:
		// Remote agent text and anything unclassified never drive decisions.
		return
	}

	switch c.state() {
	case StateAgentSpeaking:
		// Candidate speech while the agent is talking is a barge-in: stop the
		// readback immediately rather than talking over them. The completion
		// signal of the cancelled utterance re-arms listening, with the mic
		// guaranteed re-enabled first.
		if !c.barged {
			c.barged = true
			metricBargeIns.Inc()
			c.p.LogEvent("barge_in", map[string]any{"trigger": msg.Kind.String()})
			c.p.Speech.Cancel()
		}
		if msg.Kind == transport.KindTranscriptFinal && msg.Text != "" {
			c.pendingUtterance = msg.Text
		}
	case StateListening:
		if msg.Kind == transport.KindTranscriptFinal {
			c.acceptUtterance(msg.Text)
		}
	}
}

func (c *Controller) handleSpeakDone(seq uint64) {
	if seq != c.speakSeq {
		// Completion of an utterance that was already superseded.
		return
	}
	switch c.state() {
	case StateAgentSpeaking:
		c.setState(StateListening)
		if c.pendingJump != 0 {
			sid := c.pendingJump
			c.pendingJump = 0
			c.handleJump(sid)
			return
		}
		if c.pendingUtterance != "" {
			text := c.pendingUtterance
			c.pendingUtterance = ""
			c.acceptUtterance(text)
		}
	case StateSubmitting:
		// Closing phrase finished; flush the result.
		c.performSubmit()
	}
}

// acceptUtterance runs the Listening-state decision: discard echoes and
// duplicates silently, otherwise record the answer and advance.
func (c *Controller) acceptUtterance(text string) {
	if text == "" {
		return
	}
	switch c.p.Filter.Classify(c.expected, text) {
	case echofilter.Echo:
		c.p.LogEvent("utterance_rejected", map[string]any{"reason": "echo"})
		return
	case echofilter.Duplicate:
		c.p.LogEvent("utterance_rejected", map[string]any{"reason": "duplicate"})
		return
	}

	c.p.Filter.MarkAccepted(text)
	c.p.Transcript.Append(transcript.RoleCandidate, text)
	c.p.Ledger.RecordAnswer(text)
	metricAnswers.Inc()
	c.p.LogEvent("answer_accepted", map[string]any{"chars": len(text)})

	// The pointer is recomputed from scratch rather than trusted: any drift
	// (section jumps, replayed events) heals here.
	next := c.p.Ledger.FirstUnanswered()
	if next == nil {
		c.beginSubmitting()
		return
	}
	c.dispatch(next, nextQuestionPrefix)
}

// dispatch speaks one question and arms the expected-utterance echo check.
// Single-flight: a new dispatch only ever happens after the previous speak
// resolved.
func (c *Controller) dispatch(rec *ledger.QuestionRecord, prefix string) {
	c.p.Ledger.SetCurrent(rec.ID)
	spoken := prefix + rec.Prompt
	c.expected = rec.Prompt
	c.barged = false
	c.pendingUtterance = ""
	c.p.Transcript.Append(transcript.RoleAgent, spoken)
	c.speak(spoken)
	c.setState(StateAgentSpeaking)
	c.snap.set(StateAgentSpeaking, rec.ID, c.p.Ledger.Progress())
	c.p.LogEvent("question_dispatched", map[string]any{"question_id": rec.ID})
}

func (c *Controller) speak(text string) {
	c.speakSeq++
	seq := c.speakSeq
	done := c.p.Speech.Speak(c.ctx, text)
	go func() {
		<-done
		c.push(event{kind: evSpeakDone, seq: seq})
	}()
}

func (c *Controller) beginSubmitting() {
	c.setState(StateSubmitting)
	c.expected = ""
	if c.p.Closing != "" {
		c.p.Transcript.Append(transcript.RoleAgent, c.p.Closing)
		c.speak(c.p.Closing)
		return
	}
	c.performSubmit()
}

func (c *Controller) performSubmit() {
	if c.submitted {
		return
	}
	c.submitted = true

	records := c.p.Ledger.Records()
	answers := make([]submit.Answer, 0, len(records))
	for _, r := range records {
		answers = append(answers, submit.Answer{QuestionID: r.ID, Text: r.Answer})
	}
	payload := submit.Payload{
		SessionID:      c.p.SessionID,
		CandidateName:  c.p.CandidateName,
		CandidateEmail: c.p.CandidateEmail,
		Answers:        answers,
		Transcript:     c.p.Transcript.Entries(),
	}

	// The interview content is already captured here; a gateway failure is
	// reported, never retried, and the session still ends.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	start := time.Now()
	if err := c.p.Gateway.Submit(ctx, payload); err != nil {
		log.Printf("[turn] submit failed session=%s: %v", c.p.SessionID, err)
		metricSubmissions.WithLabelValues("failure").Inc()
		c.p.LogEvent("submit_failed", map[string]any{"error": err.Error()})
	} else {
		metricSubmissions.WithLabelValues("success").Inc()
		metricSubmitLatency.Observe(float64(time.Since(start).Milliseconds()))
		c.p.LogEvent("submitted", map[string]any{"answers": len(answers)})
	}
	c.setState(StateEnded)
}

func (c *Controller) handleJump(sectionID int64) {
	switch c.state() {
	case StateAgentSpeaking:
		// Defer until the in-flight utterance resolves so dispatches stay
		// single-flight.
		c.pendingJump = sectionID
		if !c.barged {
			c.barged = true
			c.p.Speech.Cancel()
		}
	case StateListening:
		rec := c.p.Ledger.FirstUnansweredInSection(sectionID)
		if rec == nil {
			c.p.LogEvent("jump_ignored", map[string]any{"section_id": sectionID})
			return
		}
		c.p.LogEvent("jump", map[string]any{"section_id": sectionID, "question_id": rec.ID})
		c.dispatch(rec, "")
	}
}

func (c *Controller) handleEnd() {
	if c.state().Terminal() {
		return
	}
	c.p.LogEvent("session_end_requested", nil)
	c.p.Speech.Cancel()
	// Same submission path as natural completion: capture whatever has been
	// answered so far, then tear down.
	c.performSubmit()
}

func (c *Controller) teardown() {
	if c.closed {
		return
	}
	c.closed = true
	c.p.Speech.Cancel()
	if c.p.CloseTransport != nil {
		c.p.CloseTransport()
	}
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) state() State { return c.snap.state() }

func (c *Controller) setState(to State) {
	from := c.state()
	if from == to {
		return
	}
	metricTransitions.WithLabelValues(string(to)).Inc()
	c.snap.setState(to)
	c.snap.setProgress(c.p.Ledger.Progress())
	c.p.LogEvent("state_changed", map[string]any{"from": string(from), "to": string(to)})
}
