// Package adapter negotiates a receive-only media session with a remote peer
// over a signaling connection and hands the resulting streams back to callers
// through single-fire futures.
//
// The remote peer is driven by configure messages: AddRemoteStream and
// RemoveRemoteStream queue actions, SendConfigure flushes them as one
// message. The peer answers with offers, which the adapter accepts
// automatically.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/randutil"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/protocol"
	"github.com/1ureka/roswebrtc/internal/signaling"
	"github.com/1ureka/roswebrtc/internal/util"
)

// streamIDSpace bounds the random suffix of generated stream ids.
const streamIDSpace = 1_000_000_000

var (
	// ErrClosed rejects every wait that is still outstanding at CloseAll.
	ErrClosed = errors.New("adapter closed")
	// ErrStreamPending means a wait for the stream id already exists.
	ErrStreamPending = errors.New("stream already requested")
	// ErrNotOpen is returned when a message needs an open connection.
	ErrNotOpen = errors.New("signaling connection not open")
)

// State is the signaling connection state.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Adapter owns one signaling connection and one media session.
type Adapter struct {
	url        string
	newSession media.SessionFactory

	queue ActionQueue
	table *correlation
	rand  randutil.MathRandomGenerator

	mu          sync.Mutex
	state       State
	conn        *signaling.Conn
	session     media.Session
	onConfigure func()

	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}
}

// New creates an adapter for the signaling endpoint at url. newSession is
// called once by Connect.
func New(url string, newSession media.SessionFactory) *Adapter {
	return &Adapter{
		url:        url,
		newSession: newSession,
		table:      newCorrelation(),
		rand:       randutil.NewMathRandomGenerator(),
		done:       make(chan struct{}),
	}
}

// OnConfigurationNeeded sets the hook invoked once the connection opens.
// It must be set before Connect.
func (a *Adapter) OnConfigurationNeeded(fn func()) {
	a.mu.Lock()
	a.onConfigure = fn
	a.mu.Unlock()
}

// State returns the current connection state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Done is closed when the signaling connection has ended, or immediately
// after CloseAll on an adapter that never connected.
func (a *Adapter) Done() <-chan struct{} {
	return a.done
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Connect creates the media session, dials the signaling endpoint and starts
// handling inbound messages. The configuration hook runs before Connect
// returns. A failed Connect leaves the adapter closed.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateIdle {
		state := a.state
		a.mu.Unlock()
		return fmt.Errorf("cannot connect: adapter is %s", state)
	}
	a.state = StateConnecting
	a.mu.Unlock()

	session, err := a.newSession()
	if err != nil {
		a.finish()
		return fmt.Errorf("failed to create media session: %w", err)
	}

	util.LogInfo("connecting to %s", a.url)
	conn, err := signaling.Dial(ctx, a.url)
	if err != nil {
		session.Close()
		a.finish()
		return err
	}

	session.OnICECandidate(a.handleLocalCandidate)
	session.OnTrack(a.handleTrack)

	a.mu.Lock()
	if a.state != StateConnecting {
		// CloseAll ran while dialing.
		a.mu.Unlock()
		session.Close()
		conn.Close()
		a.finish()
		return ErrClosed
	}
	a.conn = conn
	a.session = session
	a.state = StateOpen
	hook := a.onConfigure
	a.mu.Unlock()

	util.LogSuccess("signaling connection open")
	go a.readLoop(conn)

	if hook != nil {
		hook()
	}
	return nil
}

// CloseAll releases the media session, closes the signaling connection if it
// is still open and rejects every outstanding wait with ErrClosed. Only the
// first call has an effect.
func (a *Adapter) CloseAll() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		state := a.state
		session, conn := a.session, a.conn
		a.session = nil
		if state != StateClosed {
			a.state = StateClosing
		}
		a.mu.Unlock()

		a.table.rejectAll(ErrClosed)

		var errs []error
		if session != nil {
			errs = append(errs, session.Close())
		}
		if conn != nil && state == StateOpen {
			errs = append(errs, conn.Close())
		}
		if state == StateIdle {
			a.finish()
		}
		err = errors.Join(errs...)
		util.LogInfo("adapter closed")
	})
	return err
}

// finish marks the adapter closed and releases Done.
func (a *Adapter) finish() {
	a.mu.Lock()
	a.state = StateClosed
	a.mu.Unlock()
	a.doneOnce.Do(func() { close(a.done) })
}

func (a *Adapter) currentSession() media.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// send writes msg if the connection is open.
func (a *Adapter) send(msg protocol.Message) error {
	a.mu.Lock()
	conn, state := a.conn, a.state
	a.mu.Unlock()

	if conn == nil || state != StateOpen {
		return ErrNotOpen
	}
	if err := conn.Send(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Public API
// ---------------------------------------------------------------------------

// AddRemoteStream queues the actions that ask the remote peer to publish a
// new stream and returns a request that resolves when its first track
// arrives. Nothing is sent until SendConfigure.
func (a *Adapter) AddRemoteStream(desc StreamDescriptor) *StreamRequest {
	for {
		id := a.newStreamID()
		f, err := a.table.expect(id)
		if errors.Is(err, ErrStreamPending) {
			continue
		}
		if err != nil {
			f = newFuture[*Subscription]()
			f.reject(err)
			return &StreamRequest{ID: id, Future: f}
		}

		actions := []protocol.Action{
			protocol.AddStream(id),
			protocol.AddVideoTrack(id, trackID(id, desc.Video.ID), desc.Video.Src),
		}
		if desc.Audio != nil {
			actions = append(actions, protocol.AddAudioTrack(id, trackID(id, desc.Audio.ID), desc.Audio.Src))
		}
		a.queue.Enqueue(actions...)
		util.Stats.AddRequested()

		util.LogDebug("requested stream %s from %s", id, desc.Video.Src)
		return &StreamRequest{ID: id, Future: f}
	}
}

// RemoveRemoteStream queues a remove_stream action. Removal is confirmed by
// the stream's own Removed future once the peer stops sending.
func (a *Adapter) RemoveRemoteStream(id string) {
	a.queue.Enqueue(protocol.RemoveStream(id))
}

// SendConfigure flushes the action queue as one configure message. An empty
// queue still sends a configure with no actions. The queue is left untouched
// when the connection is not open.
func (a *Adapter) SendConfigure() error {
	if state := a.State(); state != StateOpen {
		util.LogWarning("configure skipped: connection is %s", state)
		return ErrNotOpen
	}

	actions := a.queue.Flush()
	if err := a.send(protocol.NewConfigure(actions)); err != nil {
		util.LogError("configure with %d action(s) lost: %v", len(actions), err)
		return err
	}
	util.LogDebug("sent configure with %d action(s)", len(actions))
	return nil
}

func (a *Adapter) newStreamID() string {
	return fmt.Sprintf("webrtc-stream-%d", a.rand.Intn(streamIDSpace))
}

func trackID(streamID, id string) string {
	return streamID + "/" + id
}

// ---------------------------------------------------------------------------
// Inbound handling
// ---------------------------------------------------------------------------

// readLoop dispatches inbound messages until the connection ends. Offers are
// handled inline, so the next message is read only after the answer went out.
func (a *Adapter) readLoop(conn *signaling.Conn) {
	defer a.finish()
	defer conn.Close()

	for {
		msg, err := conn.Receive()
		if err != nil {
			if errors.Is(err, protocol.ErrInvalidMessage) {
				util.LogDebug("ignoring signaling payload: %v", err)
				continue
			}
			if signaling.IsClosedError(err) || a.State() == StateClosing {
				util.LogInfo("signaling connection closed")
			} else {
				util.LogError("signaling connection failed: %v", err)
			}
			return
		}

		switch msg.Type {
		case protocol.TypeOffer:
			a.handleOffer(msg.SDP)
		case protocol.TypeICECandidate:
			a.handleRemoteCandidate(msg)
		default:
			util.LogDebug("ignoring %s message", msg.Type)
		}
	}
}

// handleOffer applies the offer, then creates, applies and sends the
// answer. A failed step abandons this negotiation only.
func (a *Adapter) handleOffer(sdp string) {
	session := a.currentSession()
	if session == nil {
		util.LogWarning("offer ignored: no media session")
		return
	}

	if util.DebugEnabled() {
		if sections, err := protocol.MediaSections(sdp); err == nil {
			util.LogDebug("offer media: %v", sections)
		}
	}

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp}
	if err := session.SetRemoteDescription(offer); err != nil {
		util.LogError("failed to apply offer: %v", err)
		return
	}

	answer, err := session.CreateAnswer()
	if err != nil {
		util.LogError("failed to create answer: %v", err)
		return
	}

	if err := session.SetLocalDescription(answer); err != nil {
		util.LogError("failed to apply answer: %v", err)
		return
	}

	if err := a.send(protocol.NewAnswer(answer.SDP)); err != nil {
		util.LogError("%v", err)
		return
	}
	util.LogDebug("answer sent")
}

func (a *Adapter) handleRemoteCandidate(msg *protocol.Message) {
	session := a.currentSession()
	if session == nil {
		util.LogWarning("ice candidate ignored: no media session")
		return
	}

	mid, idx := msg.SDPMid, msg.SDPMLineIndex
	candidate := webrtc.ICECandidateInit{
		Candidate:     msg.Candidate,
		SDPMid:        &mid,
		SDPMLineIndex: &idx,
	}
	if err := session.AddICECandidate(candidate); err != nil {
		util.LogWarning("failed to add remote ice candidate: %v", err)
	}
}

// handleLocalCandidate forwards a gathered candidate unbatched. A nil or
// empty candidate marks the end of gathering and is not sent.
func (a *Adapter) handleLocalCandidate(c *webrtc.ICECandidateInit) {
	if c == nil || c.Candidate == "" {
		return
	}

	var mid string
	var idx uint16
	if c.SDPMid != nil {
		mid = *c.SDPMid
	}
	if c.SDPMLineIndex != nil {
		idx = *c.SDPMLineIndex
	}

	if err := a.send(protocol.NewICECandidate(mid, idx, c.Candidate)); err != nil {
		util.LogDebug("local ice candidate dropped: %v", err)
	}
}

func (a *Adapter) handleTrack(t media.Track) {
	util.LogInfo("received %s track %s (stream %s)", t.Kind(), t.ID(), t.StreamID())
	if a.table.resolve(t) {
		util.Stats.AddResolved()
		util.LogSuccess("stream %s ready", t.StreamID())
	}
}
