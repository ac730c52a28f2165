package adapter

import (
	"errors"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/roswebrtc/internal/media"
)

// mockSession records the calls the adapter makes and lets tests fire the
// session's callbacks by hand.
type mockSession struct {
	mu         sync.Mutex
	calls      []string
	remote     []webrtc.SessionDescription
	local      []webrtc.SessionDescription
	candidates []webrtc.ICECandidateInit
	closed     int

	// failRemote is returned by the next SetRemoteDescription, then cleared.
	failRemote error

	onICE   func(*webrtc.ICECandidateInit)
	onTrack func(media.Track)
}

var _ media.Session = (*mockSession)(nil)

func (m *mockSession) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockSession) OnICECandidate(fn func(*webrtc.ICECandidateInit)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onICE = fn
}

func (m *mockSession) OnTrack(fn func(media.Track)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTrack = fn
}

func (m *mockSession) SetRemoteDescription(desc webrtc.SessionDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetRemoteDescription")
	if err := m.failRemote; err != nil {
		m.failRemote = nil
		return err
	}
	m.remote = append(m.remote, desc)
	return nil
}

func (m *mockSession) SetLocalDescription(desc webrtc.SessionDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetLocalDescription")
	m.local = append(m.local, desc)
	return nil
}

func (m *mockSession) CreateAnswer() (webrtc.SessionDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateAnswer")
	if len(m.remote) == 0 {
		return webrtc.SessionDescription{}, errors.New("no remote description")
	}
	offer := m.remote[len(m.remote)-1]
	return webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "answer-for:" + offer.SDP}, nil
}

func (m *mockSession) AddICECandidate(c webrtc.ICECandidateInit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = append(m.candidates, c)
	return nil
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockSession) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockSession) Candidates() []webrtc.ICECandidateInit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]webrtc.ICECandidateInit(nil), m.candidates...)
}

func (m *mockSession) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockSession) emitCandidate(c *webrtc.ICECandidateInit) {
	m.mu.Lock()
	fn := m.onICE
	m.mu.Unlock()
	fn(c)
}

func (m *mockSession) deliver(t media.Track) {
	m.mu.Lock()
	fn := m.onTrack
	m.mu.Unlock()
	fn(t)
}

// mockTrack is an inbound track whose removal is triggered by remove.
type mockTrack struct {
	id       string
	streamID string
	kind     webrtc.RTPCodecType
	done     chan struct{}
	once     sync.Once
}

var _ media.Track = (*mockTrack)(nil)

func newMockTrack(streamID, name string, kind webrtc.RTPCodecType) *mockTrack {
	return &mockTrack{
		id:       trackID(streamID, name),
		streamID: streamID,
		kind:     kind,
		done:     make(chan struct{}),
	}
}

func (t *mockTrack) ID() string                       { return t.id }
func (t *mockTrack) StreamID() string                 { return t.streamID }
func (t *mockTrack) Kind() webrtc.RTPCodecType        { return t.kind }
func (t *mockTrack) Codec() webrtc.RTPCodecParameters { return webrtc.RTPCodecParameters{} }
func (t *mockTrack) Packets() <-chan *rtp.Packet      { return nil }
func (t *mockTrack) Done() <-chan struct{}            { return t.done }

func (t *mockTrack) remove() {
	t.once.Do(func() { close(t.done) })
}
