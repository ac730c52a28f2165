// Package transport implements the media session on top of pion/webrtc.
package transport

import (
	"context"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/util"
)

// Options configures a Session.
type Options struct {
	STUNServers  []string
	Capabilities media.Capabilities
}

// Session wraps a single PeerConnection that only receives media. Inbound
// tracks are surfaced as *RemoteTrack values whose Done channel reports
// their removal.
//
// Its lifecycle is governed by Close and the context passed at construction
// time. PeerConnection state changes are only logged.
type Session struct {
	pc     *webrtc.PeerConnection
	cancel context.CancelFunc
}

var _ media.Session = (*Session)(nil)

// NewSession creates a Session backed by a new PeerConnection with one
// recvonly transceiver per enabled capability. The session closes itself
// when ctx is cancelled.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	api, err := newAPI(opts.Capabilities)
	if err != nil {
		return nil, err
	}

	pc, err := newPeerConnection(api, opts.STUNServers)
	if err != nil {
		return nil, err
	}

	if err := addReceivers(pc, opts.Capabilities); err != nil {
		pc.Close()
		return nil, err
	}

	sCtx, sCancel := context.WithCancel(ctx)

	s := &Session{pc: pc, cancel: sCancel}

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		util.LogDebug("PeerConnection state: %s", state.String())
	})

	go func() {
		<-sCtx.Done()
		pc.Close()
	}()

	return s, nil
}

// NewFactory returns a media.SessionFactory producing sessions bound to ctx.
func NewFactory(ctx context.Context, opts Options) media.SessionFactory {
	return func() (media.Session, error) {
		return NewSession(ctx, opts)
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Close shuts down the PeerConnection. Every RemoteTrack ends as a result.
func (s *Session) Close() error {
	s.cancel()
	return s.pc.Close()
}

// ---------------------------------------------------------------------------
// Negotiation
// ---------------------------------------------------------------------------

// CreateAnswer generates an SDP answer. Media kinds that are not enabled in
// the session's capabilities are rejected.
func (s *Session) CreateAnswer() (webrtc.SessionDescription, error) {
	return s.pc.CreateAnswer(nil)
}

// SetLocalDescription applies the local SDP.
func (s *Session) SetLocalDescription(sdp webrtc.SessionDescription) error {
	return s.pc.SetLocalDescription(sdp)
}

// SetRemoteDescription applies the remote SDP.
func (s *Session) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	return s.pc.SetRemoteDescription(sdp)
}

// OnICECandidate registers a callback invoked whenever a new local ICE
// candidate is gathered. A nil candidate signals the end of gathering.
func (s *Session) OnICECandidate(fn func(*webrtc.ICECandidateInit)) {
	s.pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			fn(nil)
			return
		}
		init := c.ToJSON()
		fn(&init)
	})
}

// AddICECandidate adds a remote ICE candidate received through signaling.
func (s *Session) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	return s.pc.AddICECandidate(candidate)
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// OnTrack registers a callback invoked for every inbound track. The track's
// RTP pump is already running when fn is called.
func (s *Session) OnTrack(fn func(media.Track)) {
	s.pc.OnTrack(func(raw *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		util.LogDebug("inbound %s track %s (stream %s, codec %s)",
			raw.Kind(), raw.ID(), raw.StreamID(), raw.Codec().MimeType)

		t := newRemoteTrack(raw)
		go t.pump()
		fn(t)
	})
}
