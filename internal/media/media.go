// Package media describes the boundary between the signaling adapter and the
// real-time media stack: a peer session that negotiates descriptions and
// delivers inbound tracks.
package media

import (
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

// Capabilities declares which media kinds the local side is willing to
// receive. Each enabled kind is offered as an explicit recvonly capability
// when answering.
type Capabilities struct {
	ReceiveVideo bool
	ReceiveAudio bool
}

// DefaultCapabilities receives both video and audio.
var DefaultCapabilities = Capabilities{ReceiveVideo: true, ReceiveAudio: true}

// Track is an inbound media track.
type Track interface {
	// ID is the track identifier announced by the remote peer.
	ID() string
	// StreamID is the identifier of the stream the track belongs to.
	StreamID() string
	Kind() webrtc.RTPCodecType
	// Codec is the negotiated payload format.
	Codec() webrtc.RTPCodecParameters
	// Packets delivers inbound RTP. Packets are dropped while nobody reads.
	Packets() <-chan *rtp.Packet
	// Done is closed when the track is removed or the session goes away.
	Done() <-chan struct{}
}

// Session is the peer session owned by exactly one adapter.
type Session interface {
	// OnICECandidate registers the local candidate callback. A nil candidate
	// marks the end of gathering.
	OnICECandidate(fn func(*webrtc.ICECandidateInit))
	// OnTrack registers the inbound track callback.
	OnTrack(fn func(Track))

	SetRemoteDescription(desc webrtc.SessionDescription) error
	SetLocalDescription(desc webrtc.SessionDescription) error
	// CreateAnswer synthesizes an answer constrained to the session's
	// declared receive capabilities.
	CreateAnswer() (webrtc.SessionDescription, error)
	AddICECandidate(candidate webrtc.ICECandidateInit) error

	Close() error
}

// SessionFactory creates a fresh Session for each connection attempt.
type SessionFactory func() (Session, error)
