package transport

import (
	"errors"
	"io"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/util"
)

// packetBufferSize is the capacity of a track's packet channel. Packets are
// dropped while the channel is full.
const packetBufferSize = 128

// RemoteTrack is an inbound pion track. A pump goroutine reads its RTP
// stream; Done closes when the read fails, which is how pion reports that
// the remote side stopped sending the track or the session closed.
type RemoteTrack struct {
	raw     *webrtc.TrackRemote
	packets chan *rtp.Packet
	done    chan struct{}
}

var _ media.Track = (*RemoteTrack)(nil)

func newRemoteTrack(raw *webrtc.TrackRemote) *RemoteTrack {
	return &RemoteTrack{
		raw:     raw,
		packets: make(chan *rtp.Packet, packetBufferSize),
		done:    make(chan struct{}),
	}
}

func (t *RemoteTrack) ID() string                       { return t.raw.ID() }
func (t *RemoteTrack) StreamID() string                 { return t.raw.StreamID() }
func (t *RemoteTrack) Kind() webrtc.RTPCodecType        { return t.raw.Kind() }
func (t *RemoteTrack) Codec() webrtc.RTPCodecParameters { return t.raw.Codec() }
func (t *RemoteTrack) Done() <-chan struct{}            { return t.done }

// Packets delivers the track's RTP packets. The channel is never closed;
// select on Done to detect the end of the track.
func (t *RemoteTrack) Packets() <-chan *rtp.Packet { return t.packets }

// pump reads RTP until the track ends.
func (t *RemoteTrack) pump() {
	defer close(t.done)

	for {
		pkt, _, err := t.raw.ReadRTP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				util.LogDebug("track %s read stopped: %v", t.raw.ID(), err)
			}
			return
		}

		util.Stats.AddPacket(pkt.MarshalSize())

		select {
		case t.packets <- pkt:
		default:
		}
	}
}
