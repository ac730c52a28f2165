package adapter

import (
	"sync"

	"github.com/1ureka/roswebrtc/internal/media"
)

// TrackSource names one track to publish: ID is the track name within the
// stream and Src is the server-side source it is fed from.
type TrackSource struct {
	ID  string
	Src string
}

// StreamDescriptor is what AddRemoteStream asks the remote peer to send.
type StreamDescriptor struct {
	Video TrackSource
	Audio *TrackSource
}

// Stream is a remote stream that has delivered at least one track.
type Stream struct {
	ID string

	mu     sync.Mutex
	tracks []media.Track
}

// Tracks returns the stream's live tracks.
func (s *Stream) Tracks() []media.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]media.Track(nil), s.tracks...)
}

func (s *Stream) add(t media.Track) {
	s.mu.Lock()
	s.tracks = append(s.tracks, t)
	s.mu.Unlock()
}

// remove drops t and reports how many tracks are left.
func (s *Stream) remove(t media.Track) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.tracks {
		if cur == t {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			break
		}
	}
	return len(s.tracks)
}

// Subscription is the value a StreamRequest resolves with. Removed settles
// when the track that resolved the request goes away.
type Subscription struct {
	Stream  *Stream
	Removed *Future[media.Track]
}

// StreamRequest is a pending AddRemoteStream call.
type StreamRequest struct {
	ID string
	*Future[*Subscription]
}
