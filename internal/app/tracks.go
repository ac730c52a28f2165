package app

import (
	"time"

	"github.com/1ureka/roswebrtc/internal/adapter"
	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/util"
)

const trackPollInterval = 500 * time.Millisecond

// trackReader drains the RTP of every track of a subscribed stream. It is
// only used from the run loop goroutine.
type trackReader struct {
	seen map[string]bool
}

func newTrackReader() *trackReader {
	return &trackReader{seen: make(map[string]bool)}
}

// attach starts reading the tracks of s that are not read yet.
func (r *trackReader) attach(s *adapter.Stream) {
	for _, t := range s.Tracks() {
		if r.seen[t.ID()] {
			continue
		}
		r.seen[t.ID()] = true

		util.LogInfo("track %s: %s %s", t.ID(), t.Kind(), t.Codec().MimeType)
		go readTrack(t)
	}
}

// readTrack consumes packets until the track ends and logs its totals.
func readTrack(t media.Track) {
	var packets, bytes int
	for {
		select {
		case pkt := <-t.Packets():
			packets++
			bytes += len(pkt.Payload)
		case <-t.Done():
			util.LogInfo("track %s ended after %d packets (%d payload bytes)", t.ID(), packets, bytes)
			return
		}
	}
}
