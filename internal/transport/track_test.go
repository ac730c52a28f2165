package transport

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/stretchr/testify/require"

	"github.com/1ureka/roswebrtc/internal/media"
)

// writeSamples feeds VP8 frames into track until stop is closed.
func writeSamples(track *webrtc.TrackLocalStaticSample, stop <-chan struct{}) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	frame := []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a, 0x40, 0x01, 0xf0, 0x00}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = track.WriteSample(pionmedia.Sample{Data: frame, Duration: 20 * time.Millisecond})
		}
	}
}

func TestRemoteTrackEndsWhenRemoved(t *testing.T) {
	s, err := NewSession(context.Background(), Options{
		Capabilities: media.Capabilities{ReceiveVideo: true},
	})
	require.NoError(t, err)
	defer s.Close()

	offerer, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	require.NoError(t, err)
	defer offerer.Close()

	video, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", "webrtc-stream-7")
	require.NoError(t, err)
	sender, err := offerer.AddTrack(video)
	require.NoError(t, err)

	candidates := make(chan webrtc.ICECandidateInit, 64)
	var gatheringDone atomic.Bool
	s.OnICECandidate(func(c *webrtc.ICECandidateInit) {
		if c == nil {
			gatheringDone.Store(true)
			return
		}
		candidates <- *c
	})

	tracks := make(chan media.Track, 1)
	s.OnTrack(func(tr media.Track) { tracks <- tr })

	// exchange runs one offer/answer round. The offer carries all of the
	// offerer's candidates.
	exchange := func() {
		t.Helper()
		offer, err := offerer.CreateOffer(nil)
		require.NoError(t, err)
		gathered := webrtc.GatheringCompletePromise(offerer)
		require.NoError(t, offerer.SetLocalDescription(offer))
		<-gathered

		require.NoError(t, s.SetRemoteDescription(*offerer.LocalDescription()))
		answer, err := s.CreateAnswer()
		require.NoError(t, err)
		require.NoError(t, s.SetLocalDescription(answer))
		require.NoError(t, offerer.SetRemoteDescription(answer))
	}

	exchange()
	go func() {
		for c := range candidates {
			_ = offerer.AddICECandidate(c)
		}
	}()

	stop := make(chan struct{})
	go writeSamples(video, stop)

	var track media.Track
	select {
	case track = <-tracks:
	case <-time.After(10 * time.Second):
		t.Fatal("no inbound track")
	}
	require.Equal(t, "webrtc-stream-7", track.StreamID())
	require.Equal(t, "video", track.ID())
	require.Equal(t, webrtc.RTPCodecTypeVideo, track.Kind())
	require.Equal(t, webrtc.MimeTypeVP8, track.Codec().MimeType)

	select {
	case <-track.Packets():
	case <-time.After(5 * time.Second):
		t.Fatal("no RTP packets")
	}

	// Gathering ended and its end-of-candidates marker came through as nil.
	require.Eventually(t, gatheringDone.Load, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, offerer.RemoveTrack(sender))
	close(stop)
	exchange()

	select {
	case <-track.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("track did not end after being removed")
	}
}
