package adapter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1ureka/roswebrtc/internal/protocol"
)

func TestActionQueueFlushSwaps(t *testing.T) {
	var q ActionQueue

	require.Empty(t, q.Flush())
	require.NotNil(t, q.Flush())

	q.Enqueue(protocol.AddStream("a"))
	q.Enqueue(protocol.RemoveStream("b"), protocol.AddStream("c"))
	require.Equal(t, 3, q.Len())

	batch := q.Flush()
	require.Equal(t, []protocol.Action{
		protocol.AddStream("a"),
		protocol.RemoveStream("b"),
		protocol.AddStream("c"),
	}, batch)
	require.Zero(t, q.Len())

	q.Enqueue(protocol.RemoveStream("d"))
	require.Equal(t, []protocol.Action{protocol.RemoveStream("d")}, q.Flush())
}

func TestAddRemoteStreamQueueOrder(t *testing.T) {
	a := New("ws://unused", nil)

	first := a.AddRemoteStream(StreamDescriptor{
		Video: TrackSource{ID: "video", Src: "cam:a"},
		Audio: &TrackSource{ID: "audio", Src: "mic:a"},
	})
	a.RemoveRemoteStream("old")
	second := a.AddRemoteStream(StreamDescriptor{Video: TrackSource{ID: "video", Src: "cam:b"}})

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, []protocol.Action{
		protocol.AddStream(first.ID),
		protocol.AddVideoTrack(first.ID, first.ID+"/video", "cam:a"),
		protocol.AddAudioTrack(first.ID, first.ID+"/audio", "mic:a"),
		protocol.RemoveStream("old"),
		protocol.AddStream(second.ID),
		protocol.AddVideoTrack(second.ID, second.ID+"/video", "cam:b"),
	}, a.queue.Flush())
}

func TestAddRemoteStreamConcurrentBatchesStayContiguous(t *testing.T) {
	a := New("ws://unused", nil)

	const callers = 32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.AddRemoteStream(StreamDescriptor{
				Video: TrackSource{ID: "video", Src: "cam"},
				Audio: &TrackSource{ID: "audio", Src: "mic"},
			})
		}()
	}
	wg.Wait()

	batch := a.queue.Flush()
	require.Len(t, batch, callers*3)

	for i := 0; i < len(batch); i += 3 {
		id := batch[i].ID
		require.Equal(t, protocol.ActionAddStream, batch[i].Type)
		require.Equal(t, protocol.ActionAddVideoTrack, batch[i+1].Type)
		require.Equal(t, id, batch[i+1].StreamID)
		require.Equal(t, protocol.ActionAddAudioTrack, batch[i+2].Type)
		require.Equal(t, id, batch[i+2].StreamID)
	}
}
