package protocol

// ActionType identifies a configure sub-action.
type ActionType string

// Configure action constants.
const (
	ActionAddStream        ActionType = "add_stream"
	ActionRemoveStream     ActionType = "remove_stream"
	ActionAddVideoTrack    ActionType = "add_video_track"
	ActionAddAudioTrack    ActionType = "add_audio_track"
	ActionExpectStream     ActionType = "expect_stream"
	ActionExpectVideoTrack ActionType = "expect_video_track"
)

// Action is one entry of a configure message. Within a batch, add_stream for
// an id must precede every track action that references it.
type Action struct {
	Type     ActionType `json:"type"`
	ID       string     `json:"id"`
	StreamID string     `json:"stream_id,omitempty"`
	Src      string     `json:"src,omitempty"`
	Dest     string     `json:"dest,omitempty"`
}

// AddStream asks the remote peer to create an outgoing stream with the given id.
func AddStream(id string) Action {
	return Action{Type: ActionAddStream, ID: id}
}

// RemoveStream asks the remote peer to tear down a stream.
func RemoveStream(id string) Action {
	return Action{Type: ActionRemoveStream, ID: id}
}

// AddVideoTrack attaches a video source to a previously added stream.
func AddVideoTrack(streamID, id, src string) Action {
	return Action{Type: ActionAddVideoTrack, StreamID: streamID, ID: id, Src: src}
}

// AddAudioTrack attaches an audio source to a previously added stream.
func AddAudioTrack(streamID, id, src string) Action {
	return Action{Type: ActionAddAudioTrack, StreamID: streamID, ID: id, Src: src}
}

// ExpectStream announces a stream the local side intends to publish.
func ExpectStream(id string) Action {
	return Action{Type: ActionExpectStream, ID: id}
}

// ExpectVideoTrack announces a published video track and where the remote
// peer should deliver it.
func ExpectVideoTrack(streamID, id, dest string) Action {
	return Action{Type: ActionExpectVideoTrack, StreamID: streamID, ID: id, Dest: dest}
}

// IsTrack reports whether the action references a parent stream.
func (a Action) IsTrack() bool {
	switch a.Type {
	case ActionAddVideoTrack, ActionAddAudioTrack, ActionExpectVideoTrack:
		return true
	}
	return false
}
