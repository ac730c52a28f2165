// Package protocol defines the JSON control messages exchanged over the
// signaling connection and the configure actions they carry.
package protocol

// MessageType is the discriminator of a signaling message.
type MessageType string

// Message type constants.
const (
	TypeOffer        MessageType = "offer"         // remote session description (received)
	TypeAnswer       MessageType = "answer"        // local session description (sent)
	TypeICECandidate MessageType = "ice_candidate" // trickled network candidate (both ways)
	TypeConfigure    MessageType = "configure"     // batch of configure actions (sent)
)

// Known reports whether t is one of the message types of the schema.
func (t MessageType) Known() bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeICECandidate, TypeConfigure:
		return true
	}
	return false
}

// Message is the tagged union exchanged over the signaling connection.
// Only the fields belonging to Type are meaningful; MarshalJSON emits exactly
// those fields.
type Message struct {
	Type MessageType `json:"type"`

	// offer / answer
	SDP string `json:"sdp,omitempty"`

	// ice_candidate
	SDPMid        string `json:"sdp_mid,omitempty"`
	SDPMLineIndex uint16 `json:"sdp_mline_index,omitempty"`
	Candidate     string `json:"candidate,omitempty"`

	// configure
	Actions []Action `json:"actions,omitempty"`
}

// NewAnswer builds an answer message carrying the local SDP.
func NewAnswer(sdp string) Message {
	return Message{Type: TypeAnswer, SDP: sdp}
}

// NewOffer builds an offer message. The adapter only receives offers; this
// exists for peer-side harnesses.
func NewOffer(sdp string) Message {
	return Message{Type: TypeOffer, SDP: sdp}
}

// NewICECandidate builds an ice_candidate message.
func NewICECandidate(sdpMid string, sdpMLineIndex uint16, candidate string) Message {
	return Message{
		Type:          TypeICECandidate,
		SDPMid:        sdpMid,
		SDPMLineIndex: sdpMLineIndex,
		Candidate:     candidate,
	}
}

// NewConfigure builds a configure message. A nil slice is sent as an empty
// action list.
func NewConfigure(actions []Action) Message {
	if actions == nil {
		actions = []Action{}
	}
	return Message{Type: TypeConfigure, Actions: actions}
}
