package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidMessage is wrapped by every decoding failure.
	ErrInvalidMessage = errors.New("invalid signaling message")

	// ErrUnknownType is returned for payloads whose type tag is not in the schema.
	ErrUnknownType = fmt.Errorf("%w: unknown type", ErrInvalidMessage)
)

// MarshalJSON emits the wire shape that belongs to m.Type.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case TypeOffer, TypeAnswer:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			SDP  string      `json:"sdp"`
		}{m.Type, m.SDP})

	case TypeICECandidate:
		return json.Marshal(struct {
			Type          MessageType `json:"type"`
			SDPMid        string      `json:"sdp_mid"`
			SDPMLineIndex uint16      `json:"sdp_mline_index"`
			Candidate     string      `json:"candidate"`
		}{m.Type, m.SDPMid, m.SDPMLineIndex, m.Candidate})

	case TypeConfigure:
		actions := m.Actions
		if actions == nil {
			actions = []Action{}
		}
		return json.Marshal(struct {
			Type    MessageType `json:"type"`
			Actions []Action    `json:"actions"`
		}{m.Type, actions})

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, m.Type)
	}
}

// Encode serializes a Message into JSON text for the signaling connection.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses a JSON text payload into a Message. Payloads that are not
// JSON objects, or whose type tag is unknown, are rejected.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if !msg.Type.Known() {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, msg.Type)
	}
	return &msg, nil
}
