package protocol

import (
	"fmt"

	"github.com/pion/sdp/v3"
)

// MediaSection summarizes one m-line of a session description.
type MediaSection struct {
	Kind      string // "video", "audio", "application"
	Direction string // "sendrecv", "sendonly", "recvonly" or "inactive"
	Rejected  bool   // port 0: the answerer declined the section
}

func (s MediaSection) String() string {
	if s.Rejected {
		return s.Kind + "(rejected)"
	}
	return s.Kind + "(" + s.Direction + ")"
}

var directions = []string{"sendrecv", "sendonly", "recvonly", "inactive"}

// MediaSections parses raw SDP and lists its media sections in order.
// A section without an explicit direction attribute is sendrecv.
func MediaSections(raw string) ([]MediaSection, error) {
	var desc sdp.SessionDescription
	if err := desc.Unmarshal([]byte(raw)); err != nil {
		return nil, fmt.Errorf("failed to parse SDP: %w", err)
	}

	sections := make([]MediaSection, 0, len(desc.MediaDescriptions))
	for _, md := range desc.MediaDescriptions {
		dir := "sendrecv"
		for _, d := range directions {
			if _, ok := md.Attribute(d); ok {
				dir = d
				break
			}
		}
		sections = append(sections, MediaSection{
			Kind:      md.MediaName.Media,
			Direction: dir,
			Rejected:  md.MediaName.Port.Value == 0,
		})
	}
	return sections, nil
}
