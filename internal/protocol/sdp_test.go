package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1ureka/roswebrtc/internal/protocol"
)

const twoSectionOffer = "v=0\r\n" +
	"o=- 4215775240449105457 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:0\r\n" +
	"a=sendonly\r\n" +
	"a=rtpmap:96 VP8/90000\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:1\r\n" +
	"a=rtpmap:111 opus/48000/2\r\n"

func TestMediaSections(t *testing.T) {
	sections, err := protocol.MediaSections(twoSectionOffer)
	require.NoError(t, err)
	require.Equal(t, []protocol.MediaSection{
		{Kind: "video", Direction: "sendonly"},
		{Kind: "audio", Direction: "sendrecv"},
	}, sections)
	require.Equal(t, "video(sendonly)", sections[0].String())
}

func TestMediaSectionsRejectsGarbage(t *testing.T) {
	_, err := protocol.MediaSections("not an sdp")
	require.Error(t, err)
}

func TestMediaSectionsMarksRejected(t *testing.T) {
	answer := "v=0\r\n" +
		"o=- 1 2 IN IP4 127.0.0.1\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
		"c=IN IP4 0.0.0.0\r\n" +
		"a=recvonly\r\n" +
		"m=audio 0 UDP/TLS/RTP/SAVPF 0\r\n" +
		"c=IN IP4 0.0.0.0\r\n"

	sections, err := protocol.MediaSections(answer)
	require.NoError(t, err)
	require.False(t, sections[0].Rejected)
	require.True(t, sections[1].Rejected)
	require.Equal(t, "audio(rejected)", sections[1].String())
}
