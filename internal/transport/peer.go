package transport

import (
	"fmt"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"

	"github.com/1ureka/roswebrtc/internal/media"
)

var videoFeedback = []webrtc.RTCPFeedback{
	{Type: "goog-remb"},
	{Type: "ccm", Parameter: "fir"},
	{Type: "nack"},
	{Type: "nack", Parameter: "pli"},
}

// videoCodecs and audioCodecs are the payloads accepted from the remote
// peer. A kind with no registered codec is rejected in the answer.
var videoCodecs = []webrtc.RTPCodecParameters{
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000, RTCPFeedback: videoFeedback},
		PayloadType:        96,
	},
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP9, ClockRate: 90000,
			SDPFmtpLine: "profile-id=0", RTCPFeedback: videoFeedback},
		PayloadType: 98,
	},
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, ClockRate: 90000,
			SDPFmtpLine:  "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42001f",
			RTCPFeedback: videoFeedback},
		PayloadType: 102,
	},
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, ClockRate: 90000,
			SDPFmtpLine:  "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42e01f",
			RTCPFeedback: videoFeedback},
		PayloadType: 125,
	},
}

var audioCodecs = []webrtc.RTPCodecParameters{
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2,
			SDPFmtpLine: "minptime=10;useinbandfec=1"},
		PayloadType: 111,
	},
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypePCMU, ClockRate: 8000},
		PayloadType:        0,
	},
	{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypePCMA, ClockRate: 8000},
		PayloadType:        8,
	},
}

// newMediaEngine registers codecs only for the kinds enabled in caps.
func newMediaEngine(caps media.Capabilities) (*webrtc.MediaEngine, error) {
	m := &webrtc.MediaEngine{}

	register := func(codecs []webrtc.RTPCodecParameters, kind webrtc.RTPCodecType) error {
		for _, c := range codecs {
			if err := m.RegisterCodec(c, kind); err != nil {
				return fmt.Errorf("failed to register %s: %w", c.MimeType, err)
			}
		}
		return nil
	}

	if caps.ReceiveVideo {
		if err := register(videoCodecs, webrtc.RTPCodecTypeVideo); err != nil {
			return nil, err
		}
	}
	if caps.ReceiveAudio {
		if err := register(audioCodecs, webrtc.RTPCodecTypeAudio); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// newAPI builds a pion API that accepts the enabled media kinds, installs the
// default interceptors and routes pion's internal logging through the
// application logger.
func newAPI(caps media.Capabilities) (*webrtc.API, error) {
	m, err := newMediaEngine(caps)
	if err != nil {
		return nil, err
	}

	i := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, i); err != nil {
		return nil, fmt.Errorf("failed to register interceptors: %w", err)
	}

	s := webrtc.SettingEngine{LoggerFactory: loggerFactory{}}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(i),
		webrtc.WithSettingEngine(s),
	), nil
}

// newPeerConnection creates a PeerConnection configured with the given STUN
// servers. No TURN: the remote peer is expected to be reachable directly.
func newPeerConnection(api *webrtc.API, stunServers []string) (*webrtc.PeerConnection, error) {
	config := webrtc.Configuration{}
	if len(stunServers) > 0 {
		config.ICEServers = []webrtc.ICEServer{{URLs: stunServers}}
	}
	return api.NewPeerConnection(config)
}

// addReceivers declares the receive capabilities as recvonly transceivers.
// Together with newMediaEngine this makes an answer accept exactly the
// enabled media kinds.
func addReceivers(pc *webrtc.PeerConnection, caps media.Capabilities) error {
	recvonly := webrtc.RTPTransceiverInit{Direction: webrtc.RTPTransceiverDirectionRecvonly}

	if caps.ReceiveVideo {
		if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, recvonly); err != nil {
			return fmt.Errorf("failed to add video receiver: %w", err)
		}
	}
	if caps.ReceiveAudio {
		if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, recvonly); err != nil {
			return fmt.Errorf("failed to add audio receiver: %w", err)
		}
	}
	return nil
}
