// Package config holds the client configuration and its well-known defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/1ureka/roswebrtc/internal/media"
)

// Well-known endpoints and sources.
const (
	DefaultSignalingURL = "ws://localhost:8508/webrtc"
	DefaultSTUNServer   = "stun:stun.l.google.com:19302"
	DefaultSource       = "ros_image:/rover/stream/image_raw"
	DefaultVideoTrackID = "video"
	DefaultAudioTrackID = "audio"
	DefaultDialTimeout  = 10 * time.Second
	DefaultStreamWait   = 30 * time.Second
)

// Environment variables read by Load.
const (
	envSignalingURL = "ROSWEBRTC_SIGNALING_URL"
	envSTUNServers  = "ROSWEBRTC_STUN_SERVERS"
	envSource       = "ROSWEBRTC_SOURCE"
	envAudioSource  = "ROSWEBRTC_AUDIO_SOURCE"
	envReceiveVideo = "ROSWEBRTC_RECEIVE_VIDEO"
	envReceiveAudio = "ROSWEBRTC_RECEIVE_AUDIO"
	envDialTimeout  = "ROSWEBRTC_DIAL_TIMEOUT"
	envStreamWait   = "ROSWEBRTC_STREAM_WAIT"
	envDebug        = "ROSWEBRTC_DEBUG"
)

// Config stores every parameter of one client run.
type Config struct {
	SignalingURL string   // WebSocket endpoint of the signaling server
	STUNServers  []string // ICE discovery servers

	Source       string // media source requested for the video track
	VideoTrackID string
	AudioSource  string // optional; empty means no audio track is requested
	AudioTrackID string

	Capabilities media.Capabilities

	DialTimeout time.Duration // bound on the signaling handshake
	StreamWait  time.Duration // how long the shell waits for a requested stream

	Debug bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SignalingURL: DefaultSignalingURL,
		STUNServers:  []string{DefaultSTUNServer},
		Source:       DefaultSource,
		VideoTrackID: DefaultVideoTrackID,
		AudioTrackID: DefaultAudioTrackID,
		Capabilities: media.DefaultCapabilities,
		DialTimeout:  DefaultDialTimeout,
		StreamWait:   DefaultStreamWait,
	}
}

// Load starts from Default, applies an optional .env file in the working
// directory and then the ROSWEBRTC_* environment variables.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()
	return FromEnv(Default(), os.LookupEnv)
}

// FromEnv applies environment overrides on top of base using lookup.
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	cfg := base
	var errs []error

	if v, ok := lookup(envSignalingURL); ok {
		cfg.SignalingURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(envSTUNServers); ok {
		cfg.STUNServers = splitList(v)
	}
	if v, ok := lookup(envSource); ok {
		cfg.Source = strings.TrimSpace(v)
	}
	if v, ok := lookup(envAudioSource); ok {
		cfg.AudioSource = strings.TrimSpace(v)
	}
	if v, ok := lookup(envReceiveVideo); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrapEnv(envReceiveVideo, err))
		if err == nil {
			cfg.Capabilities.ReceiveVideo = b
		}
	}
	if v, ok := lookup(envReceiveAudio); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrapEnv(envReceiveAudio, err))
		if err == nil {
			cfg.Capabilities.ReceiveAudio = b
		}
	}
	if v, ok := lookup(envDialTimeout); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrapEnv(envDialTimeout, err))
		if err == nil {
			cfg.DialTimeout = d
		}
	}
	if v, ok := lookup(envStreamWait); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrapEnv(envStreamWait, err))
		if err == nil {
			cfg.StreamWait = d
		}
	}
	if v, ok := lookup(envDebug); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrapEnv(envDebug, err))
		if err == nil {
			cfg.Debug = b
		}
	}

	return cfg, errors.Join(errs...)
}

// Validate checks that the configuration can be used to connect.
func (c Config) Validate() error {
	u, err := url.Parse(c.SignalingURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid signaling URL: %q", c.SignalingURL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("signaling URL must use ws or wss, got %q", u.Scheme)
	}
	if c.Source == "" {
		return errors.New("missing media source")
	}
	if !c.Capabilities.ReceiveVideo {
		return errors.New("video reception must be enabled to receive the requested stream")
	}
	if c.AudioSource != "" && !c.Capabilities.ReceiveAudio {
		return errors.New("audio source requested but audio reception is disabled")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive, got %s", c.DialTimeout)
	}
	if c.StreamWait <= 0 {
		return fmt.Errorf("stream wait must be positive, got %s", c.StreamWait)
	}
	return nil
}

// NormalizeSignalingURL validates a raw endpoint and fills in the default
// scheme and path.
func NormalizeSignalingURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid signaling URL: %s", raw)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/webrtc"
	}
	return u.String(), nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func wrapEnv(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
