// Package app is the command-line shell around the adapter: it requests one
// stream when the signaling connection opens and reports its lifecycle until
// the stream goes away or the user interrupts.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/1ureka/roswebrtc/internal/adapter"
	"github.com/1ureka/roswebrtc/internal/config"
	"github.com/1ureka/roswebrtc/internal/media"
	"github.com/1ureka/roswebrtc/internal/transport"
	"github.com/1ureka/roswebrtc/internal/util"
)

// Run connects to cfg.SignalingURL with a pion media session and blocks
// until the requested stream ends or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	// The media session outlives ctx so the teardown below can still send
	// remove_stream before it goes away.
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	factory := transport.NewFactory(sessionCtx, transport.Options{
		STUNServers:  cfg.STUNServers,
		Capabilities: cfg.Capabilities,
	})
	return run(ctx, cfg, factory)
}

func run(ctx context.Context, cfg config.Config, factory media.SessionFactory) error {
	a := adapter.New(cfg.SignalingURL, factory)
	defer a.CloseAll()

	var req *adapter.StreamRequest
	a.OnConfigurationNeeded(func() {
		req = a.AddRemoteStream(Descriptor(cfg))
		util.LogInfo("requesting %s as %s", cfg.Source, req.ID)
		if err := a.SendConfigure(); err != nil {
			util.LogError("failed to request stream %s: %v", req.ID, err)
		}
	})

	dialCtx, cancelDial := context.WithTimeout(ctx, cfg.DialTimeout)
	err := a.Connect(dialCtx)
	cancelDial()
	if err != nil {
		return err
	}

	util.StartStatsReporter(ctx)

	waitCtx, cancelWait := context.WithTimeout(ctx, cfg.StreamWait)
	sub, err := req.Wait(waitCtx)
	cancelWait()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("stream %s not received: %w", req.ID, err)
	}
	util.LogSuccess("streaming %s (%d track(s))", sub.Stream.ID, len(sub.Stream.Tracks()))

	tracks := newTrackReader()
	tracks.attach(sub.Stream)

	// Later tracks of the stream (e.g. audio) join the handle over time.
	ticker := time.NewTicker(trackPollInterval)
	defer ticker.Stop()

	signalingDone := a.Done()
	for {
		select {
		case <-ctx.Done():
			a.RemoveRemoteStream(sub.Stream.ID)
			if err := a.SendConfigure(); err != nil {
				util.LogWarning("failed to release stream %s: %v", sub.Stream.ID, err)
			}
			return nil

		case <-ticker.C:
			tracks.attach(sub.Stream)

		case <-sub.Removed.Done():
			if _, err := sub.Removed.Result(); err == nil {
				util.LogWarning("stream %s was removed by the peer", sub.Stream.ID)
			}
			return nil

		case <-signalingDone:
			// Media keeps flowing without signaling.
			util.LogWarning("signaling connection lost; waiting for the stream to end")
			signalingDone = nil
		}
	}
}

// Descriptor builds the stream request for cfg. The audio track is only
// requested when an audio source is configured and audio is received.
func Descriptor(cfg config.Config) adapter.StreamDescriptor {
	desc := adapter.StreamDescriptor{
		Video: adapter.TrackSource{ID: cfg.VideoTrackID, Src: cfg.Source},
	}
	if cfg.AudioSource != "" && cfg.Capabilities.ReceiveAudio {
		desc.Audio = &adapter.TrackSource{ID: cfg.AudioTrackID, Src: cfg.AudioSource}
	}
	return desc
}
