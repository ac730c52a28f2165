// Command roswebrtc receives a ROS camera stream over WebRTC.
//
// This tool connects to a ROS WebRTC signaling server, asks it to publish a
// camera stream and receives the stream over a receive-only WebRTC session.
//
// Defaults come from the built-in configuration, an optional .env file and
// ROSWEBRTC_* environment variables; flags (-url, -source, -audio, -stun)
// override them. With -interactive the endpoint and source are prompted for.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"

	"github.com/1ureka/roswebrtc/internal/app"
	"github.com/1ureka/roswebrtc/internal/config"
	"github.com/1ureka/roswebrtc/internal/util"
)

var version = "dev"

func main() {
	// Root context, cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		util.LogWarning("ignoring invalid environment settings: %v", err)
	}

	// CLI flags.
	urlFlag := flag.String("url", "", "Signaling WebSocket URL (default "+config.DefaultSignalingURL+")")
	sourceFlag := flag.String("source", "", "Video source to request (default "+config.DefaultSource+")")
	audioFlag := flag.String("audio", "", "Audio source to request (none by default)")
	stunFlag := flag.String("stun", "", "Comma-separated STUN server URLs")
	interactive := flag.Bool("interactive", false, "Prompt for the signaling URL and source")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode || cfg.Debug {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("roswebrtc — v%s", version))
	pterm.Println()

	if *urlFlag != "" {
		cfg.SignalingURL = *urlFlag
	}
	if *sourceFlag != "" {
		cfg.Source = *sourceFlag
	}
	if *audioFlag != "" {
		cfg.AudioSource = *audioFlag
	}
	if *stunFlag != "" {
		cfg.STUNServers = strings.Split(*stunFlag, ",")
	}

	if *interactive {
		cfg = askConfig(cfg)
	}

	if cfg.SignalingURL, err = config.NormalizeSignalingURL(cfg.SignalingURL); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx, cfg); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	util.LogInfo("successfully closed media session")
}

// ---------------------------------------------------------------------------
// Interactive prompts
// ---------------------------------------------------------------------------

// askConfig prompts for the values most often changed between runs. Empty
// input keeps the current value.
func askConfig(cfg config.Config) config.Config {
	cfg.SignalingURL = askURL(cfg.SignalingURL)
	cfg.Source = askText(fmt.Sprintf("Video source [%s]", cfg.Source), cfg.Source)

	withAudio, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Request an audio track?").
		WithDefaultValue(cfg.AudioSource != "").
		Show()
	pterm.Println()

	if withAudio {
		cfg.AudioSource = askText(fmt.Sprintf("Audio source [%s]", cfg.AudioSource), cfg.AudioSource)
	} else {
		cfg.AudioSource = ""
	}
	return cfg
}

func askText(prompt, current string) string {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText(prompt).
		Show()
	pterm.Println()

	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return current
}

// askURL prompts for a signaling URL until a valid one is entered.
func askURL(current string) string {
	for {
		raw := askText(fmt.Sprintf("Signaling URL [%s]", current), current)

		wsURL, err := config.NormalizeSignalingURL(raw)
		if err == nil {
			return wsURL
		}

		util.LogWarning("invalid input: please enter a valid host or URL")
		pterm.Println()
	}
}
