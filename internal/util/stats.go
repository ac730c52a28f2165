// Package util provides shared logging and statistics helpers.
package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide stream/media counter.
var Stats = &stats{}

type stats struct {
	StreamsRequested atomic.Int64 // cumulative AddRemoteStream calls
	StreamsResolved  atomic.Int64 // cumulative stream requests answered by a track
	TracksRemoved    atomic.Int64 // cumulative removal notifications delivered
	PacketsRecv      atomic.Int64 // cumulative RTP packets read from remote tracks
	BytesRecv        atomic.Int64 // cumulative RTP bytes read from remote tracks
}

func (s *stats) AddRequested()   { s.StreamsRequested.Add(1) }
func (s *stats) AddResolved()    { s.StreamsResolved.Add(1) }
func (s *stats) AddRemoved()     { s.TracksRemoved.Add(1) }
func (s *stats) AddPacket(n int) { s.PacketsRecv.Add(1); s.BytesRecv.Add(int64(n)) }
func (s *stats) Pending() int64  { return s.StreamsRequested.Load() - s.StreamsResolved.Load() }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs media statistics
// every 10 seconds. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevBytes, prevPackets int64
		for {
			select {
			case <-ticker.C:
				bytes := Stats.BytesRecv.Load()
				packets := Stats.PacketsRecv.Load()

				rate := float64(bytes-prevBytes) / 10.0
				pps := float64(packets-prevPackets) / 10.0

				if rate > 10 || Stats.Pending() > 0 {
					pterm.DefaultLogger.Info(formatStats(rate, pps, Stats.StreamsResolved.Load(), Stats.Pending()))
				}

				prevBytes = bytes
				prevPackets = packets

			case <-ctx.Done():
				return
			}
		}
	}()
}

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes renders b in exactly 8 characters ("99.0   B", " 1.5 KiB").
// Values are scaled while they exceed two integer digits.
func formatBytes(b float64) string {
	unit := byteUnits[0]
	for _, next := range byteUnits[1:] {
		if b <= 99 {
			break
		}
		b /= 1024
		unit = next
	}
	return fmt.Sprintf("%4.1f %3s", b, unit)
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(rate, pps float64, streams, pending int64) string {
	return fmt.Sprintf("In: %s/s (%5.0f pkt/s) | Streams: %2d resolved %2d pending",
		formatBytes(rate),
		pps,
		streams,
		pending,
	)
}
