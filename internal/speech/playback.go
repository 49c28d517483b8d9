package speech

import (
	"context"
	"log/slog"
	"time"
)

// Monitor is the cooperative side of a running task: a stop flag checked
// between chunks and a sink for progress percentages.
type Monitor interface {
	Stopped() bool
	Report(pct float64)
}

// Playback speaks text with a fixed voice and rate, optionally in chunks.
type Playback struct {
	Engine    Engine
	VoiceID   string
	Rate      int
	Chunking  bool
	ChunkSize int
	Pause     time.Duration

	sleep func(ctx context.Context, d time.Duration)
}

// Run speaks text on the calling goroutine. With chunking enabled it
// reports (i/total)*100 before chunk i, checks m.Stopped before every
// chunk and waits Pause between chunks. A chunk that already started is
// allowed to finish.
func (p Playback) Run(ctx context.Context, text string, m Monitor) error {
	if !p.Chunking {
		return p.Engine.Speak(ctx, text, p.VoiceID, p.Rate)
	}

	chunks := Split(text, p.ChunkSize)
	total := len(chunks)
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	for i, chunk := range chunks {
		if m.Stopped() {
			slog.Debug("playback stopped", "chunk", i, "total", total)
			return nil
		}
		m.Report(float64(i) / float64(total) * 100)
		if err := p.Engine.Speak(ctx, chunk, p.VoiceID, p.Rate); err != nil {
			return err
		}
		if i < total-1 && p.Pause > 0 {
			sleep(ctx, p.Pause)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// PauseFromSeconds converts a user supplied pause, falling back to the
// default for negative or non-finite values.
func PauseFromSeconds(sec float64) time.Duration {
	if sec < 0 || sec != sec || sec > 3600 {
		sec = DefaultPause
	}
	return time.Duration(sec * float64(time.Second))
}
