package speech

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type fakeEngine struct {
	spoken  []string
	voice   string
	rate    int
	err     error
	onSpeak func(n int)
	stops   int
}

func (f *fakeEngine) Voices(context.Context) ([]Voice, error) { return nil, nil }

func (f *fakeEngine) Speak(_ context.Context, text, voiceID string, rate int) error {
	f.spoken = append(f.spoken, text)
	f.voice, f.rate = voiceID, rate
	if f.onSpeak != nil {
		f.onSpeak(len(f.spoken))
	}
	return f.err
}

func (f *fakeEngine) Stop() error { f.stops++; return nil }

type fakeMonitor struct {
	stopped bool
	reports []float64
}

func (m *fakeMonitor) Stopped() bool      { return m.stopped }
func (m *fakeMonitor) Report(pct float64) { m.reports = append(m.reports, pct) }

func TestPlaybackWholeText(t *testing.T) {
	eng := &fakeEngine{}
	p := Playback{Engine: eng, VoiceID: "v1", Rate: 180}
	if err := p.Run(context.Background(), "One. Two.", &fakeMonitor{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eng.spoken) != 1 || eng.spoken[0] != "One. Two." {
		t.Fatalf("spoken = %q", eng.spoken)
	}
	if eng.voice != "v1" || eng.rate != 180 {
		t.Fatalf("voice/rate = %q/%d", eng.voice, eng.rate)
	}
}

func TestPlaybackChunksReportProgress(t *testing.T) {
	eng := &fakeEngine{}
	var pauses []time.Duration
	p := Playback{
		Engine:    eng,
		Chunking:  true,
		ChunkSize: 4,
		Pause:     time.Second,
		sleep:     func(_ context.Context, d time.Duration) { pauses = append(pauses, d) },
	}
	m := &fakeMonitor{}
	if err := p.Run(context.Background(), "Aa. Bb. Cc.", m); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := []string{"Aa.", " Bb.", " Cc."}; len(eng.spoken) != 3 || eng.spoken[0] != want[0] || eng.spoken[2] != want[2] {
		t.Fatalf("spoken = %q", eng.spoken)
	}
	if len(pauses) != 2 {
		t.Fatalf("expected a pause between chunks only, got %d", len(pauses))
	}
	if len(m.reports) != 3 {
		t.Fatalf("reports = %v", m.reports)
	}
	prev := -1.0
	for _, r := range m.reports {
		if r < 0 || r > 100 || r < prev {
			t.Fatalf("progress not monotone in [0,100]: %v", m.reports)
		}
		prev = r
	}
	if m.reports[0] != 0 || math.Abs(m.reports[1]-100.0/3) > 1e-9 {
		t.Fatalf("reports = %v", m.reports)
	}
}

func TestPlaybackStopsBetweenChunks(t *testing.T) {
	m := &fakeMonitor{}
	eng := &fakeEngine{onSpeak: func(n int) {
		if n == 1 {
			m.stopped = true
		}
	}}
	p := Playback{Engine: eng, Chunking: true, ChunkSize: 4, sleep: func(context.Context, time.Duration) {}}
	if err := p.Run(context.Background(), "Aa. Bb. Cc.", m); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eng.spoken) != 1 {
		t.Fatalf("only the chunk in flight should finish, spoke %q", eng.spoken)
	}
	if len(m.reports) != 1 {
		t.Fatalf("no progress after stop, got %v", m.reports)
	}
}

func TestPlaybackEngineError(t *testing.T) {
	boom := &EngineError{Engine: "fake", Err: errors.New("boom")}
	eng := &fakeEngine{err: boom}
	p := Playback{Engine: eng, Chunking: true, ChunkSize: 4, sleep: func(context.Context, time.Duration) {}}
	err := p.Run(context.Background(), "Aa. Bb. Cc.", &fakeMonitor{})
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EngineError, got %v", err)
	}
	if len(eng.spoken) != 1 {
		t.Fatalf("playback should stop at the failing chunk")
	}
}

func TestSleepCtxReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepCtx(ctx, time.Hour)
	if time.Since(start) > time.Second {
		t.Fatalf("sleep ignored cancellation")
	}
}

func TestPauseFromSeconds(t *testing.T) {
	cases := map[float64]time.Duration{
		0:          0,
		0.5:        500 * time.Millisecond,
		-1:         time.Second,
		math.NaN(): time.Second,
		1e9:        time.Second,
	}
	for in, want := range cases {
		if got := PauseFromSeconds(in); got != want {
			t.Fatalf("PauseFromSeconds(%v) = %v want %v", in, got, want)
		}
	}
}
