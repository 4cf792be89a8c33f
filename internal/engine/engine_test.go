package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/ivlev/animatr/internal/config"
	"github.com/ivlev/animatr/internal/keyframe"
	"github.com/ivlev/animatr/internal/motion"
	"github.com/ivlev/animatr/internal/scene"
	"github.com/ivlev/animatr/internal/sink"
)

type memorySink struct {
	frames [][]sink.Sample
	fail   error
	closed bool
}

func (m *memorySink) Write(_ context.Context, frame []sink.Sample) error {
	if m.fail != nil {
		return m.fail
	}
	m.frames = append(m.frames, frame)
	return nil
}

func (m *memorySink) Close() error { m.closed = true; return nil }

func ptr(v float64) *float64 { return &v }

func testScene() *scene.Scene {
	return &scene.Scene{
		Version:    "1",
		Duration:   100,
		Properties: []scene.Property{{Name: "x", Value: 0}},
		Tracks: []scene.Track{
			{Name: "level", Keyframes: []keyframe.Keyframe{{Time: 0, Value: 0}, {Time: 100, Value: 10}}},
			{Name: "alpha", Transform: "hex", Keyframes: []keyframe.Keyframe{{Time: 0, Value: 0}, {Time: 100, Value: 255}}},
		},
		Animations: []scene.Animation{
			{Name: "slide", Duration: 50, Bindings: []scene.Binding{{Property: "x", To: ptr(10)}}},
		},
	}
}

func newProject(t *testing.T, cfg *config.Config, out sink.Sink) *Project {
	t.Helper()
	p := NewProject(cfg, out, zaptest.NewLogger(t))
	if err := p.Load(testScene(), motion.NewRegistry()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestRunOffline(t *testing.T) {
	out := &memorySink{}
	p := newProject(t, &config.Config{FPS: 100, Workers: 2}, out)

	rep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Frames != 11 || len(out.frames) != 11 {
		t.Fatalf("frames: report %d, sink %d, want 11", rep.Frames, len(out.frames))
	}
	if rep.Samples != 33 {
		t.Errorf("samples = %d, want 33", rep.Samples)
	}
	if diff := cmp.Diff([]string{"slide"}, rep.Finished); diff != "" {
		t.Errorf("finished mismatch (-want +got):\n%s", diff)
	}

	mid := out.frames[5]
	want := []sink.Sample{
		{Bake: rep.BakeID, Frame: 5, Time: 50, Channel: "level", Value: 5},
		{Bake: rep.BakeID, Frame: 5, Time: 50, Channel: "alpha", Value: 127.5, Text: "7f"},
		{Bake: rep.BakeID, Frame: 5, Time: 50, Channel: "x", Value: 10},
	}
	if diff := cmp.Diff(want, mid); diff != "" {
		t.Errorf("frame 5 mismatch (-want +got):\n%s", diff)
	}

	for f, frame := range out.frames {
		for _, s := range frame {
			if s.Bake != rep.BakeID || s.Frame != f {
				t.Fatalf("frame %d carries sample %+v", f, s)
			}
		}
	}
	if x := out.frames[2][2].Value; x != 4 {
		t.Errorf("x at t=20 is %g, want 4", x)
	}
}

func TestRunWithoutStage(t *testing.T) {
	p := NewProject(&config.Config{FPS: 10, Workers: 1}, &memorySink{}, nil)
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected an error without a loaded scene")
	}
}

func TestRunSinkError(t *testing.T) {
	boom := errors.New("disk full")
	p := newProject(t, &config.Config{FPS: 10, Workers: 1}, &memorySink{fail: boom})
	if _, err := p.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newProject(t, &config.Config{FPS: 10, Workers: 1}, &memorySink{})
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadInvalidScene(t *testing.T) {
	p := NewProject(&config.Config{FPS: 10, Workers: 1}, &memorySink{}, zaptest.NewLogger(t))
	sc := testScene()
	sc.Animations[0].Bindings[0].Property = "missing"
	if err := p.Load(sc, motion.NewRegistry()); !errors.Is(err, scene.ErrInvalid) {
		t.Errorf("err = %v, want scene.ErrInvalid", err)
	}
}

func TestRunRealtime(t *testing.T) {
	out := &memorySink{}
	cfg := &config.Config{FPS: 200, Workers: 1, Realtime: true}
	p := newProject(t, cfg, out)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rep, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Frames < 2 || rep.Frames != len(out.frames) {
		t.Fatalf("frames: report %d, sink %d", rep.Frames, len(out.frames))
	}

	last := out.frames[len(out.frames)-1]
	if last[0].Time != 100 || last[0].Value != 10 {
		t.Errorf("last level sample %+v, want value 10 at t=100", last[0])
	}
	// Ticks rarely land on the end of the run, so x only gets close to 10.
	if x := last[2].Value; x <= 0 || x > 10 {
		t.Errorf("x ended at %g, want in (0, 10]", x)
	}
	if diff := cmp.Diff([]string{"slide"}, rep.Finished); diff != "" {
		t.Errorf("finished mismatch (-want +got):\n%s", diff)
	}
}

func gridScene(horizon, endDelay float64) *scene.Scene {
	return &scene.Scene{
		Version:    "1",
		Duration:   horizon,
		Properties: []scene.Property{{Name: "x", Value: 0}},
		Tracks: []scene.Track{
			{Name: "level", Keyframes: []keyframe.Keyframe{{Time: 0, Value: 0}, {Time: 1000, Value: 10}}},
		},
		Animations: []scene.Animation{
			{Name: "slide", Duration: 1000, EndDelay: endDelay, Bindings: []scene.Binding{{Property: "x", To: ptr(10)}}},
		},
	}
}

func TestRunOfflineReachesHorizon(t *testing.T) {
	tests := []struct {
		name       string
		fps        int
		horizon    float64
		endDelay   float64
		wantFrames int
	}{
		{"60 fps", 60, 1000, 0, 61},
		{"30 fps", 30, 1000, 0, 31},
		{"horizon off the grid", 24, 1010, 10, 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &memorySink{}
			p := NewProject(&config.Config{FPS: tt.fps, Workers: 2}, out, zaptest.NewLogger(t))
			if err := p.Load(gridScene(tt.horizon, tt.endDelay), motion.NewRegistry()); err != nil {
				t.Fatalf("Load: %v", err)
			}
			rep, err := p.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if rep.Frames != tt.wantFrames {
				t.Fatalf("frames = %d, want %d", rep.Frames, tt.wantFrames)
			}

			last := out.frames[len(out.frames)-1]
			if last[0].Time != tt.horizon {
				t.Errorf("last frame at %v, want %v", last[0].Time, tt.horizon)
			}
			if last[0].Value != 10 || last[1].Value != 10 {
				t.Errorf("last frame level %v x %v, want 10 and 10", last[0].Value, last[1].Value)
			}
			if diff := cmp.Diff([]string{"slide"}, rep.Finished); diff != "" {
				t.Errorf("finished mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunTwiceNeedsReload(t *testing.T) {
	p := newProject(t, &config.Config{FPS: 10, Workers: 1}, &memorySink{})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrStagePlayed) {
		t.Fatalf("second Run err = %v, want ErrStagePlayed", err)
	}

	if err := p.Load(testScene(), motion.NewRegistry()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run after reload: %v", err)
	}
	if diff := cmp.Diff([]string{"slide"}, rep.Finished); diff != "" {
		t.Errorf("finished after reload (-want +got):\n%s", diff)
	}
}
