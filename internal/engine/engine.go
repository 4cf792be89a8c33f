// Package engine bakes a compiled scene into frames and hands them to a sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/animatr/internal/animator"
	"github.com/ivlev/animatr/internal/config"
	"github.com/ivlev/animatr/internal/motion"
	"github.com/ivlev/animatr/internal/player"
	"github.com/ivlev/animatr/internal/scene"
	"github.com/ivlev/animatr/internal/sink"
)

// Project ties a scene to its output.
type Project struct {
	Config *config.Config
	Stage  *scene.Stage
	Sink   sink.Sink
	Logger *zap.Logger

	mu       sync.Mutex
	finished []string
	played   bool // the stage's runs and properties are spent
}

// ErrStagePlayed is returned by Run when the loaded stage was already
// played. Load the scene again to replay it.
var ErrStagePlayed = errors.New("engine: stage already played")

// Report summarizes a finished bake.
type Report struct {
	BakeID   string
	Frames   int
	Samples  int
	Finished []string // animation names in finishing order
	Elapsed  time.Duration
}

func NewProject(cfg *config.Config, out sink.Sink, logger *zap.Logger) *Project {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Project{Config: cfg, Sink: out, Logger: logger}
}

// Load compiles sc and makes it the project's stage.
func (p *Project) Load(sc *scene.Scene, laws *motion.Registry) error {
	st, err := sc.Build(laws, p.onFinish)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	p.mu.Lock()
	p.Stage = st
	p.finished = nil
	p.played = false
	p.mu.Unlock()
	p.Logger.Info("scene loaded",
		zap.Int("tracks", len(st.Tracks)),
		zap.Int("properties", len(st.Properties)),
		zap.Int("animations", len(st.Runs)),
		zap.Float64("horizon", st.Horizon))
	return nil
}

func (p *Project) onFinish(name string, e animator.FinishEvent) {
	p.mu.Lock()
	p.finished = append(p.finished, name)
	p.mu.Unlock()
	p.Logger.Debug("animation finished", zap.String("animation", name), zap.Float64("t", e.CurrentTime))
}

// Run bakes the stage. In realtime mode frames follow the wall clock,
// otherwise the whole horizon is computed as fast as possible.
func (p *Project) Run(ctx context.Context) (Report, error) {
	if p.Stage == nil {
		return Report{}, fmt.Errorf("engine: no scene loaded")
	}
	p.mu.Lock()
	if p.played {
		p.mu.Unlock()
		return Report{}, ErrStagePlayed
	}
	p.played = true
	p.mu.Unlock()

	start := time.Now()
	rep := Report{BakeID: uuid.NewString()}
	log := p.Logger.With(zap.String("bake", rep.BakeID))

	var err error
	if p.Config.Realtime {
		err = p.runRealtime(ctx, &rep, log)
	} else {
		err = p.runOffline(ctx, &rep, log)
	}

	p.mu.Lock()
	rep.Finished = append([]string(nil), p.finished...)
	p.mu.Unlock()
	rep.Elapsed = time.Since(start)

	if err != nil {
		return rep, err
	}
	log.Info("bake complete",
		zap.Int("frames", rep.Frames),
		zap.Int("samples", rep.Samples),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

// runOffline evaluates every track on its own worker and the animations on
// one more, then merges the columns frame by frame. Animations share
// properties, so they are never split across workers.
func (p *Project) runOffline(ctx context.Context, rep *Report, log *zap.Logger) error {
	st := p.Stage
	dt := p.Config.FrameMillis()
	tracks := make([][]sink.Sample, len(st.Tracks))
	var props [][]sink.Sample

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)

	for i, tr := range st.Tracks {
		i, tr := i, tr
		g.Go(func() error {
			var col []sink.Sample
			player.Bake(0, st.Horizon, dt, player.StepFunc(func(float64) bool { return true }),
				func(frame int, t float64) {
					col = append(col, p.trackSample(rep.BakeID, frame, t, tr))
				})
			tracks[i] = col
			log.Debug("track baked", zap.String("track", tr.Name), zap.Int("frames", len(col)))
			return gctx.Err()
		})
	}

	g.Go(func() error {
		group := p.animations()
		player.Bake(0, st.Horizon, dt, player.StepFunc(func(t float64) bool {
			group.Step(t)
			return true
		}), func(frame int, t float64) {
			props = append(props, p.propertySamples(rep.BakeID, frame, t))
		})
		settle(group, st.Horizon)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return err
	}

	frames := len(props)
	for f := 0; f < frames; f++ {
		frame := make([]sink.Sample, 0, len(tracks)+len(props[f]))
		for _, col := range tracks {
			frame = append(frame, col[f])
		}
		frame = append(frame, props[f]...)
		if err := p.Sink.Write(ctx, frame); err != nil {
			return fmt.Errorf("write frame %d: %w", f, err)
		}
		rep.Frames++
		rep.Samples += len(frame)
	}
	return nil
}

// runRealtime samples the stage on every tick until the horizon passes.
func (p *Project) runRealtime(ctx context.Context, rep *Report, log *zap.Logger) error {
	st := p.Stage
	group := p.animations()
	var writeErr error

	stepper := player.StepFunc(func(t float64) bool {
		t = min(t, st.Horizon)
		group.Step(t)

		frame := make([]sink.Sample, 0, len(st.Tracks)+len(st.Properties))
		for _, tr := range st.Tracks {
			frame = append(frame, p.trackSample(rep.BakeID, rep.Frames, t, tr))
		}
		frame = append(frame, p.propertySamples(rep.BakeID, rep.Frames, t)...)
		if writeErr = p.Sink.Write(ctx, frame); writeErr != nil {
			return false
		}
		rep.Frames++
		rep.Samples += len(frame)
		return t < st.Horizon
	})

	log.Info("playing in realtime", zap.Duration("interval", p.Config.Interval()))
	if _, err := player.Play(ctx, p.Config.Interval(), stepper); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	settle(group, st.Horizon)
	return nil
}

func (p *Project) animations() *player.Group {
	group := player.NewGroup()
	for _, r := range p.Stage.Runs {
		group.Add(r.Run)
	}
	return group
}

// settle steps the group just past the horizon. A run ending exactly on the
// horizon only finishes once time moves beyond its end; the nudge fires its
// OnFinish without touching any property.
func settle(group *player.Group, horizon float64) {
	group.Step(math.Nextafter(horizon, math.Inf(1)))
}

func (p *Project) trackSample(bake string, frame int, t float64, tr scene.CompiledTrack) sink.Sample {
	s := sink.Sample{
		Bake:    bake,
		Frame:   frame,
		Time:    t,
		Channel: tr.Name,
		Value:   tr.Sequence.At(t),
	}
	if tr.Transform != nil {
		s.Text = tr.Transform(s.Value)
	}
	return s
}

func (p *Project) propertySamples(bake string, frame int, t float64) []sink.Sample {
	out := make([]sink.Sample, 0, len(p.Stage.Properties))
	for _, prop := range p.Stage.Properties {
		out = append(out, sink.Sample{
			Bake:    bake,
			Frame:   frame,
			Time:    t,
			Channel: prop.Name,
			Value:   prop.Value,
		})
	}
	return out
}
