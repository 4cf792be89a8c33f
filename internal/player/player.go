// Package player schedules animation steppers, either against the wall clock
// or offline over a fixed time grid.
package player

import (
	"context"
	"math"
	"time"
)

// Stepper is driven with non-decreasing timestamps until it returns false.
type Stepper interface {
	Step(t float64) bool
}

// StepFunc adapts a function to Stepper.
type StepFunc func(t float64) bool

func (f StepFunc) Step(t float64) bool { return f(t) }

// Group steps several steppers with the same timestamp. It continues while
// any member continues; finished members are not stepped again.
type Group struct {
	members []Stepper
	done    []bool
}

// NewGroup returns a group over ss.
func NewGroup(ss ...Stepper) *Group {
	return &Group{members: ss, done: make([]bool, len(ss))}
}

// Add appends s to the group.
func (g *Group) Add(s Stepper) {
	g.members = append(g.members, s)
	g.done = append(g.done, false)
}

// Step implements Stepper.
func (g *Group) Step(t float64) bool {
	cont := false
	for i, s := range g.members {
		if g.done[i] {
			continue
		}
		if s.Step(t) {
			cont = true
		} else {
			g.done[i] = true
		}
	}
	return cont
}

// Play steps s once immediately with 0 and then on every tick of interval
// with the elapsed wall-clock time in milliseconds, until s returns false or
// ctx is done. It returns the number of steps taken and ctx.Err() if the
// context ended the loop.
func Play(ctx context.Context, interval time.Duration, s Stepper) (int, error) {
	start := time.Now()
	steps := 1
	if !s.Step(0) {
		return steps, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		case now := <-ticker.C:
			steps++
			ms := float64(now.Sub(start)) / float64(time.Millisecond)
			if !s.Step(ms) {
				return steps, nil
			}
		}
	}
}

// gridEps absorbs rounding in from+k*dt, relative to dt.
const gridEps = 1e-9

// Bake steps s at from, from+dt, from+2dt, ... and finally at exactly to,
// stopping early when s returns false. A grid point within rounding error of
// to is stepped at to; when to is not on the grid one extra step at to
// follows the last grid point. visit, if not nil, is called after every step
// with the frame index and timestamp. It returns the number of steps.
func Bake(from, to, dt float64, s Stepper, visit func(frame int, t float64)) int {
	if dt <= 0 {
		dt = 1
	}
	if to < from {
		return 0
	}

	n := int(math.Floor((to-from)/dt + gridEps))
	onGrid := to-(from+float64(n)*dt) <= gridEps*dt

	frame := 0
	step := func(t float64) bool {
		cont := s.Step(t)
		if visit != nil {
			visit(frame, t)
		}
		frame++
		return cont
	}

	for k := 0; k <= n; k++ {
		// Multiply instead of accumulating to keep the grid exact.
		t := min(from+float64(k)*dt, to)
		if k == n && onGrid {
			t = to
		}
		if !step(t) {
			return frame
		}
	}
	if !onGrid {
		step(to)
	}
	return frame
}
