package config

import (
	"fmt"
	"time"
)

// Config holds the command line settings of a run.
type Config struct {
	ScenePath    string
	Output       string
	FPS          int
	Workers      int
	Realtime     bool
	MQTTBroker   string
	MQTTTopic    string
	MQTTUser     string
	MQTTPass     string
	PlotLaw      string
	PlotOut      string
	PlotWidth    int
	PlotHeight   int
	ListLaws     bool
	FFmpeg       bool
	ShowStats    bool
	Verbose      bool
	BuildVersion string
}

// Interval is the time between two frames.
func (c Config) Interval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// FrameMillis is the frame interval in scene time units.
func (c Config) FrameMillis() float64 {
	return 1000 / float64(c.FPS)
}

// Validate reports settings that cannot drive a run.
func (c Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("fps must be in 1..1000, got %d", c.FPS)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.PlotLaw != "" && (c.PlotWidth < 64 || c.PlotHeight < 64) {
		return fmt.Errorf("plot size %dx%d is below 64x64", c.PlotWidth, c.PlotHeight)
	}
	return nil
}
