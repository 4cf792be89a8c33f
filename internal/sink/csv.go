package sink

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"bake", "frame", "time", "channel", "value", "text"}

// CSV writes one row per sample.
type CSV struct {
	out    io.WriteCloser
	w      *csv.Writer
	header bool
}

// NewCSV returns a CSV sink writing to w. Close closes w.
func NewCSV(w io.WriteCloser) *CSV {
	return &CSV{out: w, w: csv.NewWriter(w)}
}

func (c *CSV) Write(ctx context.Context, frame []Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.header {
		if err := c.w.Write(csvHeader); err != nil {
			return err
		}
		c.header = true
	}
	for _, s := range frame {
		row := []string{
			s.Bake,
			strconv.Itoa(s.Frame),
			strconv.FormatFloat(s.Time, 'f', -1, 64),
			s.Channel,
			strconv.FormatFloat(s.Value, 'f', -1, 64),
			s.Text,
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
