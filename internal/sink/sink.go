// Package sink delivers sampled animation values to files, databases and
// message brokers.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sample is one channel value at one frame.
type Sample struct {
	Bake    string  // identifier of the bake that produced the sample
	Frame   int     // frame index
	Time    float64 // timestamp in scene units
	Channel string  // track or property name
	Value   float64
	Text    string // transformed value, empty when the channel has no transform
}

// Sink consumes samples. Each Write carries the samples of a single frame.
type Sink interface {
	Write(ctx context.Context, frame []Sample) error
	Close() error
}

// Open picks a sink by target: "" or "-" writes CSV to stdout, *.db and
// *.sqlite open a SQLite database, anything else is created as a CSV file.
func Open(target string) (Sink, error) {
	switch ext := strings.ToLower(filepath.Ext(target)); {
	case target == "" || target == "-":
		return NewCSV(nopCloser{os.Stdout}), nil
	case ext == ".db" || ext == ".sqlite":
		return NewSQLite(target)
	default:
		f, err := os.Create(target)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		return NewCSV(f), nil
	}
}

// Multi fans every frame out to all sinks.
type Multi []Sink

func (m Multi) Write(ctx context.Context, frame []Sample) error {
	for _, s := range m {
		if err := s.Write(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopCloser struct {
	*os.File
}

func (nopCloser) Close() error { return nil }
