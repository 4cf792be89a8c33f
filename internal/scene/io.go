package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Read reads a scene from a YAML file.
func Read(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write writes a scene to a YAML file.
func Write(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindLatest returns the most recently modified scene file in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenes directory: %w", err)
	}

	var (
		latest string
		newest time.Time
	)
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// The file may vanish between ReadDir and Info, links may dangle.
		info, err := entry.Info()
		if err == nil && entry.Type()&os.ModeSymlink != 0 {
			info, err = os.Stat(path)
		}
		if err != nil || info.IsDir() {
			continue
		}
		if latest == "" || info.ModTime().After(newest) {
			latest, newest = path, info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}
	return latest, nil
}
