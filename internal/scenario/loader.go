package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// LoadDir reads scenario profiles from *.json files. A profile without an id
// takes the file name. A missing directory yields no profiles; unreadable
// files are logged and skipped.
func LoadDir(dir string) ([]domain.ScenarioProfile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var profiles []domain.ScenarioProfile
	for _, name := range names {
		file := filepath.Join(dir, name)
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to read scenario")
			continue
		}

		var p domain.ScenarioProfile
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to decode scenario")
			continue
		}
		if p.ID == "" {
			p.ID = strings.TrimSuffix(name, ".json")
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Load returns the profiles in dir, or the built-in profiles when dir is empty
// or holds none.
func Load(dir string) ([]domain.ScenarioProfile, error) {
	if dir == "" {
		return DefaultProfiles(), nil
	}

	profiles, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		log.Info().Str("dir", dir).Msg("no scenario files found, using built-in scenarios")
		return DefaultProfiles(), nil
	}

	return profiles, nil
}

// Marshal renders a scenario the way WriteDir stores it.
func Marshal(s Scenario) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FileName is the file a scenario is written to.
func FileName(s Scenario) string {
	return strings.ToLower(s.ID) + ".json"
}

// WriteDir writes each scenario with its computed dashboard to
// <dir>/<id>.json, creating dir if needed.
func WriteDir(dir string, scenarios []Scenario) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}

	written := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		data, err := Marshal(s)
		if err != nil {
			return written, fmt.Errorf("encode scenario %s: %w", s.ID, err)
		}

		file := filepath.Join(dir, FileName(s))
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return written, fmt.Errorf("write scenario %s: %w", s.ID, err)
		}
		written = append(written, file)
	}

	return written, nil
}
