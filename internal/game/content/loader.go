package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/status"
)

// Subdirectories of a content directory.
const (
	AbilitiesDir  = "abilities"
	CharactersDir = "characters"
	TeamsDir      = "teams"
	// StatusFile optionally overrides the default status effect registry.
	StatusFile = "status.yaml"
)

// decodeStrict unmarshals a single YAML document into out, rejecting unknown fields.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}

// LoadAbilityFromBytes parses and builds a single ability template.
//
// Postcondition: Returns a template whose Build succeeds, or an error.
func LoadAbilityFromBytes(data []byte) (*AbilityTemplate, error) {
	var t AbilityTemplate
	if err := decodeStrict(data, &t); err != nil {
		return nil, fmt.Errorf("parsing ability YAML: %w", err)
	}
	if _, err := t.Build(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadCharacterFromBytes parses and validates a single character template.
func LoadCharacterFromBytes(data []byte) (*CharacterTemplate, error) {
	var t CharacterTemplate
	if err := decodeStrict(data, &t); err != nil {
		return nil, fmt.Errorf("parsing character YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTeamFromBytes parses and validates a single team template.
func LoadTeamFromBytes(data []byte) (*TeamTemplate, error) {
	var t TeamTemplate
	if err := decodeStrict(data, &t); err != nil {
		return nil, fmt.Errorf("parsing team YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// yamlFiles returns the sorted *.yaml and *.yml paths directly inside dir.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := e.Name(); strings.HasSuffix(n, ".yaml") || strings.HasSuffix(n, ".yml") {
			paths = append(paths, filepath.Join(dir, n))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// loadAll parses every YAML file in dir with parse.
func loadAll[T any](dir string, parse func([]byte) (*T, error)) ([]*T, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		t, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Load reads a content directory laid out as abilities/, characters/ and
// teams/ plus an optional status.yaml, and returns a validated Catalog.
// A missing teams/ directory yields a catalog without preset teams.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog whose cross references all resolve, or an
// error on the first parse, validation or reference failure.
func Load(dir string) (*Catalog, error) {
	return LoadWithRegistry(dir, nil)
}

// LoadWithRegistry is Load with an explicit status registry. A nil reg reads
// dir/status.yaml when present and falls back to status.DefaultRegistry.
func LoadWithRegistry(dir string, reg *status.Registry) (*Catalog, error) {
	if reg == nil {
		reg = status.DefaultRegistry()
		statusPath := filepath.Join(dir, StatusFile)
		if _, err := os.Stat(statusPath); err == nil {
			reg, err = status.LoadFile(statusPath)
			if err != nil {
				return nil, fmt.Errorf("loading status registry: %w", err)
			}
		}
	}

	abilities, err := loadAll(filepath.Join(dir, AbilitiesDir), LoadAbilityFromBytes)
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	characters, err := loadAll(filepath.Join(dir, CharactersDir), LoadCharacterFromBytes)
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	var teams []*TeamTemplate
	teamsDir := filepath.Join(dir, TeamsDir)
	if _, err := os.Stat(teamsDir); err == nil {
		teams, err = loadAll(teamsDir, LoadTeamFromBytes)
		if err != nil {
			return nil, fmt.Errorf("loading teams: %w", err)
		}
	}
	return NewCatalog(reg, abilities, characters, teams)
}
