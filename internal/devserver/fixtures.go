// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FixtureFile is an attachment listed by a fixture. URL defaults to the
// server's own /files/<name>.
type FixtureFile struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	URL  string `yaml:"url,omitempty"`
}

// Fixture is one canned reply.
type Fixture struct {
	// Match is a case-insensitive substring of the last user message.
	Match   string        `yaml:"match"`
	Content string        `yaml:"content"`
	Files   []FixtureFile `yaml:"files,omitempty"`
	// Status, when set to a non-2xx code, makes the reply fail.
	Status int `yaml:"status,omitempty"`
}

// Fixtures is the fixture file.
type Fixtures struct {
	Replies []Fixture `yaml:"replies"`
}

// LoadFixtures reads path. A missing file yields no fixtures.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Fixtures{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read fixtures %s", path)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixture YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse fixtures")
	}
	return &f, nil
}

// Find returns the first fixture matching text.
func (f *Fixtures) Find(text string) (Fixture, bool) {
	if f == nil {
		return Fixture{}, false
	}
	lower := strings.ToLower(text)
	for _, r := range f.Replies {
		if r.Match != "" && strings.Contains(lower, strings.ToLower(r.Match)) {
			return r, true
		}
	}
	return Fixture{}, false
}
