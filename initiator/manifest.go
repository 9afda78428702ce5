package initiator

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the external configuration that assigns tag identities. It
// declares the startup order as a list of stage names; loading it mints one
// Tag per stage, in order. Participants resolve their tag through Lookup so
// participant code and manifest agree on identity without sharing globals.
//
// Format:
//
//	stages:
//	  - input
//	  - world
//	  - ui
type Manifest struct {
	stages []string
	order  []*Tag
	byName map[string]*Tag
}

type manifestDoc struct {
	Stages []string `yaml:"stages"`
}

// LoadManifest parses a manifest from r.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var doc manifestDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("initiator: decode manifest: %w", err)
	}
	return newManifest(doc.Stages)
}

// LoadManifestFile parses a manifest from the file at path.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("initiator: open manifest: %w", err)
	}
	defer f.Close()

	return LoadManifest(f)
}

// NewManifest builds a manifest directly from stage names, bypassing YAML.
// Useful for tests and hosts with their own config layer.
func NewManifest(stages ...string) (*Manifest, error) {
	return newManifest(stages)
}

func newManifest(stages []string) (*Manifest, error) {
	m := &Manifest{byName: make(map[string]*Tag, len(stages))}
	for i, name := range stages {
		if name == "" {
			return nil, fmt.Errorf("initiator: manifest stage %d has an empty name", i)
		}
		if _, ok := m.byName[name]; ok {
			return nil, fmt.Errorf("initiator: manifest stage %q declared twice", name)
		}
		tag := NewTag(name)
		m.stages = append(m.stages, name)
		m.order = append(m.order, tag)
		m.byName[name] = tag
	}
	return m, nil
}

// Stages returns the declared stage names in order.
func (m *Manifest) Stages() []string {
	return append([]string(nil), m.stages...)
}

// Tags returns the minted tags in declared order, ready to hand to
// NewManager.
func (m *Manifest) Tags() []*Tag {
	return append([]*Tag(nil), m.order...)
}

// Lookup resolves a stage name to its tag.
func (m *Manifest) Lookup(name string) (*Tag, bool) {
	tag, ok := m.byName[name]
	return tag, ok
}
