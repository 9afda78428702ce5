package initiator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	doc := `
stages:
  - input
  - world
  - ui
`
	m, err := LoadManifest(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"input", "world", "ui"}, m.Stages())

	tags := m.Tags()
	require.Len(t, tags, 3)
	assert.Equal(t, "input", tags[0].Name())
	assert.Equal(t, "world", tags[1].Name())
	assert.Equal(t, "ui", tags[2].Name())

	world, ok := m.Lookup("world")
	require.True(t, ok)
	assert.Same(t, tags[1], world, "lookup resolves the identical tag instance")

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadManifest_InvalidYAML(t *testing.T) {
	_, err := LoadManifest(strings.NewReader("stages: [unterminated"))
	assert.Error(t, err)
}

func TestNewManifest_DuplicateStage(t *testing.T) {
	_, err := NewManifest("input", "world", "input")
	assert.ErrorContains(t, err, "declared twice")
}

func TestNewManifest_EmptyStageName(t *testing.T) {
	_, err := NewManifest("input", "")
	assert.ErrorContains(t, err, "empty name")
}

func TestManifest_TagsAreFreshIdentities(t *testing.T) {
	m1, err := NewManifest("input")
	require.NoError(t, err)
	m2, err := NewManifest("input")
	require.NoError(t, err)

	t1, _ := m1.Lookup("input")
	t2, _ := m2.Lookup("input")
	assert.NotSame(t, t1, t2, "equal names never imply equal identity")
}
