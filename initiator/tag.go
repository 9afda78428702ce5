package initiator

import (
	"fmt"

	"github.com/google/uuid"
)

// Tag is an opaque identity token routing a participant to its slot in the
// declared startup order. Two tags are the same slot only if they are the
// same *Tag value; the name and id exist purely for logs and manifest
// lookup, never for comparison.
type Tag struct {
	id   string
	name string
}

// NewTag mints a tag with a fresh id.
func NewTag(name string) *Tag {
	return &Tag{id: uuid.NewString(), name: name}
}

// Name returns the human-readable tag name.
func (t *Tag) Name() string { return t.name }

// ID returns the tag's unique id.
func (t *Tag) ID() string { return t.id }

// String implements fmt.Stringer.
func (t *Tag) String() string {
	if t == nil {
		return "<nil tag>"
	}
	return fmt.Sprintf("%s(%s)", t.name, t.id[:8])
}
