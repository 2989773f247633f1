package core

import "github.com/valter-silva-au/pocket-todo/pkg/models"

// DefaultMinTitleLength is the shortest title the rich list accepts.
const DefaultMinTitleLength = 3

// Capabilities configures which optional fields and confirmation steps a
// task store enables. The simple and rich lists are the same store with
// different capabilities.
type Capabilities struct {
	Variant models.Variant

	// RichFields enables subject, deadline and priority.
	RichFields bool
	// RequireSubject rejects creation without a subject.
	RequireSubject bool
	// MinTitleLength is the minimum trimmed title length in runes. Zero
	// only requires a non-empty title.
	MinTitleLength int

	ConfirmDelete   bool
	ConfirmEdit     bool
	ConfirmComplete bool
	// ConfirmReopen gates marking a completed task as not completed.
	ConfirmReopen bool

	// Filtering enables the completion filter view.
	Filtering bool
}

// SimpleCapabilities returns the capabilities of the simple list: title and
// completion only, every mutation immediate.
func SimpleCapabilities() Capabilities {
	return Capabilities{Variant: models.VariantSimple}
}

// RichCapabilities returns the capabilities of the rich list.
func RichCapabilities() Capabilities {
	return Capabilities{
		Variant:         models.VariantRich,
		RichFields:      true,
		RequireSubject:  true,
		MinTitleLength:  DefaultMinTitleLength,
		ConfirmDelete:   true,
		ConfirmEdit:     true,
		ConfirmComplete: true,
		ConfirmReopen:   true,
		Filtering:       true,
	}
}

// CapabilitiesFor returns the capabilities of the given variant.
func CapabilitiesFor(v models.Variant) Capabilities {
	if v == models.VariantSimple {
		return SimpleCapabilities()
	}
	return RichCapabilities()
}

// NeedsConfirmation reports whether an action of the given kind must go
// through the confirmation step. completed is the task's current state and
// only matters for ActionToggle.
func (c Capabilities) NeedsConfirmation(kind ActionKind, completed bool) bool {
	switch kind {
	case ActionDelete:
		return c.ConfirmDelete
	case ActionEdit:
		return c.ConfirmEdit
	case ActionToggle:
		if completed {
			return c.ConfirmReopen
		}
		return c.ConfirmComplete
	}
	return false
}
