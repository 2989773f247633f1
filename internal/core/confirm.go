package core

import "fmt"

// ActionKind names a mutation that may be gated by a confirmation step.
type ActionKind string

const (
	ActionDelete ActionKind = "delete"
	ActionEdit   ActionKind = "edit"
	ActionToggle ActionKind = "toggle"
)

// PendingAction is a requested mutation waiting for the user's answer.
// Draft is only used by ActionEdit.
type PendingAction struct {
	Kind   ActionKind
	TaskID string
	Draft  Draft
	// Completing is true when a toggle would mark the task completed and
	// false when it would reopen it.
	Completing bool
}

// Prompt returns the question a presenter shows for the pending action.
func (p PendingAction) Prompt() string {
	switch p.Kind {
	case ActionDelete:
		return "Are you sure you want to delete this task?"
	case ActionEdit:
		return "Are you sure you want to save the changes?"
	case ActionToggle:
		if p.Completing {
			return "Are you sure you want to complete this task?"
		}
		return "Mark this task as not completed?"
	}
	return fmt.Sprintf("Confirm %s?", p.Kind)
}

// Outcome reports what a confirmation transition did.
type Outcome int

const (
	// OutcomeNone means nothing happened, e.g. the task does not exist.
	OutcomeNone Outcome = iota
	// OutcomePending means the action now waits for Confirm or Cancel.
	OutcomePending
	// OutcomeCommitted means the mutation was applied to the store.
	OutcomeCommitted
	// OutcomeCancelled means a pending action was discarded.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "none"
}

// Confirmer is the Idle -> Pending -> Committed|Cancelled state machine in
// front of a task store. At most one action is pending; a new request
// replaces it. Actions whose kind needs no confirmation under the store's
// capabilities commit straight away.
type Confirmer struct {
	store   TaskStore
	pending *PendingAction
}

// NewConfirmer creates a Confirmer for store.
func NewConfirmer(store TaskStore) *Confirmer {
	return &Confirmer{store: store}
}

// Pending returns the action waiting for an answer, if any.
func (c *Confirmer) Pending() (PendingAction, bool) {
	if c.pending == nil {
		return PendingAction{}, false
	}
	return *c.pending, true
}

// Request asks for a mutation. Unknown task IDs are ignored. Edit drafts
// are validated before anything is queued so the user sees the notice
// instead of a confirmation prompt.
func (c *Confirmer) Request(action PendingAction) (Outcome, error) {
	task, ok := c.store.Get(action.TaskID)
	if !ok {
		return OutcomeNone, nil
	}
	if action.Kind == ActionEdit {
		if err := c.store.Validate(action.Draft); err != nil {
			return OutcomeNone, err
		}
	}
	if action.Kind == ActionToggle {
		action.Completing = !task.Completed
	}

	if !c.store.Capabilities().NeedsConfirmation(action.Kind, task.Completed) {
		c.pending = nil
		return c.commit(action)
	}
	c.pending = &action
	return OutcomePending, nil
}

// Confirm applies the pending action.
func (c *Confirmer) Confirm() (Outcome, error) {
	if c.pending == nil {
		return OutcomeNone, nil
	}
	action := *c.pending
	c.pending = nil
	return c.commit(action)
}

// Cancel discards the pending action without touching the store.
func (c *Confirmer) Cancel() Outcome {
	if c.pending == nil {
		return OutcomeNone
	}
	c.pending = nil
	return OutcomeCancelled
}

func (c *Confirmer) commit(action PendingAction) (Outcome, error) {
	switch action.Kind {
	case ActionDelete:
		if !c.store.Delete(action.TaskID) {
			return OutcomeNone, nil
		}
	case ActionToggle:
		if _, ok := c.store.Toggle(action.TaskID); !ok {
			return OutcomeNone, nil
		}
	case ActionEdit:
		_, ok, err := c.store.Update(action.TaskID, action.Draft)
		if err != nil {
			return OutcomeNone, err
		}
		if !ok {
			return OutcomeNone, nil
		}
	default:
		return OutcomeNone, fmt.Errorf("unknown action %q", action.Kind)
	}
	return OutcomeCommitted, nil
}
