package permissions

import "github.com/cleared-dev/backoffice/internal/model"

// Editor is a single editing session over one user's permission set. After
// every mutation, including no-ops, the full resulting set is passed to
// OnChange when one is configured.
type Editor struct {
	current  Set
	onChange func([]model.ModulePermission)
}

// NewEditor starts a session seeded with initial. onChange may be nil.
func NewEditor(initial []model.ModulePermission, onChange func([]model.ModulePermission)) *Editor {
	return &Editor{current: NewSet(initial), onChange: onChange}
}

// Reset replaces the session state with a new initial collection.
func (e *Editor) Reset(initial []model.ModulePermission) {
	e.current = NewSet(initial)
}

// SetModule enables or disables a module and returns the new state.
func (e *Editor) SetModule(moduleID string, enabled bool) Set {
	return e.apply(e.current.SetModule(moduleID, enabled))
}

// SetFlag toggles one capability and returns the new state.
func (e *Editor) SetFlag(moduleID string, flag Flag, value bool) Set {
	return e.apply(e.current.SetFlag(moduleID, flag, value))
}

// State returns the current set.
func (e *Editor) State() Set { return e.current }

func (e *Editor) apply(next Set) Set {
	e.current = next
	if e.onChange != nil {
		e.onChange(next.List())
	}
	return next
}
