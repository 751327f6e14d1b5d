package permissions

import (
	"strings"

	"github.com/cleared-dev/backoffice/internal/model"
)

// Flag names one capability bit on a module.
type Flag string

const (
	FlagView    Flag = "canView"
	FlagCreate  Flag = "canCreate"
	FlagEdit    Flag = "canEdit"
	FlagDelete  Flag = "canDelete"
	FlagApprove Flag = "canApprove"
	FlagExport  Flag = "canExport"
)

var flagsByName = map[string]Flag{
	"canview":    FlagView,
	"cancreate":  FlagCreate,
	"canedit":    FlagEdit,
	"candelete":  FlagDelete,
	"canapprove": FlagApprove,
	"canexport":  FlagExport,
}

// ParseFlag accepts "canCreate", "can_create" or "create" style names.
func ParseFlag(name string) (Flag, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	if !strings.HasPrefix(key, "can") {
		key = "can" + key
	}
	f, ok := flagsByName[key]
	return f, ok
}

// Set is an immutable, insertion-ordered set of module permissions for one user.
// Every mutating method returns a new Set and leaves the receiver untouched.
type Set struct {
	perms []model.ModulePermission
}

// NewSet seeds a Set from an initial collection. Duplicate module IDs keep the
// first occurrence and every record is granted view access.
func NewSet(initial []model.ModulePermission) Set {
	perms := make([]model.ModulePermission, 0, len(initial))
	seen := make(map[string]bool, len(initial))
	for _, p := range initial {
		if p.ModuleID == "" || seen[p.ModuleID] {
			continue
		}
		seen[p.ModuleID] = true
		p.CanView = true
		perms = append(perms, p)
	}
	return Set{perms: perms}
}

// SetModule enables or disables a module. Enabling an absent module adds a
// view-only record; enabling a present one changes nothing. Disabling drops
// the record along with all of its flags.
func (s Set) SetModule(moduleID string, enabled bool) Set {
	idx := s.index(moduleID)
	next := s.clone()
	switch {
	case enabled && idx < 0 && moduleID != "":
		next.perms = append(next.perms, model.ModulePermission{ModuleID: moduleID, CanView: true})
	case !enabled && idx >= 0:
		next.perms = append(next.perms[:idx], next.perms[idx+1:]...)
	}
	return next
}

// SetFlag updates one capability on a present module. Absent modules, unknown
// flags and FlagView are ignored.
func (s Set) SetFlag(moduleID string, flag Flag, value bool) Set {
	next := s.clone()
	idx := s.index(moduleID)
	if idx < 0 {
		return next
	}
	p := next.perms[idx]
	switch flag {
	case FlagCreate:
		p.CanCreate = value
	case FlagEdit:
		p.CanEdit = value
	case FlagDelete:
		p.CanDelete = value
	case FlagApprove:
		p.CanApprove = value
	case FlagExport:
		p.CanExport = value
	default:
		return next
	}
	next.perms[idx] = p
	return next
}

// IsEnabled reports whether the module is present in the set.
func (s Set) IsEnabled(moduleID string) bool {
	return s.index(moduleID) >= 0
}

// Get returns the record for a module.
func (s Set) Get(moduleID string) (model.ModulePermission, bool) {
	idx := s.index(moduleID)
	if idx < 0 {
		return model.ModulePermission{}, false
	}
	return s.perms[idx], true
}

// List returns a copy of the records in insertion order.
func (s Set) List() []model.ModulePermission {
	out := make([]model.ModulePermission, len(s.perms))
	copy(out, s.perms)
	return out
}

// Len returns the number of enabled modules.
func (s Set) Len() int { return len(s.perms) }

func (s Set) index(moduleID string) int {
	for i, p := range s.perms {
		if p.ModuleID == moduleID {
			return i
		}
	}
	return -1
}

func (s Set) clone() Set {
	return Set{perms: s.List()}
}
