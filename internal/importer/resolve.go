package importer

import "strings"

// Normalize lowercases a name and collapses all whitespace runs to one space.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Entry is a resolved reference row.
type Entry struct {
	ID       int64
	ParentID int64 // parent category for subcategories, zero otherwise
}

// Lookup maps normalized names to reference rows. Keys iterate in the order
// they were first added.
type Lookup struct {
	keys    []string
	entries map[string]Entry
}

// NewLookup creates an empty Lookup.
func NewLookup() *Lookup {
	return &Lookup{entries: make(map[string]Entry)}
}

// Add registers name. Blank names are ignored. A later row with the same
// normalized name replaces the earlier entry but keeps its position.
func (l *Lookup) Add(name string, e Entry) {
	key := Normalize(name)
	if key == "" {
		return
	}
	if _, ok := l.entries[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.entries[key] = e
}

// Len returns the number of distinct keys.
func (l *Lookup) Len() int { return len(l.keys) }

// orderedKeys returns the normalized keys in iteration order.
func (l *Lookup) orderedKeys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Resolver maps a raw cell value to a reference row.
type Resolver func(name string, l *Lookup) (Entry, bool)

// ExactMatch resolves only names whose normalized form is a key.
func ExactMatch(name string, l *Lookup) (Entry, bool) {
	key := Normalize(name)
	if key == "" {
		return Entry{}, false
	}
	e, ok := l.entries[key]
	return e, ok
}

// FirstPartialMatch tries an exact match, then returns the first key in
// iteration order that contains the input or is contained by it. Ambiguous
// inputs resolve to whichever candidate comes first.
func FirstPartialMatch(name string, l *Lookup) (Entry, bool) {
	if e, ok := ExactMatch(name, l); ok {
		return e, true
	}
	key := Normalize(name)
	if key == "" {
		return Entry{}, false
	}
	for _, k := range l.keys {
		if partial(key, k) {
			return l.entries[k], true
		}
	}
	return Entry{}, false
}

// UniquePartialMatch is FirstPartialMatch but refuses inputs whose partial
// candidates point to more than one row.
func UniquePartialMatch(name string, l *Lookup) (Entry, bool) {
	if e, ok := ExactMatch(name, l); ok {
		return e, true
	}
	key := Normalize(name)
	if key == "" {
		return Entry{}, false
	}
	var found Entry
	hits := 0
	for _, k := range l.keys {
		if !partial(key, k) {
			continue
		}
		e := l.entries[k]
		if hits > 0 && e.ID == found.ID {
			continue
		}
		found = e
		hits++
	}
	if hits != 1 {
		return Entry{}, false
	}
	return found, true
}

// ResolverByName returns the event resolver for a config value.
func ResolverByName(name string) (Resolver, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return FirstPartialMatch, true
	case "unique":
		return UniquePartialMatch, true
	case "exact":
		return ExactMatch, true
	default:
		return nil, false
	}
}

func partial(input, key string) bool {
	return strings.Contains(input, key) || strings.Contains(key, input)
}
