package globalconf

import (
	"strings"
	"time"
)

// Snapshot is one loaded generation of a source's parameters. Every load gets
// a new ID, so callers holding an old snapshot can tell it was reloaded.
type Snapshot struct {
	ID       string
	Source   string
	LoadedAt time.Time
	Values   map[string]any
}

// Get looks up a parameter. Dotted keys walk nested TOML tables, e.g.
// "instance.identifier".
func (s *Snapshot) Get(key string) (any, bool) {
	if v, ok := s.Values[key]; ok {
		return v, true
	}
	var current any = s.Values
	for _, part := range strings.Split(key, ".") {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = table[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
