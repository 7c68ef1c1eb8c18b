// Package viewmode tracks how each event group is displayed.
package viewmode

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"rooming-data/internal/domain"
)

// Mode is the display state of one event group.
type Mode string

const (
	Expanded  Mode = "expanded"
	OneRow    Mode = "oneRow"
	Collapsed Mode = "collapsed"
)

// ParamView is the repeated URL parameter holding "eventId:mode" pairs.
const ParamView = "view"

// Next returns the state after one toggle:
// expanded -> oneRow -> collapsed -> expanded.
func (m Mode) Next() Mode {
	switch m {
	case Expanded:
		return OneRow
	case OneRow:
		return Collapsed
	default:
		return Expanded
	}
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	return m == Expanded || m == OneRow || m == Collapsed
}

// Parse accepts a mode name, ignoring case.
func Parse(s string) (Mode, error) {
	for _, m := range []Mode{Expanded, OneRow, Collapsed} {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Modes maps event ids to their view mode. Unknown ids are expanded.
type Modes struct {
	mu    sync.RWMutex
	modes map[domain.ID]Mode
}

func New() *Modes {
	return &Modes{modes: make(map[domain.ID]Mode)}
}

// Observe records ids seen for the first time as expanded.
func (m *Modes) Observe(ids ...domain.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.modes[id]; !ok {
			m.modes[id] = Expanded
		}
	}
}

func (m *Modes) Get(id domain.ID) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mode, ok := m.modes[id]; ok {
		return mode
	}
	return Expanded
}

// Set ignores modes that are not Valid.
func (m *Modes) Set(id domain.ID, mode Mode) {
	if !mode.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[id] = mode
}

// Toggle advances id to its next mode and returns it.
func (m *Modes) Toggle(id domain.ID) Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.modes[id]
	if !ok {
		cur = Expanded
	}
	next := cur.Next()
	m.modes[id] = next
	return next
}

// SetAll puts every listed group into mode, overwriting individual states.
// Groups not listed are forgotten.
func (m *Modes) SetAll(mode Mode, ids ...domain.ID) {
	if !mode.Valid() {
		return
	}
	next := make(map[domain.ID]Mode, len(ids))
	for _, id := range ids {
		next[id] = mode
	}
	m.mu.Lock()
	m.modes = next
	m.mu.Unlock()
}

// Clone returns an independent copy.
func (m *Modes) Clone() *Modes {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := New()
	for id, mode := range m.modes {
		c.modes[id] = mode
	}
	return c
}

// FromValues reads repeated view=eventId:mode parameters. Malformed entries
// are skipped. The id is everything before the last colon.
func FromValues(v url.Values) *Modes {
	m := New()
	for _, raw := range v[ParamView] {
		i := strings.LastIndex(raw, ":")
		if i <= 0 {
			continue
		}
		mode, err := Parse(raw[i+1:])
		if err != nil {
			continue
		}
		m.modes[domain.ID(raw[:i])] = mode
	}
	return m
}

// Apply writes non-default modes to v as view parameters, sorted by id.
func (m *Modes) Apply(v url.Values) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v.Del(ParamView)
	ids := make([]string, 0, len(m.modes))
	for id, mode := range m.modes {
		if mode != Expanded {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		v.Add(ParamView, id+":"+string(m.modes[domain.ID(id)]))
	}
}
