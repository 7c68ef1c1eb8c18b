package querystate

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const (
	ParamSearch   = "search"
	ParamStatuses = "statuses"
)

// State is the dashboard's filter state. It is immutable: every update
// returns a new value.
type State struct {
	search   string
	statuses []string // unique by case fold, sorted
}

// New builds a State from a search string and a status selection.
func New(search string, statuses ...string) State {
	return State{search: search, statuses: normalize(statuses)}
}

func (s State) Search() string { return s.search }

// Statuses returns a copy of the selected statuses in sorted order.
func (s State) Statuses() []string {
	out := make([]string, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// HasStatus reports whether status is selected, ignoring case.
func (s State) HasStatus(status string) bool {
	return indexFold(s.statuses, status) >= 0
}

// IsEmpty reports whether the state filters nothing out.
func (s State) IsEmpty() bool {
	return s.search == "" && len(s.statuses) == 0
}

func (s State) WithSearch(search string) State {
	return State{search: search, statuses: s.statuses}
}

func (s State) WithStatuses(statuses ...string) State {
	return State{search: s.search, statuses: normalize(statuses)}
}

// ToggleStatus removes status when selected and adds it otherwise.
func (s State) ToggleStatus(status string) State {
	status = strings.TrimSpace(status)
	if status == "" {
		return s
	}
	i := indexFold(s.statuses, status)
	if i >= 0 {
		next := make([]string, 0, len(s.statuses)-1)
		next = append(next, s.statuses[:i]...)
		next = append(next, s.statuses[i+1:]...)
		return State{search: s.search, statuses: next}
	}
	next := make([]string, 0, len(s.statuses)+1)
	next = append(next, s.statuses...)
	next = append(next, status)
	return State{search: s.search, statuses: normalize(next)}
}

// Clear drops search and status selection.
func (s State) Clear() State { return State{} }

// Equal compares two states, treating statuses as a case-insensitive set.
func (s State) Equal(o State) bool {
	if s.search != o.search || len(s.statuses) != len(o.statuses) {
		return false
	}
	for _, st := range s.statuses {
		if indexFold(o.statuses, st) < 0 {
			return false
		}
	}
	return true
}

// FromValues reads search and statuses from URL query values.
// statuses is comma-joined; repeated statuses parameters are merged.
func FromValues(v url.Values) State {
	var statuses []string
	for _, raw := range v[ParamStatuses] {
		statuses = append(statuses, strings.Split(raw, ",")...)
	}
	return New(v.Get(ParamSearch), statuses...)
}

// Values writes the state as URL query values. Empty fields are omitted.
func (s State) Values() url.Values {
	v := url.Values{}
	s.Apply(v)
	return v
}

// Apply sets or removes the state's keys in v, leaving other keys alone.
func (s State) Apply(v url.Values) {
	if s.search != "" {
		v.Set(ParamSearch, s.search)
	} else {
		v.Del(ParamSearch)
	}
	if len(s.statuses) > 0 {
		v.Set(ParamStatuses, strings.Join(s.statuses, ","))
	} else {
		v.Del(ParamStatuses)
	}
}

// Encode returns the state as a query string without the leading '?'.
func (s State) Encode() string {
	return s.Values().Encode()
}

func normalize(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, st := range in {
		st = strings.TrimSpace(st)
		if st == "" || indexFold(out, st) >= 0 {
			continue
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func indexFold(list []string, target string) int {
	caser := cases.Fold()
	t := caser.String(target)
	for i, s := range list {
		if caser.String(s) == t {
			return i
		}
	}
	return -1
}
