// Package engine filters and groups rooming lists for display.
package engine

import (
	"sort"
	"strings"

	"rooming-data/internal/domain"
	"rooming-data/internal/querystate"

	"golang.org/x/text/cases"
)

// View is the filtered, grouped result of one query.
type View struct {
	Groups  []domain.EventGroup
	Matched int
	Total   int
}

// matcher holds a folded copy of the query. A cases.Caser is stateful, so
// each matcher owns its own.
type matcher struct {
	caser    cases.Caser
	search   string
	statuses map[string]struct{}
}

func newMatcher(q querystate.State) *matcher {
	m := &matcher{caser: cases.Fold()}
	m.search = m.caser.String(q.Search())
	if sts := q.Statuses(); len(sts) > 0 {
		m.statuses = make(map[string]struct{}, len(sts))
		for _, s := range sts {
			m.statuses[m.caser.String(s)] = struct{}{}
		}
	}
	return m
}

func (m *matcher) match(r *domain.RoomingList) bool {
	if r == nil {
		return false
	}
	if m.search != "" &&
		!strings.Contains(m.caser.String(r.RFPName), m.search) &&
		!strings.Contains(m.caser.String(r.AgreementType), m.search) {
		return false
	}
	if m.statuses != nil {
		if _, ok := m.statuses[m.caser.String(strings.TrimSpace(r.Status))]; !ok {
			return false
		}
	}
	return true
}

// Matches reports whether r passes q: the search is a case-insensitive
// substring of rfpName or agreementType, and the status is one of the
// selected statuses. Empty parts of q never exclude.
func Matches(r *domain.RoomingList, q querystate.State) bool {
	return newMatcher(q).match(r)
}

// Filter returns the records passing q in their original order.
func Filter(records []*domain.RoomingList, q querystate.State) []*domain.RoomingList {
	m := newMatcher(q)
	out := make([]*domain.RoomingList, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// GroupByEvent partitions records by EventID. Items keep their encounter
// order; groups are sorted by EventName, ties keeping first-appearance order.
func GroupByEvent(records []*domain.RoomingList) []domain.EventGroup {
	index := make(map[domain.ID]int)
	groups := make([]domain.EventGroup, 0)
	for _, r := range records {
		if r == nil {
			continue
		}
		i, ok := index[r.EventID]
		if !ok {
			i = len(groups)
			index[r.EventID] = i
			groups = append(groups, domain.EventGroup{EventID: r.EventID, EventName: r.EventName})
		}
		groups[i].Items = append(groups[i].Items, r)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].EventName < groups[b].EventName
	})
	return groups
}

// Statuses returns the distinct status values of records in ascending order.
func Statuses(records []*domain.RoomingList) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if r == nil {
			continue
		}
		// selections are trimmed, so the catalog is too
		st := strings.TrimSpace(r.Status)
		if st == "" {
			continue
		}
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// Apply filters and groups records in one call.
func Apply(records []*domain.RoomingList, q querystate.State) View {
	filtered := Filter(records, q)
	return View{
		Groups:  GroupByEvent(filtered),
		Matched: len(filtered),
		Total:   len(records),
	}
}
