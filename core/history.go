package core

import (
	"sort"

	"github.com/kuro1999/isw2-dataset/schema"
)

// methodHistory accumulates the change records of one method id.
type methodHistory struct {
	churn       int
	adds        []int
	deletes     []int
	churns      []int
	authors     map[string]struct{}
	commits     int
	elseAdded   int
	elseDeleted int
	condChanges int
}

// History aggregates attributions over the fix-commit population. Every update
// is a sum, a set union or a list append, so the final metrics do not depend
// on the order commits are added in.
type History struct {
	methods    map[string]*methodHistory
	buggy      map[string]struct{}
	fixCommits int
}

// NewHistory creates an empty aggregator.
func NewHistory() *History {
	return &History{
		methods: map[string]*methodHistory{},
		buggy:   map[string]struct{}{},
	}
}

// AddCommit merges the per-file outcomes of one fix commit. A method touched by
// several hunks or files of the same commit counts as one history entry.
func (h *History) AddCommit(outcomes []schema.FileOutcome) {
	h.fixCommits++
	touched := map[string]struct{}{}
	for _, o := range outcomes {
		for _, a := range o.Attributions {
			m := h.method(a.MethodID)
			m.churn += a.Churn
			m.adds = append(m.adds, a.Added)
			m.deletes = append(m.deletes, a.Deleted)
			m.churns = append(m.churns, a.Churn)
			m.authors[a.Author] = struct{}{}
			m.elseAdded += a.ElseAdded
			m.elseDeleted += a.ElseDeleted
			m.condChanges += a.CondChanges
			touched[a.MethodID] = struct{}{}
		}
		for _, id := range o.Buggy {
			h.buggy[id] = struct{}{}
		}
	}
	for id := range touched {
		h.methods[id].commits++
	}
}

// FixCommits returns the number of commits added so far.
func (h *History) FixCommits() int {
	return h.fixCommits
}

func (h *History) method(id string) *methodHistory {
	m, ok := h.methods[id]
	if !ok {
		m = &methodHistory{authors: map[string]struct{}{}}
		h.methods[id] = m
	}
	return m
}

// Finalize derives averages and maxima and returns the buggy set in sorted order.
func (h *History) Finalize() *schema.BuggyInfo {
	info := schema.NewBuggyInfo()
	for id := range h.buggy {
		info.BuggyMethods = append(info.BuggyMethods, id)
	}
	sort.Strings(info.BuggyMethods)

	for id, m := range h.methods {
		info.MetricsByMethod[id] = schema.MethodMetrics{
			Structural: schema.StructuralChangeMetrics{
				Churn:       m.churn,
				AvgChurn:    mean(m.churns),
				MaxChurn:    maxOf(m.churns),
				CondChanges: m.condChanges,
			},
			Complexity: schema.ComplexityMetrics{
				HistoryCount: m.commits,
				AuthorCount:  len(m.authors),
			},
			ElseMetrics: schema.ElseMetrics{
				ElseAdded:   m.elseAdded,
				ElseDeleted: m.elseDeleted,
			},
			AddDelete: schema.AddDeleteMetrics{
				AvgAdded:   mean(m.adds),
				MaxAdded:   maxOf(m.adds),
				AvgDeleted: mean(m.deletes),
				MaxDeleted: maxOf(m.deletes),
			},
		}
	}
	return info
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func maxOf(values []int) int {
	highest := 0
	for i, v := range values {
		if i == 0 || v > highest {
			highest = v
		}
	}
	return highest
}
