package schema

// StructuralChangeMetrics groups churn-related history metrics.
type StructuralChangeMetrics struct {
	Churn       int     `json:"churn"`
	AvgChurn    float64 `json:"avgChurn"`
	MaxChurn    int     `json:"maxChurn"`
	CondChanges int     `json:"condChanges"`
}

// ComplexityMetrics groups commit and author counts.
type ComplexityMetrics struct {
	HistoryCount int `json:"historyCount"`
	AuthorCount  int `json:"authorCount"`
}

// ElseMetrics counts else-branch lines added and deleted.
type ElseMetrics struct {
	ElseAdded   int `json:"elseAdded"`
	ElseDeleted int `json:"elseDeleted"`
}

// AddDeleteMetrics summarizes per-hunk added and deleted line counts.
type AddDeleteMetrics struct {
	AvgAdded   float64 `json:"avgAdded"`
	MaxAdded   int     `json:"maxAdded"`
	AvgDeleted float64 `json:"avgDeleted"`
	MaxDeleted int     `json:"maxDeleted"`
}

// MethodMetrics is the finalized change history of one method id.
type MethodMetrics struct {
	Structural  StructuralChangeMetrics `json:"structural"`
	Complexity  ComplexityMetrics       `json:"complexity"`
	ElseMetrics ElseMetrics             `json:"elseMetrics"`
	AddDelete   AddDeleteMetrics        `json:"addDelete"`
}

// BuggyInfo is the labelling output for one project.
type BuggyInfo struct {
	BuggyMethods    []string                 `json:"buggyMethods"`
	MetricsByMethod map[string]MethodMetrics `json:"metricsByMethod"`

	buggySet map[string]struct{}
}

// NewBuggyInfo returns an empty BuggyInfo.
func NewBuggyInfo() *BuggyInfo {
	return &BuggyInfo{
		BuggyMethods:    []string{},
		MetricsByMethod: map[string]MethodMetrics{},
	}
}

// IsBuggy reports whether the normalized method id is labelled buggy.
func (b *BuggyInfo) IsBuggy(methodID string) bool {
	if b.buggySet == nil {
		b.buggySet = make(map[string]struct{}, len(b.BuggyMethods))
		for _, id := range b.BuggyMethods {
			b.buggySet[id] = struct{}{}
		}
	}
	_, ok := b.buggySet[methodID]
	return ok
}

// MetricsFor returns the metrics of a method id, or zero metrics when the
// method has no recorded history.
func (b *BuggyInfo) MetricsFor(methodID string) MethodMetrics {
	return b.MetricsByMethod[methodID]
}
