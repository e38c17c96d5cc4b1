package core

import (
	"regexp"
	"strings"

	"github.com/kuro1999/isw2-dataset/schema"
)

// closedStatuses are the ticket statuses that count as done.
var closedStatuses = map[string]struct{}{
	"closed":   {},
	"resolved": {},
}

// IsBugFix reports whether a ticket is a fixed and closed bug.
func IsBugFix(t schema.Ticket) bool {
	if t.Key == "" {
		return false
	}
	if !strings.EqualFold(t.IssueType, "bug") || !strings.EqualFold(t.Resolution, "fixed") {
		return false
	}
	_, ok := closedStatuses[strings.ToLower(t.Status)]
	return ok
}

// FilterBugTickets keeps the tickets accepted by IsBugFix, in input order.
func FilterBugTickets(tickets []schema.Ticket) []schema.Ticket {
	var bugs []schema.Ticket
	for _, t := range tickets {
		if IsBugFix(t) {
			bugs = append(bugs, t)
		}
	}
	return bugs
}

// Linker recognizes fix commits by the ticket keys in their messages.
type Linker struct {
	pattern *regexp.Regexp
	bugs    map[string]struct{}
}

// NewLinker builds a linker for projectKey over the already filtered bug tickets.
func NewLinker(projectKey string, bugs []schema.Ticket) *Linker {
	keys := make(map[string]struct{}, len(bugs))
	for _, t := range bugs {
		keys[strings.ToUpper(t.Key)] = struct{}{}
	}
	return &Linker{
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(projectKey) + `-\d+`),
		bugs:    keys,
	}
}

// TicketKeys returns every key referenced by msg, upper-cased, in order of appearance.
func (l *Linker) TicketKeys(msg string) []string {
	matches := l.pattern.FindAllString(msg, -1)
	for i, m := range matches {
		matches[i] = strings.ToUpper(m)
	}
	return matches
}

// Match returns the referenced keys that belong to bug tickets. The commit is
// a fix commit iff the result is not empty.
func (l *Linker) Match(msg string) []string {
	var linked []string
	seen := map[string]struct{}{}
	for _, key := range l.TicketKeys(msg) {
		if _, ok := l.bugs[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		linked = append(linked, key)
	}
	return linked
}

// IsFixCommit reports whether c references at least one bug ticket.
func (l *Linker) IsFixCommit(c schema.Commit) bool {
	return len(l.Match(c.Message)) > 0
}

// Empty reports whether there are no bug tickets to link against.
func (l *Linker) Empty() bool {
	return len(l.bugs) == 0
}
