package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kuro1999/isw2-dataset/schema"
)

func bugTicket(key string) schema.Ticket {
	return schema.Ticket{Key: key, IssueType: "Bug", Resolution: "Fixed", Status: "Closed"}
}

func TestIsBugFix(t *testing.T) {
	tests := []struct {
		name   string
		ticket schema.Ticket
		want   bool
	}{
		{"closed fixed bug", bugTicket("PRJ-1"), true},
		{"case insensitive", schema.Ticket{Key: "PRJ-1", IssueType: "BUG", Resolution: "fixed", Status: "RESOLVED"}, true},
		{"open status", schema.Ticket{Key: "PRJ-1", IssueType: "Bug", Resolution: "Fixed", Status: "Open"}, false},
		{"reopened status", schema.Ticket{Key: "PRJ-1", IssueType: "Bug", Resolution: "Fixed", Status: "Reopened"}, false},
		{"won't fix", schema.Ticket{Key: "PRJ-1", IssueType: "Bug", Resolution: "Won't Fix", Status: "Closed"}, false},
		{"improvement", schema.Ticket{Key: "PRJ-1", IssueType: "Improvement", Resolution: "Fixed", Status: "Closed"}, false},
		{"empty key", schema.Ticket{IssueType: "Bug", Resolution: "Fixed", Status: "Closed"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBugFix(tt.ticket))
		})
	}
}

func TestFilterBugTickets(t *testing.T) {
	open := bugTicket("PRJ-2")
	open.Status = "Open"
	bugs := FilterBugTickets([]schema.Ticket{bugTicket("PRJ-1"), open, bugTicket("PRJ-3")})
	assert.Len(t, bugs, 2)
	assert.Equal(t, "PRJ-1", bugs[0].Key)
	assert.Equal(t, "PRJ-3", bugs[1].Key)
}

func TestLinker(t *testing.T) {
	l := NewLinker("PRJ", []schema.Ticket{bugTicket("PRJ-10"), bugTicket("prj-2")})

	tests := []struct {
		name string
		msg  string
		want []string
	}{
		{"single key", "Fix PRJ-10 crash", []string{"PRJ-10"}},
		{"longest match", "PRJ-100 is not PRJ-10", []string{"PRJ-10"}},
		{"case insensitive", "fixes prj-2", []string{"PRJ-2"}},
		{"unknown ticket", "PRJ-3 only", nil},
		{"multi ticket counted once", "PRJ-2, also touches PRJ-3 and PRJ-2 again", []string{"PRJ-2"}},
		{"other project", "OTHER-10", nil},
		{"no keys", "refactor", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Match(tt.msg))
			assert.Equal(t, len(tt.want) > 0, l.IsFixCommit(schema.Commit{Message: tt.msg}))
		})
	}

	assert.Equal(t, []string{"PRJ-100", "PRJ-10"}, l.TicketKeys("PRJ-100 is not PRJ-10"))
	assert.False(t, l.Empty())
	assert.True(t, NewLinker("PRJ", nil).Empty())
}

func TestLinker_KeyWithRegexMeta(t *testing.T) {
	l := NewLinker("A.B", []schema.Ticket{bugTicket("A.B-1")})
	assert.Equal(t, []string{"A.B-1"}, l.Match("fix A.B-1"))
	assert.Empty(t, l.Match("fix AxB-1"))
}
