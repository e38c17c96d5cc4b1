// Package jira reads bug tickets and released versions from a Jira server.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// pageSize is the number of issues requested per search call.
const pageSize = 500

// Jira timestamp layouts.
const (
	timestampLayout = "2006-01-02T15:04:05.000-0700"
	dateLayout      = "2006-01-02"
)

var releaseNameRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Client talks to the Jira REST API with rate limiting and optional basic auth.
type Client struct {
	baseURL     string
	user        string
	pass        string
	http        *http.Client
	rateLimiter *rate.Limiter
}

var _ contract.IssueTracker = &Client{} // Compile-time check

// NewClient creates a Jira client. Credentials are only sent when both are set.
func NewClient(baseURL, user, pass string, timeout time.Duration, requestsPerSecond float64) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		user:        user,
		pass:        pass,
		http:        &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

type searchResponse struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Issues     []searchIssue `json:"issues"`
}

type named struct {
	Name string `json:"name"`
}

type person struct {
	DisplayName string `json:"displayName"`
}

type searchIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary        string          `json:"summary"`
		IssueType      *named          `json:"issuetype"`
		Resolution     *named          `json:"resolution"`
		Status         *named          `json:"status"`
		Priority       *named          `json:"priority"`
		Reporter       *person         `json:"reporter"`
		Assignee       *person         `json:"assignee"`
		Created        string          `json:"created"`
		ResolutionDate string          `json:"resolutiondate"`
		Updated        string          `json:"updated"`
		Versions       []versionFields `json:"versions"`
		FixVersions    []versionFields `json:"fixVersions"`
		Labels         []string        `json:"labels"`
		Components     []named         `json:"components"`
	} `json:"fields"`
}

type versionFields struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"releaseDate"`
	Released    bool   `json:"released"`
}

type projectResponse struct {
	Key      string          `json:"key"`
	Versions []versionFields `json:"versions"`
}

// ListTickets returns every issue of the project, oldest first.
func (c *Client) ListTickets(ctx context.Context, projectKey string) ([]schema.Ticket, error) {
	var tickets []schema.Ticket
	for startAt := 0; ; {
		q := url.Values{}
		q.Set("jql", fmt.Sprintf("project = %s ORDER BY created ASC", projectKey))
		q.Set("fields", "*all")
		q.Set("startAt", fmt.Sprint(startAt))
		q.Set("maxResults", fmt.Sprint(pageSize))

		var page searchResponse
		if err := c.getJSON(ctx, "/rest/api/2/search?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("search issues of %s: %w", projectKey, err)
		}
		for _, issue := range page.Issues {
			tickets = append(tickets, toTicket(issue))
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}
	return tickets, nil
}

// ListVersions returns the released versions of the project that carry a
// release date and a purely numeric name, sorted by date with ids 1..n.
func (c *Client) ListVersions(ctx context.Context, projectKey string) ([]schema.Version, error) {
	var project projectResponse
	if err := c.getJSON(ctx, "/rest/api/latest/project/"+url.PathEscape(projectKey), &project); err != nil {
		return nil, fmt.Errorf("versions of %s: %w", projectKey, err)
	}
	return filterVersions(project.Versions), nil
}

// filterVersions keeps the datable numeric versions, sorts them by release
// date then name, and numbers them from 1.
func filterVersions(raw []versionFields) []schema.Version {
	var out []schema.Version
	for _, v := range raw {
		if !releaseNameRe.MatchString(v.Name) {
			continue
		}
		date := parseTime(v.ReleaseDate)
		if date == nil {
			continue
		}
		out = append(out, schema.Version{Name: v.Name, ReleaseDate: date})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := *out[i].ReleaseDate, *out[j].ReleaseDate
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" && c.pass != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func toTicket(issue searchIssue) schema.Ticket {
	f := issue.Fields
	t := schema.Ticket{
		Key:            issue.Key,
		Summary:        f.Summary,
		IssueType:      nameOf(f.IssueType),
		Resolution:     nameOf(f.Resolution),
		Status:         nameOf(f.Status),
		Priority:       nameOf(f.Priority),
		Reporter:       displayName(f.Reporter),
		Assignee:       displayName(f.Assignee),
		Created:        parseTime(f.Created),
		ResolutionDate: parseTime(f.ResolutionDate),
		Updated:        parseTime(f.Updated),
		Labels:         f.Labels,
	}
	for _, v := range f.Versions {
		t.AffectedVersions = append(t.AffectedVersions, schema.Version{Name: v.Name, ReleaseDate: parseTime(v.ReleaseDate)})
	}
	for _, v := range f.FixVersions {
		t.FixVersions = append(t.FixVersions, schema.Version{Name: v.Name, ReleaseDate: parseTime(v.ReleaseDate)})
	}
	for _, comp := range f.Components {
		t.Components = append(t.Components, comp.Name)
	}
	return t
}

func nameOf(n *named) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func displayName(p *person) string {
	if p == nil {
		return ""
	}
	return p.DisplayName
}

// parseTime reads a Jira timestamp or plain date. Unparseable and empty
// values are nil.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{timestampLayout, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
