package schema

import "time"

// Ticket is an issue-tracker entry as fetched for one project.
type Ticket struct {
	Key              string     `json:"key"`
	Summary          string     `json:"summary,omitempty"`
	IssueType        string     `json:"issueType"`
	Resolution       string     `json:"resolution"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority,omitempty"`
	Reporter         string     `json:"reporter,omitempty"`
	Assignee         string     `json:"assignee,omitempty"`
	Created          *time.Time `json:"created,omitempty"`
	ResolutionDate   *time.Time `json:"resolutionDate,omitempty"`
	Updated          *time.Time `json:"updated,omitempty"`
	AffectedVersions []Version  `json:"affectedVersions,omitempty"`
	FixVersions      []Version  `json:"fixVersions,omitempty"`
	Labels           []string   `json:"labels,omitempty"`
	Components       []string   `json:"components,omitempty"`
}

// Version is a tracker release. ID is assigned after sorting by release date.
type Version struct {
	ID          int        `json:"id,omitempty"`
	Name        string     `json:"name"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
}

// Project describes one dataset build target.
type Project struct {
	Owner      string   `mapstructure:"owner" json:"owner"`
	Repo       string   `mapstructure:"repo" json:"repo"`
	JiraKey    string   `mapstructure:"jira-key" json:"jiraKey"`
	ReleaseCut string   `mapstructure:"release-cut" json:"releaseCut,omitempty"`
	Excludes   []string `mapstructure:"excludes" json:"excludes,omitempty"`
}
