// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// User identifies a GitHub account as it appears in stored pull request data.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
	IsBot bool   `json:"is_bot,omitempty"`
}

// Review is a single entry of a pull request's latest-review list.
// Stored data contains only approved reviews; see gateway normalization.
type Review struct {
	Author User   `json:"author"`
	State  string `json:"state"`
}

// FileChange is the per-file diff stat of a pull request.
type FileChange struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// PullRequest is the core domain entity: one merged pull request as persisted
// by the fetch step. The JSON field names mirror the `gh pr list --json`
// output so stored documents round-trip without a mapping layer.
type PullRequest struct {
	Number        int          `json:"number"`
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	Author        User         `json:"author"`
	Assignees     []User       `json:"assignees"`
	LatestReviews []Review     `json:"latestReviews"`
	Additions     int          `json:"additions"`
	Deletions     int          `json:"deletions"`
	ChangedFiles  int          `json:"changedFiles"`
	Files         []FileChange `json:"files"`
	CreatedAt     string       `json:"createdAt,omitempty"`
	MergedAt      string       `json:"mergedAt,omitempty"`

	// Repository ("owner/name") is attached when the stored document is
	// loaded; it is not part of the persisted schema.
	Repository string `json:"-"`
}

// LeadTime returns the elapsed time between creation and merge.
// The second return value is false when either timestamp is missing or
// unparseable, or when the difference is negative; callers treat such
// pull requests as having no lead time rather than as errors.
func (pr *PullRequest) LeadTime() (time.Duration, bool) {
	if pr.CreatedAt == "" || pr.MergedAt == "" {
		return 0, false
	}
	created, err := time.Parse(time.RFC3339, pr.CreatedAt)
	if err != nil {
		return 0, false
	}
	merged, err := time.Parse(time.RFC3339, pr.MergedAt)
	if err != nil {
		return 0, false
	}
	d := merged.Sub(created)
	if d < 0 {
		return 0, false
	}
	return d, true
}
