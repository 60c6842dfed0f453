package domain

// Changes holds line and file counts for one pull request after the ignore
// policy has been applied.
type Changes struct {
	Additions    int
	Deletions    int
	ChangedFiles int
}

// LOC is the combined line count of the change.
func (c Changes) LOC() int {
	return c.Additions + c.Deletions
}

// IgnorePolicy decides whether a file's line changes are excluded from every
// metric for a given repository.
type IgnorePolicy interface {
	ShouldIgnore(repository, path string) bool
}

// EffectiveChanges computes the counts that feed every leaderboard.
// When the pull request carries no per-file data the raw totals are used
// unfiltered: per-file rules cannot be applied without a file list, and
// losing the whole PR would be worse than counting it whole.
func EffectiveChanges(pr *PullRequest, policy IgnorePolicy) Changes {
	if len(pr.Files) == 0 {
		return Changes{
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
			ChangedFiles: pr.ChangedFiles,
		}
	}
	var c Changes
	for _, f := range pr.Files {
		if policy != nil && policy.ShouldIgnore(pr.Repository, f.Path) {
			continue
		}
		c.Additions += f.Additions
		c.Deletions += f.Deletions
		c.ChangedFiles++
	}
	return c
}
