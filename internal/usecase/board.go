package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/pr-stats/internal/domain"
)

// LOCStat is the per-login line-count accumulator shared by the assignee and
// reviewer leaderboards.
type LOCStat struct {
	Login    string
	TotalLOC int
	PRCount  int
}

// Average is the mean effective LOC per pull request for this login.
func (s *LOCStat) Average() float64 {
	if s.PRCount == 0 {
		return 0
	}
	return float64(s.TotalLOC) / float64(s.PRCount)
}

// FileStat accumulates changes to a single file across pull requests.
// PRCount increments at most once per pull request.
type FileStat struct {
	Path      string
	Additions int
	Deletions int
	PRCount   int
}

// TopPR is the winner of a "biggest single PR" dimension.
type TopPR struct {
	PR    *domain.PullRequest
	Value int
}

// ReviewHighlight is the largest single-PR review contribution of one approver.
type ReviewHighlight struct {
	Login string
	LOC   int
	PR    *domain.PullRequest
}

// LeadTimeEntry is a lead-time extreme together with the pull request that set it.
type LeadTimeEntry struct {
	PR       *domain.PullRequest
	Duration time.Duration
}

// Board is one complete set of leaderboard accumulators. The same type backs
// the overall leaderboards and each repository bucket; both are produced by
// buildBoard so the per-repository sums always partition the global ones.
type Board struct {
	PRs      []*domain.PullRequest
	TotalLOC int

	PRCounts      map[string]int // assignee login -> pull requests assigned
	ReviewCounts  map[string]int // approver login -> approvals given
	AssigneeLOC   map[string]*LOCStat
	ReviewerLOC   map[string]*LOCStat
	BiggestReview map[string]*ReviewHighlight
	Files         map[string]*FileStat

	TopAdditions    *TopPR
	TopDeletions    *TopPR
	TopChangedFiles *TopPR

	ShortestLead *LeadTimeEntry
	LongestLead  *LeadTimeEntry

	locSamples []float64
}

func newBoard(capacity int) *Board {
	return &Board{
		PRs:           make([]*domain.PullRequest, 0, capacity),
		PRCounts:      make(map[string]int),
		ReviewCounts:  make(map[string]int),
		AssigneeLOC:   make(map[string]*LOCStat),
		ReviewerLOC:   make(map[string]*LOCStat),
		BiggestReview: make(map[string]*ReviewHighlight),
		Files:         make(map[string]*FileStat),
		locSamples:    make([]float64, 0, capacity),
	}
}

// add folds one pull request into every accumulator of the board.
func (b *Board) add(pr *domain.PullRequest, policy domain.IgnorePolicy) {
	eff := domain.EffectiveChanges(pr, policy)
	loc := eff.LOC()

	b.PRs = append(b.PRs, pr)
	b.TotalLOC += loc
	b.locSamples = append(b.locSamples, float64(loc))

	for _, assignee := range pr.Assignees {
		b.PRCounts[assignee.Login]++
		st := b.AssigneeLOC[assignee.Login]
		if st == nil {
			st = &LOCStat{Login: assignee.Login}
			b.AssigneeLOC[assignee.Login] = st
		}
		st.TotalLOC += loc
		st.PRCount++
	}

	// Review counts take every approval entry; LOC credit is granted once
	// per reviewer per PR even if the list is malformed and repeats a login.
	credited := make(map[string]struct{}, len(pr.LatestReviews))
	for _, review := range pr.LatestReviews {
		login := review.Author.Login
		b.ReviewCounts[login]++
		if _, dup := credited[login]; dup {
			continue
		}
		credited[login] = struct{}{}

		st := b.ReviewerLOC[login]
		if st == nil {
			st = &LOCStat{Login: login}
			b.ReviewerLOC[login] = st
		}
		st.TotalLOC += loc
		st.PRCount++

		if hl := b.BiggestReview[login]; hl == nil || loc > hl.LOC {
			b.BiggestReview[login] = &ReviewHighlight{Login: login, LOC: loc, PR: pr}
		}
	}

	// File aggregates only exist when per-file data exists; ignored files
	// are filtered before accumulation so they never appear at all.
	counted := make(map[string]struct{}, len(pr.Files))
	for _, f := range pr.Files {
		if policy != nil && policy.ShouldIgnore(pr.Repository, f.Path) {
			continue
		}
		fs := b.Files[f.Path]
		if fs == nil {
			fs = &FileStat{Path: f.Path}
			b.Files[f.Path] = fs
		}
		fs.Additions += f.Additions
		fs.Deletions += f.Deletions
		if _, dup := counted[f.Path]; !dup {
			counted[f.Path] = struct{}{}
			fs.PRCount++
		}
	}

	b.considerTop(&b.TopAdditions, pr, eff.Additions)
	b.considerTop(&b.TopDeletions, pr, eff.Deletions)
	b.considerTop(&b.TopChangedFiles, pr, eff.ChangedFiles)

	if d, ok := pr.LeadTime(); ok {
		if b.ShortestLead == nil || d < b.ShortestLead.Duration {
			b.ShortestLead = &LeadTimeEntry{PR: pr, Duration: d}
		}
		if b.LongestLead == nil || d > b.LongestLead.Duration {
			b.LongestLead = &LeadTimeEntry{PR: pr, Duration: d}
		}
	}
}

// considerTop keeps the maximum under strict >, so the first pull request
// seen at a given value wins ties.
func (b *Board) considerTop(top **TopPR, pr *domain.PullRequest, value int) {
	if *top == nil || value > (*top).Value {
		*top = &TopPR{PR: pr, Value: value}
	}
}

// MostPRs returns the assignee with the most pull requests.
func (b *Board) MostPRs() (string, int) {
	return maxCount(b.PRCounts)
}

// MostReviews returns the approver with the most approvals.
func (b *Board) MostReviews() (string, int) {
	return maxCount(b.ReviewCounts)
}

// TopAssigneeLOC returns the assignee with the largest total effective LOC.
func (b *Board) TopAssigneeLOC() *LOCStat {
	return maxLOC(b.AssigneeLOC)
}

// TopReviewerLOC returns the approver with the largest total reviewed LOC.
func (b *Board) TopReviewerLOC() *LOCStat {
	return maxLOC(b.ReviewerLOC)
}

// TopSingleReview returns the largest one-PR review contribution overall.
func (b *Board) TopSingleReview() *ReviewHighlight {
	var best *ReviewHighlight
	for _, login := range sortedKeys(b.BiggestReview) {
		hl := b.BiggestReview[login]
		if best == nil || hl.LOC > best.LOC {
			best = hl
		}
	}
	return best
}

// BusiestFileByAdditions returns the file with the most accumulated additions.
func (b *Board) BusiestFileByAdditions() *FileStat {
	return b.busiestFile(func(f *FileStat) int { return f.Additions })
}

// BusiestFileByDeletions returns the file with the most accumulated deletions.
func (b *Board) BusiestFileByDeletions() *FileStat {
	return b.busiestFile(func(f *FileStat) int { return f.Deletions })
}

// BusiestFileByPRs returns the file touched by the most distinct pull requests.
func (b *Board) BusiestFileByPRs() *FileStat {
	return b.busiestFile(func(f *FileStat) int { return f.PRCount })
}

func (b *Board) busiestFile(metric func(*FileStat) int) *FileStat {
	var best *FileStat
	for _, path := range sortedKeys(b.Files) {
		f := b.Files[path]
		if best == nil || metric(f) > metric(best) {
			best = f
		}
	}
	return best
}

// AssigneeRanking returns every assignee LOC stat sorted descending by total,
// ties broken by login.
func (b *Board) AssigneeRanking() []*LOCStat {
	ranking := make([]*LOCStat, 0, len(b.AssigneeLOC))
	for _, st := range b.AssigneeLOC {
		ranking = append(ranking, st)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalLOC != ranking[j].TotalLOC {
			return ranking[i].TotalLOC > ranking[j].TotalLOC
		}
		return ranking[i].Login < ranking[j].Login
	})
	return ranking
}

// AverageLOC is the mean effective LOC per pull request on this board.
func (b *Board) AverageLOC() float64 {
	mean, err := stats.Mean(b.locSamples)
	if err != nil {
		return 0
	}
	return mean
}

// maxCount returns the key with the highest count. Exact ties are broken by
// the lexicographically smallest key so reruns always pick the same winner.
func maxCount(counts map[string]int) (string, int) {
	bestKey, bestCount := "", 0
	for _, key := range sortedKeys(counts) {
		if count := counts[key]; bestKey == "" || count > bestCount {
			bestKey, bestCount = key, count
		}
	}
	return bestKey, bestCount
}

func maxLOC(byLogin map[string]*LOCStat) *LOCStat {
	var best *LOCStat
	for _, login := range sortedKeys(byLogin) {
		if st := byLogin[login]; best == nil || st.TotalLOC > best.TotalLOC {
			best = st
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
