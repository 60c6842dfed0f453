// Package usecase contains the business logic of the application.
package usecase

import (
	"errors"
	"log"
	"sort"

	"github.com/naka-gawa/pr-stats/internal/domain"
)

// ErrNoPullRequests is returned when aggregation is attempted over an empty
// collection. The leaderboards are undefined without at least one record, so
// this is surfaced as an expected empty state rather than computed around.
var ErrNoPullRequests = errors.New("no pull requests to aggregate")

// PairStat counts how often two logins met as author and approver. The two
// logins are stored in sorted order so (a,b) and (b,a) share one counter.
type PairStat struct {
	First  string
	Second string
	Count  int
}

// RepoBucket is the complete leaderboard set of one repository.
type RepoBucket struct {
	Name  string
	Board *Board
}

// Result is the output of one aggregation run: the overall board, the top
// collaborating pair (global only), and one bucket per repository sorted by
// repository identifier.
type Result struct {
	Overall *Board
	TopPair *PairStat
	Repos   []*RepoBucket
}

// Aggregator is the use case turning a tagged pull request collection into
// ranked leaderboards at global and per-repository scope.
type Aggregator struct {
	policy domain.IgnorePolicy
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(policy domain.IgnorePolicy, logger *log.Logger) *Aggregator {
	return &Aggregator{
		policy: policy,
		logger: logger,
	}
}

// Aggregate performs the main business logic. Every board, global and
// per-repository, is built by the same fold with the same ignore policy, so
// repository-level sums are a strict partition of the global ones.
func (a *Aggregator) Aggregate(prs []*domain.PullRequest) (*Result, error) {
	if len(prs) == 0 {
		return nil, ErrNoPullRequests
	}
	a.logger.Printf("Usecase: aggregating %d pull requests...", len(prs))

	overall := newBoard(len(prs))
	buckets := make(map[string]*Board)
	for _, pr := range prs {
		overall.add(pr, a.policy)

		bucket := buckets[pr.Repository]
		if bucket == nil {
			bucket = newBoard(0)
			buckets[pr.Repository] = bucket
		}
		bucket.add(pr, a.policy)
	}

	repos := make([]*RepoBucket, 0, len(buckets))
	for name, board := range buckets {
		repos = append(repos, &RepoBucket{Name: name, Board: board})
	}
	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})

	result := &Result{
		Overall: overall,
		TopPair: topPair(prs),
		Repos:   repos,
	}
	a.logger.Println("Usecase: aggregation complete.")
	return result, nil
}

type pairKey struct {
	first  string
	second string
}

// topPair counts (author, approver) relations per pull request, self-pairs
// excluded, and returns the most frequent pair. Ties are broken by the
// lexicographically smallest pair. Returns nil when no relation exists.
func topPair(prs []*domain.PullRequest) *PairStat {
	counts := make(map[pairKey]int)
	for _, pr := range prs {
		author := pr.Author.Login
		for _, review := range pr.LatestReviews {
			approver := review.Author.Login
			if approver == author || approver == "" || author == "" {
				continue
			}
			key := pairKey{first: author, second: approver}
			if key.second < key.first {
				key.first, key.second = key.second, key.first
			}
			counts[key]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	keys := make([]pairKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].first != keys[j].first {
			return keys[i].first < keys[j].first
		}
		return keys[i].second < keys[j].second
	})

	var best *PairStat
	for _, key := range keys {
		if count := counts[key]; best == nil || count > best.Count {
			best = &PairStat{First: key.first, Second: key.second, Count: count}
		}
	}
	return best
}
