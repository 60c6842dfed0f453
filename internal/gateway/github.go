// Package gateway provides a gateway to GitHub, abstracting away the
// invocation of the external gh CLI.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2"

	"github.com/naka-gawa/pr-stats/internal/domain"
)

// prFields is the --json field list requested from gh. It must cover every
// field of domain.PullRequest that comes from the platform.
const prFields = "number,title,url,author,assignees,latestReviews,additions,deletions,changedFiles,files,createdAt,mergedAt"

// Fetcher defines the behavior of a gateway for fetching pull requests.
type Fetcher interface {
	FetchPullRequests(ctx context.Context, repository string, since time.Time, limit int) ([]domain.PullRequest, error)
}

// execFunc runs the gh binary. Swappable in tests.
type execFunc func(ctx context.Context, args ...string) (stdout, stderr bytes.Buffer, err error)

// GHGateway is the concrete implementation of the Fetcher interface. It
// shells out to the user's gh installation, so authentication is whatever
// `gh auth` already established.
type GHGateway struct {
	exec   execFunc
	logger *log.Logger
}

// NewGHGateway is a constructor that creates a new instance of GHGateway.
func NewGHGateway(logger *log.Logger) *GHGateway {
	return &GHGateway{
		exec:   gh.ExecContext,
		logger: logger,
	}
}

// FetchPullRequests lists merged pull requests of one repository and applies
// the ingestion policies the aggregation engine relies on. Repositories are
// fetched one at a time; gh does not behave well under concurrent invocation.
func (g *GHGateway) FetchPullRequests(ctx context.Context, repository string, since time.Time, limit int) ([]domain.PullRequest, error) {
	args := []string{
		"pr", "list",
		"--repo", repository,
		"--state", "merged",
		"--limit", strconv.Itoa(limit),
		"--json", prFields,
	}
	if !since.IsZero() {
		args = append(args, "--search", "merged:>="+since.Format("2006-01-02"))
	}

	g.logger.Printf("Gateway: running gh %s", strings.Join(args, " "))
	stdout, stderr, err := g.exec(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("gh pr list failed for %s: %w (%s)", repository, err, strings.TrimSpace(stderr.String()))
	}

	var prs []domain.PullRequest
	if err := json.Unmarshal(stdout.Bytes(), &prs); err != nil {
		return nil, fmt.Errorf("failed to decode gh output for %s: %w", repository, err)
	}

	prs = normalize(prs)
	g.logger.Printf("Gateway: fetched %d pull requests from %s", len(prs), repository)
	return prs, nil
}

// normalize applies the upstream guarantees stored data must satisfy:
// bot-authored pull requests are dropped, an empty assignee list falls back
// to the author, and only approved reviews are kept. Keeping these as one
// named step makes the policy visible and testable; downstream code never
// re-validates them.
func normalize(prs []domain.PullRequest) []domain.PullRequest {
	kept := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if isBot(pr.Author) {
			continue
		}
		if len(pr.Assignees) == 0 {
			pr.Assignees = []domain.User{pr.Author}
		}
		approved := make([]domain.Review, 0, len(pr.LatestReviews))
		for _, review := range pr.LatestReviews {
			if strings.EqualFold(review.State, "APPROVED") && !isBot(review.Author) {
				approved = append(approved, review)
			}
		}
		pr.LatestReviews = approved
		kept = append(kept, pr)
	}
	return kept
}

func isBot(u domain.User) bool {
	return u.IsBot || strings.HasSuffix(u.Login, "[bot]")
}
