package report

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-stats/internal/domain"
	"github.com/naka-gawa/pr-stats/internal/usecase"
)

func aggregateFixture(t *testing.T) *usecase.Result {
	t.Helper()
	prs := []*domain.PullRequest{
		{
			Number:    12,
			Title:     "Add parser",
			URL:       "https://example.com/b/12",
			Author:    domain.User{Login: "u1"},
			Assignees: []domain.User{{Login: "u1", Name: "User One"}},
			Files:     []domain.FileChange{{Path: "parser.go", Additions: 120, Deletions: 30}},
			CreatedAt: "2025-01-01T00:00:00Z",
			MergedAt:  "2025-01-02T01:00:00Z",
			LatestReviews: []domain.Review{
				{Author: domain.User{Login: "u2"}, State: "APPROVED"},
			},
			Repository: "org/b",
		},
		{
			Number:     3,
			Title:      "Fix typo",
			URL:        "https://example.com/a/3",
			Author:     domain.User{Login: "u2"},
			Assignees:  []domain.User{{Login: "u2"}},
			Files:      []domain.FileChange{{Path: "readme.md", Additions: 1}},
			Repository: "org/a",
		},
	}
	agg := usecase.NewAggregator(nil, log.New(io.Discard, "", 0))
	result, err := agg.Aggregate(prs)
	require.NoError(t, err)
	return result
}

func TestMarkdown_Structure(t *testing.T) {
	result := aggregateFixture(t)
	generatedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	md := Markdown(result, generatedAt)

	assert.Contains(t, md, "# Pull Request Report")
	assert.Contains(t, md, "Generated: 2025-06-01 12:00:00 UTC")
	assert.Contains(t, md, "## Overall")
	assert.Contains(t, md, "## By Repository")

	// Repository sections sorted by identifier.
	posA := strings.Index(md, "### org/a")
	posB := strings.Index(md, "### org/b")
	require.NotEqual(t, -1, posA)
	require.NotEqual(t, -1, posB)
	assert.Less(t, posA, posB)

	// Winner lines and the PR link format.
	assert.Contains(t, md, "- **Most reviews**: u2 (1)")
	assert.Contains(t, md, "Add parser ([#12](https://example.com/b/12))")
	assert.Contains(t, md, "- **Shortest lead time**: 1d 1h 0m — Add parser ([#12](https://example.com/b/12))")
	assert.Contains(t, md, "- **Top pair**: u1 & u2 (1 reviews together)")
	assert.Contains(t, md, "- **Biggest single review**: u2 — 150 LOC on Add parser ([#12](https://example.com/b/12)) (assignees: User One)")

	// The top pair is a global leaderboard only.
	byRepo := md[strings.Index(md, "## By Repository"):]
	assert.NotContains(t, byRepo, "Top pair")
}

func TestMarkdown_Deterministic(t *testing.T) {
	result := aggregateFixture(t)
	generatedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := Markdown(result, generatedAt)
	second := Markdown(aggregateFixture(t), generatedAt)

	assert.Equal(t, first, second)
}

func TestConsoleSummary(t *testing.T) {
	result := aggregateFixture(t)

	var sb strings.Builder
	ConsoleSummary(&sb, result, "out/report.md")
	out := sb.String()

	assert.Contains(t, out, "Most PRs")
	assert.Contains(t, out, "Most reviews")
	assert.Contains(t, out, "out/report.md")
}
