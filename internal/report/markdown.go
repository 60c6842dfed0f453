// Package report renders aggregation results as a Markdown document and a
// condensed console summary. Rendering is a pure projection: identical
// results produce identical text apart from the caller-supplied timestamp.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/naka-gawa/pr-stats/internal/domain"
	"github.com/naka-gawa/pr-stats/internal/usecase"
)

// Markdown renders the full report: the overall section followed by one
// subsection per repository, already sorted by repository identifier.
func Markdown(result *usecase.Result, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Pull Request Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	sb.WriteString("## Overall\n\n")
	writeBoard(&sb, result.Overall, result.TopPair)

	sb.WriteString("## By Repository\n\n")
	for _, bucket := range result.Repos {
		fmt.Fprintf(&sb, "### %s\n\n", bucket.Name)
		writeBoard(&sb, bucket.Board, nil)
	}

	return sb.String()
}

// writeBoard renders one complete leaderboard set. The top collaborating
// pair only exists at global scope, so pair is nil for repository buckets.
func writeBoard(sb *strings.Builder, b *usecase.Board, pair *usecase.PairStat) {
	if login, count := b.MostPRs(); login != "" {
		fmt.Fprintf(sb, "- **Most PRs**: %s (%d)\n", login, count)
	}
	if login, count := b.MostReviews(); login != "" {
		fmt.Fprintf(sb, "- **Most reviews**: %s (%d)\n", login, count)
	}
	sb.WriteString("\n")

	writeAssigneeTable(sb, b)

	fmt.Fprintf(sb, "- **Total LOC**: %s across %d PRs (avg %.1f per PR)\n",
		humanize.Comma(int64(b.TotalLOC)), len(b.PRs), b.AverageLOC())

	writeTopPR(sb, "Biggest PR (additions)", b.TopAdditions, "additions")
	writeTopPR(sb, "Biggest PR (deletions)", b.TopDeletions, "deletions")
	writeTopPR(sb, "Biggest PR (changed files)", b.TopChangedFiles, "files")

	if f := b.BusiestFileByAdditions(); f != nil {
		fmt.Fprintf(sb, "- **Busiest file (additions)**: %s (+%s)\n", f.Path, humanize.Comma(int64(f.Additions)))
	}
	if f := b.BusiestFileByDeletions(); f != nil {
		fmt.Fprintf(sb, "- **Busiest file (deletions)**: %s (-%s)\n", f.Path, humanize.Comma(int64(f.Deletions)))
	}
	if f := b.BusiestFileByPRs(); f != nil {
		fmt.Fprintf(sb, "- **Busiest file (PRs)**: %s (%d PRs)\n", f.Path, f.PRCount)
	}

	if pair != nil {
		fmt.Fprintf(sb, "- **Top pair**: %s & %s (%d reviews together)\n", pair.First, pair.Second, pair.Count)
	}

	if b.ShortestLead != nil {
		fmt.Fprintf(sb, "- **Shortest lead time**: %s — %s\n",
			HumanizeDuration(b.ShortestLead.Duration), prLink(b.ShortestLead.PR))
	}
	if b.LongestLead != nil {
		fmt.Fprintf(sb, "- **Longest lead time**: %s — %s\n",
			HumanizeDuration(b.LongestLead.Duration), prLink(b.LongestLead.PR))
	}

	if st := b.TopReviewerLOC(); st != nil {
		fmt.Fprintf(sb, "- **Top reviewer (total LOC)**: %s (%s LOC over %d PRs)\n",
			st.Login, humanize.Comma(int64(st.TotalLOC)), st.PRCount)
	}
	if hl := b.TopSingleReview(); hl != nil {
		fmt.Fprintf(sb, "- **Biggest single review**: %s — %s LOC on %s (assignees: %s)\n",
			hl.Login, humanize.Comma(int64(hl.LOC)), prLink(hl.PR), assigneeNames(hl.PR))
	}
	if st := b.TopAssigneeLOC(); st != nil {
		fmt.Fprintf(sb, "- **Top assignee (total LOC)**: %s (%s LOC over %d PRs)\n",
			st.Login, humanize.Comma(int64(st.TotalLOC)), st.PRCount)
	}
	sb.WriteString("\n")
}

func writeAssigneeTable(sb *strings.Builder, b *usecase.Board) {
	ranking := b.AssigneeRanking()
	if len(ranking) == 0 {
		return
	}
	sb.WriteString("| Assignee | LOC | PRs | Avg LOC/PR |\n")
	sb.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, st := range ranking {
		fmt.Fprintf(sb, "| %s | %s | %d | %.1f |\n",
			st.Login, humanize.Comma(int64(st.TotalLOC)), st.PRCount, st.Average())
	}
	sb.WriteString("\n")
}

func writeTopPR(sb *strings.Builder, label string, top *usecase.TopPR, unit string) {
	if top == nil {
		return
	}
	fmt.Fprintf(sb, "- **%s**: %s %s — %s\n",
		label, humanize.Comma(int64(top.Value)), unit, prLink(top.PR))
}

func prLink(pr *domain.PullRequest) string {
	return fmt.Sprintf("%s ([#%d](%s))", pr.Title, pr.Number, pr.URL)
}

func assigneeNames(pr *domain.PullRequest) string {
	names := make([]string, 0, len(pr.Assignees))
	for _, a := range pr.Assignees {
		name := a.Name
		if name == "" {
			name = a.Login
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
