package activity

import (
	"sort"

	"github.com/volatiletech/null/v8"
)

// TopSitesLimit is the number of URLs a usage chart shows.
const TopSitesLimit = 10

// TopSites sums the duration of logs per URL and returns the n URLs with the largest total,
// largest first. Ties are broken by URL so that the result is stable.
func TopSites(logs []LogEntry, n int) []SiteUsage {
	totals := make(map[string]int64)
	for _, l := range logs {
		totals[l.URL] += int64(l.Duration)
	}
	sites := make([]SiteUsage, 0, len(totals))
	for url, d := range totals {
		sites = append(sites, SiteUsage{URL: url, Duration: d})
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Duration != sites[j].Duration {
			return sites[i].Duration > sites[j].Duration
		}
		return sites[i].URL < sites[j].URL
	})
	if n >= 0 && len(sites) > n {
		sites = sites[:n]
	}
	return sites
}

// Summarize aggregates joined logs the way SummaryQuery does: one summary per (aluno_id, student name),
// most recent activity first.
func Summarize(logs []LogEntry) []UserSummary {
	type key struct {
		alunoID string
		name    null.String
	}
	idx := make(map[key]int)
	summaries := make([]UserSummary, 0)
	for _, l := range logs {
		k := key{alunoID: l.AlunoID, name: l.StudentName}
		i, ok := idx[k]
		if !ok {
			i = len(summaries)
			idx[k] = i
			summaries = append(summaries, UserSummary{StudentName: l.StudentName, AlunoID: l.AlunoID})
		}
		s := &summaries[i]
		s.TotalDuration += int64(l.Duration)
		s.LogCount++
		if l.Timestamp.After(s.LastActivity) {
			s.LastActivity = l.Timestamp
		}
		if tier, ok := TierOf(l.Category.String); ok && l.Category.Valid {
			switch tier {
			case TierRed:
				s.HasRedAlert = true
			case TierBlue:
				s.HasBlueAlert = true
			}
		}
	}
	for i := range summaries {
		summaries[i].HasAlert = summaries[i].HasRedAlert || summaries[i].HasBlueAlert
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})
	return summaries
}
