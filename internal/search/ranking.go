package search

import (
	"sort"
	"strings"
	"time"

	"uphera/internal/domain/job"
)

// Relevance scores title hits above company and description hits, capped at 10.
func Relevance(j job.Job, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}

	title := strings.ToLower(j.Title)
	desc := strings.ToLower(j.Description)
	company := strings.ToLower(j.Company)
	skills := strings.ToLower(strings.Join(j.RequiredSkills, " "))

	score := 0.0
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if strings.Contains(title, v) {
			score += 3
		}
		if strings.Contains(skills, v) {
			score += 2
		}
		if strings.Contains(desc, v) {
			score++
		}
		if strings.Contains(company, v) {
			score++
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func Freshness(j job.Job, now time.Time) float64 {
	if j.CreatedAt.IsZero() {
		return 0
	}
	age := now.Sub(j.CreatedAt)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= 24*time.Hour:
		return 5
	case age <= 3*24*time.Hour:
		return 4
	case age <= 7*24*time.Hour:
		return 3
	case age <= 14*24*time.Hour:
		return 2
	case age <= 30*24*time.Hour:
		return 1
	default:
		return 0
	}
}

// RankJobs reorders a listing page by relevance to variants, then freshness.
// With no variants or no hits the input order is returned unchanged.
func RankJobs(jobs []job.Job, variants []string, now time.Time) []job.Job {
	if len(jobs) == 0 || len(variants) == 0 {
		return jobs
	}

	type scored struct {
		idx   int
		score float64
	}
	items := make([]scored, len(jobs))
	anyHit := false
	for i := range jobs {
		rel := Relevance(jobs[i], variants)
		if rel > 0 {
			anyHit = true
		}
		items[i] = scored{idx: i, score: rel*2.0 + Freshness(jobs[i], now)*1.5}
	}
	if !anyHit {
		return jobs
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].score > items[b].score
	})

	out := make([]job.Job, 0, len(jobs))
	for _, it := range items {
		out = append(out, jobs[it.idx])
	}
	return out
}
