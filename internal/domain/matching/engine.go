package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type UserProfile struct {
	Skills          []string
	ExperienceLevel ExperienceLevel
	Location        string
	Program         string
}

type JobPosting struct {
	ID              uuid.UUID
	Title           string
	Company         string
	Description     string
	Location        string
	JobType         string
	Salary          string
	ExperienceLevel ExperienceLevel
	RequiredSkills  []string
	RemoteFriendly  bool
}

type Breakdown struct {
	SkillSimilarity float64
	SkillBoost      float64
	Experience      float64
	Location        float64
	Program         float64
}

type MatchResult struct {
	Job        JobPosting
	MatchScore float64
	Breakdown  Breakdown
}

// Engine scores (profile, job) pairs. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	if w.IsZero() {
		w = DefaultWeights
	}
	return &Engine{weights: w}
}

func (e *Engine) Weights() Weights {
	if e == nil {
		return DefaultWeights
	}
	return e.weights
}

// Score never fails; every sub-score degrades to 0 on empty input.
func (e *Engine) Score(profile UserProfile, job JobPosting) MatchResult {
	w := e.Weights()

	program := profile.Program
	if strings.TrimSpace(program) == "" {
		program = DefaultProgram
	}

	b := Breakdown{
		SkillSimilarity: SkillSimilarity(profile.Skills, job.RequiredSkills),
		SkillBoost:      SkillBoost(profile.Skills, job.RequiredSkills),
		Experience:      ExperienceMatch(profile.ExperienceLevel, job.ExperienceLevel),
		Location:        LocationMatch(profile.Location, job.Location, job.RemoteFriendly),
		Program:         ProgramRelevance(program, job.Title, job.Description),
	}

	final := b.SkillSimilarity*w.SkillSimilarity +
		b.SkillBoost*w.SkillBoost +
		b.Experience*w.Experience +
		b.Location*w.Location +
		b.Program*w.Program

	return MatchResult{Job: job, MatchScore: percentage(final), Breakdown: b}
}

// RankJobs scores every job and orders them by descending score. Jobs with
// equal scores keep their input order.
func (e *Engine) RankJobs(profile UserProfile, jobs []JobPosting) []MatchResult {
	out := make([]MatchResult, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, e.Score(profile, j))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// percentage rounds half to even at one decimal, so 0.25 becomes 0.2.
func percentage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := clampFloat(v*100, 0, 100)
	return math.RoundToEven(p*10) / 10
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
