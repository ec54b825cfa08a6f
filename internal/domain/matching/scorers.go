package matching

import (
	"strings"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

var experienceWeights = map[ExperienceLevel]float64{
	ExperienceEntry:  1.0,
	ExperienceJunior: 1.1,
	ExperienceMid:    1.2,
	ExperienceSenior: 1.3,
	ExperienceLead:   1.4,
}

// ParseExperienceLevel normalises s; ok is false for values outside the enum.
func ParseExperienceLevel(s string) (ExperienceLevel, bool) {
	lvl := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	_, ok := experienceWeights[lvl]
	return lvl, ok
}

// Weight returns the tier weight, 1.0 for unknown levels.
func (l ExperienceLevel) Weight() float64 {
	lvl, _ := ParseExperienceLevel(string(l))
	if w, ok := experienceWeights[lvl]; ok {
		return w
	}
	return 1.0
}

func skillWeight(skill string) float64 {
	if w, ok := SkillWeights[skill]; ok {
		return w
	}
	return 1.0
}

// SkillBoost rewards user skills that appear in the job requirements.
// Blank user skills are ignored.
func SkillBoost(userSkills, requirements []string) float64 {
	if len(userSkills) == 0 || len(requirements) == 0 {
		return 0
	}

	reqs := make([]string, 0, len(requirements))
	for _, r := range requirements {
		reqs = append(reqs, strings.ToLower(strings.TrimSpace(r)))
	}

	total := 0.0
	for _, us := range userSkills {
		skill := strings.ToLower(strings.TrimSpace(us))
		if skill == "" {
			continue
		}
		for _, req := range reqs {
			if req == "" {
				continue
			}
			if skill == req {
				total += skillWeight(skill)
				break
			}
			if strings.Contains(req, skill) || strings.Contains(skill, req) {
				total += skillWeight(skill) * partialMatchFactor
				break
			}
		}
	}

	return clampFloat(total/float64(len(requirements)), 0, 1)
}

// SkillSimilarity is the TF-IDF cosine similarity between the two skill lists.
func SkillSimilarity(userSkills, requirements []string) float64 {
	if len(userSkills) == 0 || len(requirements) == 0 {
		return 0
	}

	vecs, ok := tfidfVectors([]string{joinPreprocessed(userSkills), joinPreprocessed(requirements)})
	if !ok {
		return 0
	}
	return cosine(vecs[0], vecs[1])
}

// ExperienceMatch is 1.0 when the user is at or above the job tier and
// decays by 0.2 per unit of weight gap otherwise, never below 0.3.
func ExperienceMatch(user, job ExperienceLevel) float64 {
	uw := user.Weight()
	jw := job.Weight()
	if uw >= jw {
		return 1
	}
	score := 1.0 - (jw-uw)*experienceGapPenalty
	if score < experienceFloor {
		return experienceFloor
	}
	return score
}

func locationWeight(loc string) float64 {
	if w, ok := LocationWeights[loc]; ok {
		return w
	}
	return 1.0
}

// LocationMatch can exceed 1.0 for mismatched but desirable cities; the
// combiner clamps the final score.
func LocationMatch(userLocation, jobLocation string, remoteFriendly bool) float64 {
	if remoteFriendly {
		return 1
	}

	u := strings.ToLower(strings.TrimSpace(userLocation))
	j := strings.ToLower(strings.TrimSpace(jobLocation))
	if u == j {
		return 1
	}
	return (locationWeight(u) + locationWeight(j)) / 2
}

// ProgramRelevance is the share of the program's keywords found in the job
// title and description. Unknown programs score 0.5.
func ProgramRelevance(program, title, description string) float64 {
	keywords, ok := ProgramKeywords[strings.ToLower(strings.TrimSpace(program))]
	if !ok || len(keywords) == 0 {
		return neutralProgramScore
	}

	text := strings.ToLower(title + " " + description)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return clampFloat(float64(matches)/float64(len(keywords)), 0, 1)
}
