package matching

import (
	"math"
	"strings"
)

type SkillRequirement struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

type Result struct {
	Score         int      `json:"score"`
	Matched       []string `json:"matched"`
	Missing       []string `json:"missing"`
	TotalSkills   int      `json:"totalSkills"`
	MatchedSkills int      `json:"matchedSkills"`
	TotalWeight   int      `json:"totalWeight"`
	MatchedWeight int      `json:"matchedWeight"`
}

// Score compares a candidate's extracted skills against a job's weighted
// requirements. A requirement counts as matched when any candidate skill is
// equal to, contains, or is contained in the requirement name after
// lower-casing and trimming both sides.
func Score(candidateSkills []string, jobSkills []SkillRequirement) Result {
	res := Result{
		Matched:     make([]string, 0, len(jobSkills)),
		Missing:     make([]string, 0, len(jobSkills)),
		TotalSkills: len(jobSkills),
	}

	if len(candidateSkills) == 0 {
		for _, js := range jobSkills {
			res.TotalWeight += js.Weight
			res.Missing = append(res.Missing, js.Name)
		}
		return res
	}

	normalized := make([]string, 0, len(candidateSkills))
	for _, cs := range candidateSkills {
		normalized = append(normalized, normalizeSkill(cs))
	}

	for _, js := range jobSkills {
		res.TotalWeight += js.Weight
		if matchesAny(normalized, normalizeSkill(js.Name)) {
			res.MatchedWeight += js.Weight
			res.Matched = append(res.Matched, js.Name)
			continue
		}
		res.Missing = append(res.Missing, js.Name)
	}

	res.MatchedSkills = len(res.Matched)
	res.Score = percentage(res.MatchedWeight, res.TotalWeight)
	return res
}

func matchesAny(candidates []string, required string) bool {
	for _, cs := range candidates {
		if cs == required || strings.Contains(cs, required) || strings.Contains(required, cs) {
			return true
		}
	}
	return false
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// percentage rounds half up and clamps to 0..100.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	v := int(math.Floor(float64(part)/float64(total)*100 + 0.5))
	return clampInt(v, 0, 100)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
