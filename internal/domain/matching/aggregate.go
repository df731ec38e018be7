package matching

import "sort"

const DefaultRecommendationLimit = 10

type SkillFrequency struct {
	Skill      string `json:"skill"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AggregateMissing tallies missing skills across match results. Each entry of
// missingLists is one result; nil entries still count toward the percentage
// denominator. Ties keep the order in which a skill was first seen.
func AggregateMissing(missingLists [][]string, limit int) []SkillFrequency {
	if len(missingLists) == 0 {
		return []SkillFrequency{}
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	index := map[string]int{}
	out := make([]SkillFrequency, 0)
	for _, missing := range missingLists {
		for _, skill := range missing {
			i, ok := index[skill]
			if !ok {
				index[skill] = len(out)
				out = append(out, SkillFrequency{Skill: skill, Count: 1})
				continue
			}
			out[i].Count++
		}
	}

	total := len(missingLists)
	for i := range out {
		out[i].Percentage = percentage(out[i].Count, total)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AggregateResults is AggregateMissing over scorer results.
func AggregateResults(results []Result, limit int) []SkillFrequency {
	lists := make([][]string, 0, len(results))
	for _, r := range results {
		lists = append(lists, r.Missing)
	}
	return AggregateMissing(lists, limit)
}
