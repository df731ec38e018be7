package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"talent-match/internal/domain/matching"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate skills against weighted job requirements",
	Long:  "Runs the matching engine offline. Job skills are given as Name:Weight pairs, e.g. --job-skills Python:5,SQL:3.",
	RunE:  runScore,
}

var (
	scoreSkills    []string
	scoreJobSkills string
)

func init() {
	scoreCmd.Flags().StringSliceVarP(&scoreSkills, "skills", "s", nil, "Candidate skills, comma separated")
	scoreCmd.Flags().StringVarP(&scoreJobSkills, "job-skills", "j", "", "Job requirements as Name:Weight pairs (required)")

	if err := scoreCmd.MarkFlagRequired("job-skills"); err != nil {
		panic(fmt.Sprintf("failed to mark job-skills flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	reqs, err := parseJobSkills(scoreJobSkills)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(matching.Score(scoreSkills, reqs), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// parseJobSkills reads "Name:Weight" pairs separated by commas. A pair
// without a weight defaults to 1.
func parseJobSkills(raw string) ([]matching.SkillRequirement, error) {
	var reqs []matching.SkillRequirement
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, weightText, hasWeight := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty skill name in %q", part)
		}

		weight := 1
		if hasWeight {
			w, err := strconv.Atoi(strings.TrimSpace(weightText))
			if err != nil || w < 1 || w > 10 {
				return nil, fmt.Errorf("invalid weight for %s: %q (want 1-10)", name, weightText)
			}
			weight = w
		}
		reqs = append(reqs, matching.SkillRequirement{Name: name, Weight: weight})
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no job skills given")
	}
	return reqs, nil
}
