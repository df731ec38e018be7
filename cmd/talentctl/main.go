// Package main provides talentctl, the operator CLI for TalentMatch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentctl",
	Short: "TalentMatch operator tooling",
	Long:  "talentctl applies database migrations, seeds demo accounts and jobs, and scores skill lists offline against job requirements.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
