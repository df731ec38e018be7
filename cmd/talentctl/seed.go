package main

import (
	"fmt"
	"log"

	"talent-match/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo employer, candidate and jobs",
	RunE:  runSeed,
}

var seedOnly []string

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "run only the named seeders (users, jobs)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	runner := seeder.Runner{
		Seeders: seeder.Defaults(),
		Only:    seedOnly,
		Logger:  log.New(cmd.ErrOrStderr(), "", log.LstdFlags),
	}
	if err := runner.Run(cmd.Context(), db); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %s and %s (password %q)\n",
		seeder.DemoEmployerEmail, seeder.DemoCandidateEmail, seeder.DemoPassword)
	return nil
}
