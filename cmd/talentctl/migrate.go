package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"talent-match/internal/database/migration"
	"talent-match/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Applies the embedded schema migrations, or the V<n>__<name>.sql files in --dir when given, in version order.",
	RunE:  runMigrate,
}

var (
	migrateDir    string
	migrateDryRun bool
)

func init() {
	migrateCmd.Flags().StringVarP(&migrateDir, "dir", "d", "", "Read migrations from this directory instead of the embedded set")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "List the migrations that would be considered without connecting")

	rootCmd.AddCommand(migrateCmd)
}

func newRunner() migration.Runner {
	r := migration.Runner{Logger: log.New(os.Stdout, "", log.LstdFlags|log.LUTC)}
	if strings.TrimSpace(migrateDir) != "" {
		r.Dir = migrateDir
	} else {
		r.FS = migrations.FS
	}
	return r
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	runner := newRunner()

	if migrateDryRun {
		migs, err := runner.Load()
		if err != nil {
			return fmt.Errorf("failed to load migrations: %w", err)
		}
		for _, m := range migs {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "V%d %s %s\n", m.Version, m.Name, m.Checksum[:12])
		}
		return nil
	}

	db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := runner.Run(cmd.Context(), db.SQLDB())
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
	return nil
}
