package seeder

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct {
	Password string
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "full_name", "role", "created_at"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Email    string
		FullName string
		Role     string
	}{
		{Email: DemoEmployerEmail, FullName: "Demo Employer", Role: user.RoleEmployer},
		{Email: DemoCandidateEmail, FullName: "Demo Candidate", Role: user.RoleCandidate},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, email, password_hash, full_name, role) VALUES (gen_random_uuid(), $1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
			it.Email,
			string(hash),
			it.FullName,
			it.Role,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
