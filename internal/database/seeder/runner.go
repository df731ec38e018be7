package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"talent-match/internal/database"
)

var ErrUnknownSeeder = errors.New("unknown seeder")

// Seeder writes one slice of demo data. Runs must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order. Only, when set, restricts the run to the
// named seeders and fails fast on names that match nothing.
type Runner struct {
	Seeders []Seeder
	Only    []string
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	selected, err := r.selected()
	if err != nil {
		return err
	}
	for _, s := range selected {
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("event=seeded seeder=%s duration_ms=%d", s.Name(), time.Since(start).Milliseconds())
		}
	}
	return nil
}

func (r Runner) selected() ([]Seeder, error) {
	want := map[string]bool{}
	for _, name := range r.Only {
		if name = strings.TrimSpace(name); name != "" {
			want[name] = false
		}
	}

	out := make([]Seeder, 0, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[s.Name()]; !ok {
				continue
			}
			want[s.Name()] = true
		}
		out = append(out, s)
	}

	for name, seen := range want {
		if !seen {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSeeder, name)
		}
	}
	return out, nil
}
