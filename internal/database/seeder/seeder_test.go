package seeder

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log"
	"testing"

	"talent-match/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnsDB answers the information_schema lookup with a fixed column list.
type columnsDB struct {
	columns  []string
	queryErr error
}

func (columnsDB) Ping(context.Context) error { return nil }

func (columnsDB) Close() error { return nil }

func (columnsDB) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }

func (columnsDB) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (columnsDB) Begin(context.Context) (database.Tx, error) { return nil, errors.New("no tx") }

func (columnsDB) SQLDB() *sql.DB { return nil }

func (d columnsDB) Query(context.Context, string, ...any) (database.Rows, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return &stringRows{values: d.columns, pos: -1}, nil
}

type stringRows struct {
	values []string
	pos    int
}

func (r *stringRows) Close() {}

func (r *stringRows) Err() error { return nil }

func (r *stringRows) Next() bool {
	r.pos++
	return r.pos < len(r.values)
}

func (r *stringRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.values[r.pos]
	return nil
}

type recordingSeeder struct {
	name string
	err  error
	ran  *[]string
}

func (s recordingSeeder) Name() string { return s.name }
func (s recordingSeeder) Run(context.Context, database.DB) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestEnsureTableColumns(t *testing.T) {
	ctx := context.Background()
	db := columnsDB{columns: []string{"id", "email", "role"}}

	assert.NoError(t, EnsureTableColumns(ctx, db, "users", "id", "email"))

	err := EnsureTableColumns(ctx, db, "users", "id", "password_hash", "full_name")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "users missing password_hash, full_name")

	assert.ErrorContains(t, EnsureTableColumns(ctx, db, "users", "id", ""), "empty column")
	assert.ErrorContains(t, EnsureTableColumns(ctx, db, ""), "empty table")
	assert.ErrorContains(t, EnsureTableColumns(ctx, nil, "users"), "nil db")

	down := columnsDB{queryErr: errors.New("connection refused")}
	assert.ErrorContains(t, EnsureTableColumns(ctx, down, "jobs", "id"), "read columns of jobs")
}

func TestRunner_RunsInOrderAndStopsOnError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "users", ran: &ran},
		nil,
		recordingSeeder{name: "jobs", err: boom, ran: &ran},
		recordingSeeder{name: "extra", ran: &ran},
	}}

	err := r.Run(context.Background(), columnsDB{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "seed jobs")
	assert.Equal(t, []string{"users", "jobs"}, ran)

	assert.ErrorContains(t, r.Run(context.Background(), nil), "nil db")
}

func TestRunner_OnlySelectsNamedSeeders(t *testing.T) {
	var ran []string
	var buf bytes.Buffer
	r := Runner{
		Seeders: []Seeder{
			recordingSeeder{name: "users", ran: &ran},
			recordingSeeder{name: "jobs", ran: &ran},
		},
		Only:   []string{" jobs "},
		Logger: log.New(&buf, "", 0),
	}

	require.NoError(t, r.Run(context.Background(), columnsDB{}))
	assert.Equal(t, []string{"jobs"}, ran)
	assert.Contains(t, buf.String(), "event=seeded seeder=jobs")

	ran = nil
	r.Only = []string{"jobs", "skills"}
	err := r.Run(context.Background(), columnsDB{})
	assert.ErrorIs(t, err, ErrUnknownSeeder)
	assert.ErrorContains(t, err, "skills")
	assert.Empty(t, ran)
}
