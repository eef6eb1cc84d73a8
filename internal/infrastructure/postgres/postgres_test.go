package postgres

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	other := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, repository.ErrDuplicate},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, repository.ErrNotFound},
		{"other pg", &pgconn.PgError{Code: "40001"}, nil},
		{"other", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapErr(tc.in)
			if tc.name == "other pg" {
				var pgErr *pgconn.PgError
				if !errors.As(got, &pgErr) {
					t.Fatalf("expected pg error passthrough, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidUUIDs(t *testing.T) {
	a := "0b7f8f59-3d4c-4b8a-9a55-1f0c7b7c2e11"
	got := validUUIDs([]string{a, "nope", a, ""})
	if len(got) != 1 || got[0] != a {
		t.Fatalf("validUUIDs = %v", got)
	}
}

func TestMigrationsArePaired(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "db", "migrations")
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil || len(ups) == 0 {
		t.Fatalf("no up migrations found in %s: %v", dir, err)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}
