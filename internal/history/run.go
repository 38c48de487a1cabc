package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one recorded scatter report.
type Run struct {
	Seq              int64     `json:"seq"`
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Parameter        string    `json:"parameter"`
	N                int       `json:"n"`
	R2               float64   `json:"r2"`
	RelativeError    float64   `json:"relative_error"`
	ChiSquared       float64   `json:"chi_squared"`
	Fraction1Sigma   float64   `json:"fraction_1sigma"`
	Fraction2Sigma   float64   `json:"fraction_2sigma"`
	ExcludedRelative int       `json:"excluded_relative,omitempty"`
	ExcludedChi2     int       `json:"excluded_chi2,omitempty"`
	ImagePath        string    `json:"image_path"`
}

// IDGenerator produces run ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, for tests.
// After the list is exhausted it returns "run-<n>".
type FixedGenerator struct {
	IDs  []string
	next int
}

func (g *FixedGenerator) Generate() string {
	defer func() { g.next++ }()
	if g.next < len(g.IDs) {
		return g.IDs[g.next]
	}
	return fmt.Sprintf("run-%d", g.next)
}

// NewRun builds a Run from a summary.
func NewRun(id string, s *analysis.Summary, imagePath string, at time.Time) Run {
	return Run{
		ID:               id,
		CreatedAt:        at.UTC(),
		Parameter:        s.Parameter,
		N:                s.N,
		R2:               s.R2,
		RelativeError:    s.RelativeError,
		ChiSquared:       s.ChiSquared,
		Fraction1Sigma:   s.Fraction1Sigma,
		Fraction2Sigma:   s.Fraction2Sigma,
		ExcludedRelative: s.ExcludedRelative,
		ExcludedChi2:     s.ExcludedChi2,
		ImagePath:        imagePath,
	}
}

// Record inserts a run and returns it with Seq assigned.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		return Run{}, fmt.Errorf("record run: id is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, parameter, n, r2, relative_error, chi_squared,
		 fraction_1sigma, fraction_2sigma, excluded_relative, excluded_chi2, image_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Parameter,
		run.N,
		run.R2,
		run.RelativeError,
		run.ChiSquared,
		run.Fraction1Sigma,
		run.Fraction2Sigma,
		run.ExcludedRelative,
		run.ExcludedChi2,
		run.ImagePath,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	run.Seq = seq
	return run, nil
}

const selectRun = `
	SELECT seq, id, created_at, parameter, n, r2, relative_error, chi_squared,
	       fraction_1sigma, fraction_2sigma, excluded_relative, excluded_chi2, image_path
	FROM runs`

// Get returns the run with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs first. An empty parameter lists all
// parameters; limit <= 0 returns every row.
func (s *Store) List(ctx context.Context, parameter string, limit int) ([]Run, error) {
	query := selectRun
	var args []any
	if parameter != "" {
		query += ` WHERE parameter = ?`
		args = append(args, parameter)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var created string
	err := sc.Scan(
		&run.Seq,
		&run.ID,
		&created,
		&run.Parameter,
		&run.N,
		&run.R2,
		&run.RelativeError,
		&run.ChiSquared,
		&run.Fraction1Sigma,
		&run.Fraction2Sigma,
		&run.ExcludedRelative,
		&run.ExcludedChi2,
		&run.ImagePath,
	)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return run, nil
}
