package population

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgehrsitz/bia/internal/domain"
)

const sampleQuery = `
	SELECT id, age, sex, bmi, has_diabetes
	FROM population_sample
	ORDER BY id
`

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the sample from the population_sample table.
type PostgresSource struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewPostgresSource wraps an existing connection.
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// ConnectPostgres opens a pool for dsn and verifies it.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresSource{db: pool, pool: pool}, nil
}

// Close releases the pool if this source opened it.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Load reads and validates every sampled member ordered by id.
func (s *PostgresSource) Load(ctx context.Context) ([]domain.Member, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := s.db.Query(ctx, sampleQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query population sample: %w", err)
	}

	members, err := pgx.CollectRows(rows, scanMember)
	if err != nil {
		return nil, fmt.Errorf("failed to read population sample: %w", err)
	}
	if err := Validate(members); err != nil {
		return nil, err
	}
	return members, nil
}

func scanMember(row pgx.CollectableRow) (domain.Member, error) {
	var m domain.Member
	var sex int
	if err := row.Scan(&m.ID, &m.Age, &sex, &m.BMI, &m.HasDiabetes); err != nil {
		return m, err
	}
	m.Sex = domain.Sex(sex)
	return m, nil
}
