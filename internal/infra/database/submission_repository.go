package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/unic-leads/internal/entity"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

type Dialect struct {
	Name          string
	TimestampType string
	placeholder   func(n int) string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
		return Dialect{
			Name:          driver,
			TimestampType: "TIMESTAMPTZ",
			placeholder:   func(n int) string { return "$" + strconv.Itoa(n) },
		}, nil
	case DriverSQLite:
		return Dialect{
			Name:          driver,
			TimestampType: "TIMESTAMP",
			placeholder:   func(int) string { return "?" },
		}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = d.placeholder(i + 1)
	}
	return strings.Join(ps, ", ")
}

// SubmissionRepository is the SQL flavour of the primary store: one row per
// submission, insert only.
type SubmissionRepository struct {
	DB      *sql.DB
	dialect Dialect
	table   string

	newID func() string
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewSubmissionRepository(db *sql.DB, driver, table string) (*SubmissionRepository, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SubmissionRepository{
		DB:      db,
		dialect: dialect,
		table:   table,
		newID:   uuid.NewString,
		now:     time.Now,
	}, nil
}

func (r *SubmissionRepository) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id          TEXT PRIMARY KEY,
			full_name   TEXT NOT NULL,
			birth_date  TEXT NOT NULL,
			phone       TEXT NOT NULL,
			telegram    TEXT NOT NULL DEFAULT '',
			source      TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'new',
			user_agent  TEXT NOT NULL DEFAULT '',
			referrer    TEXT NOT NULL DEFAULT 'direct',
			created_at  %[2]s NOT NULL
		)`, r.table, r.dialect.TimestampType)

	if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s (created_at)`, r.table)
	if _, err := r.DB.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create index on %s: %w", r.table, err)
	}
	return nil
}

func (r *SubmissionRepository) Create(ctx context.Context, s entity.Submission) (*entity.StoredSubmission, error) {
	stored := entity.NewStoredSubmission(s, r.newID(), r.nextCreatedAt(), entity.ClientMetaFrom(ctx))

	query := fmt.Sprintf(`
		INSERT INTO %s (id, full_name, birth_date, phone, telegram, source, status, user_agent, referrer, created_at)
		VALUES (%s)`, r.table, r.dialect.placeholders(10))

	_, err := r.DB.ExecContext(ctx, query,
		stored.ID,
		stored.FullName,
		stored.BirthDate,
		stored.Phone,
		stored.Telegram,
		stored.Source,
		string(stored.Status),
		stored.UserAgent,
		stored.Referrer,
		stored.CreatedAt,
	)
	if err != nil {
		return nil, usecase.NewStoreUnavailableError("insert into "+r.table, err)
	}

	return stored, nil
}

// nextCreatedAt never goes backwards, even if the wall clock does.
func (r *SubmissionRepository) nextCreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC().Truncate(time.Microsecond)
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}
