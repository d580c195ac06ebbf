package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

const schema = `
	CREATE TABLE IF NOT EXISTS domains (
		id SERIAL PRIMARY KEY,
		domain TEXT NOT NULL UNIQUE,
		redirect_data JSONB,
		broken_links_data JSONB,
		security_data JSONB,
		robots_data JSONB,
		ai_data JSONB,
		whois_data JSONB,
		last_scanned_at TIMESTAMPTZ DEFAULT NOW(),
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS domains_last_scanned_at_idx ON domains (last_scanned_at DESC);
`

const domainColumns = `id, domain, redirect_data, broken_links_data, security_data, robots_data, ai_data, whois_data, last_scanned_at, created_at`

// DomainRepoImpl provides a concrete implementation for the DomainRepository interface using PostgreSQL.
type DomainRepoImpl struct {
	db *pgxpool.Pool
}

// NewDomainRepo creates a new instance of DomainRepoImpl.
func NewDomainRepo(db *pgxpool.Pool) *DomainRepoImpl {
	return &DomainRepoImpl{db: db}
}

// EnsureSchema creates the domains table if it does not exist yet.
func (r *DomainRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure domains schema: %w", err)
	}
	return nil
}

func (r *DomainRepoImpl) GetDomain(ctx context.Context, domain string) (*entity.DomainReport, error) {
	row := r.db.QueryRow(ctx, `SELECT `+domainColumns+` FROM domains WHERE domain = $1`, domain)
	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrDomainNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", domain, err)
	}
	return report, nil
}

func (r *DomainRepoImpl) GetRecentDomains(ctx context.Context, limit int) ([]*entity.DomainReport, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+domainColumns+` FROM domains
		 ORDER BY last_scanned_at DESC NULLS LAST, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent domains: %w", err)
	}
	defer rows.Close()

	reports := []*entity.DomainReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain row: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// UpsertDomain merges in a single statement: slots passed as NULL keep the
// stored value, so concurrent scans of one domain cannot erase each other.
// last_scanned_at uses clock_timestamp() so it is taken after the row lock
// and follows commit order, which the report cache relies on.
func (r *DomainRepoImpl) UpsertDomain(ctx context.Context, update *entity.DomainUpdate) (*entity.DomainReport, error) {
	query := `
		INSERT INTO domains (domain, redirect_data, broken_links_data, security_data, robots_data, ai_data, whois_data, last_scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, clock_timestamp())
		ON CONFLICT (domain) DO UPDATE SET
			redirect_data = COALESCE(EXCLUDED.redirect_data, domains.redirect_data),
			broken_links_data = COALESCE(EXCLUDED.broken_links_data, domains.broken_links_data),
			security_data = COALESCE(EXCLUDED.security_data, domains.security_data),
			robots_data = COALESCE(EXCLUDED.robots_data, domains.robots_data),
			ai_data = COALESCE(EXCLUDED.ai_data, domains.ai_data),
			whois_data = COALESCE(EXCLUDED.whois_data, domains.whois_data),
			last_scanned_at = clock_timestamp()
		RETURNING ` + domainColumns

	row := r.db.QueryRow(ctx, query,
		update.Domain,
		jsonParam(update.RedirectData),
		jsonParam(update.BrokenLinksData),
		jsonParam(update.SecurityData),
		jsonParam(update.RobotsData),
		jsonParam(update.AIData),
		jsonParam(update.WhoisData),
	)
	report, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("upsert domain %s: %w", update.Domain, err)
	}
	return report, nil
}

func (r *DomainRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// jsonParam maps a nil slot to SQL NULL and anything else to JSON text.
func jsonParam(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}

func scanReport(row pgx.Row) (*entity.DomainReport, error) {
	var report entity.DomainReport
	var redirect, brokenLinks, security, robots, ai, whois []byte
	err := row.Scan(
		&report.ID,
		&report.Domain,
		&redirect,
		&brokenLinks,
		&security,
		&robots,
		&ai,
		&whois,
		&report.LastScannedAt,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.RedirectData = rawOrNil(redirect)
	report.BrokenLinksData = rawOrNil(brokenLinks)
	report.SecurityData = rawOrNil(security)
	report.RobotsData = rawOrNil(robots)
	report.AIData = rawOrNil(ai)
	report.WhoisData = rawOrNil(whois)
	return &report, nil
}

func rawOrNil(b []byte) json.RawMessage {
	if b == nil {
		return nil
	}
	return json.RawMessage(b)
}
