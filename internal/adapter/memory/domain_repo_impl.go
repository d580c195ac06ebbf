package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

// DomainRepoImpl keeps reports in process memory. It backs the service when
// no PostgreSQL URL is configured and doubles as a test store.
type DomainRepoImpl struct {
	mu      sync.RWMutex
	reports map[string]*entity.DomainReport
	nextID  int64
	now     func() time.Time
}

func NewDomainRepo() *DomainRepoImpl {
	return &DomainRepoImpl{
		reports: make(map[string]*entity.DomainReport),
		now:     time.Now,
	}
}

// WithClock replaces the time source used for scan timestamps.
func (r *DomainRepoImpl) WithClock(now func() time.Time) *DomainRepoImpl {
	r.now = now
	return r
}

func (r *DomainRepoImpl) GetDomain(ctx context.Context, domain string) (*entity.DomainReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[domain]
	if !ok {
		return nil, repository.ErrDomainNotFound
	}
	return clone(report), nil
}

func (r *DomainRepoImpl) GetRecentDomains(ctx context.Context, limit int) ([]*entity.DomainReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*entity.DomainReport, 0, len(r.reports))
	for _, report := range r.reports {
		list = append(list, clone(report))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].LastScannedAt, list[j].LastScannedAt
		if a.Equal(*b) {
			return list[i].ID > list[j].ID
		}
		return a.After(*b)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// UpsertDomain merges under the write lock, so concurrent scans of the same
// domain never drop each other's slots.
func (r *DomainRepoImpl) UpsertDomain(ctx context.Context, update *entity.DomainUpdate) (*entity.DomainReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[update.Domain]
	if !ok {
		r.nextID++
		report = &entity.DomainReport{ID: r.nextID}
		r.reports[update.Domain] = report
	}
	update.ApplyTo(report, r.now().UTC())
	return clone(report), nil
}

func (r *DomainRepoImpl) Ping(ctx context.Context) error {
	return nil
}

func clone(r *entity.DomainReport) *entity.DomainReport {
	c := *r
	return &c
}
