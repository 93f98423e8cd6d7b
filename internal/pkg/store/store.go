package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store caches upstream population data in Postgres.
type Store interface {
	UpsertRegions(ctx context.Context, regions []domain.Region) error
	ListRegions(ctx context.Context, fetchedAfter time.Time) ([]domain.Region, error)
	SaveComposition(ctx context.Context, prefCode int, composition domain.Composition) error
	GetComposition(ctx context.Context, prefCode int, fetchedAfter time.Time) (domain.Composition, error)
	PurgeCompositions(ctx context.Context) (int64, error)
}

type store struct {
	pool Pool
	now  func() time.Time
}

func NewStore(pool Pool) Store {
	return &store{pool: pool, now: time.Now}
}

const schema = `
create table if not exists regions (
	code       integer primary key,
	name       text not null,
	position   integer not null,
	fetched_at timestamptz not null default now()
);

create table if not exists compositions (
	pref_code  integer not null,
	label      text not null,
	records    jsonb not null,
	fetched_at timestamptz not null default now(),
	primary key (pref_code, label)
);`

// Migrate creates the cache tables if they do not exist yet.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cache tables: %w", err)
	}
	return nil
}
