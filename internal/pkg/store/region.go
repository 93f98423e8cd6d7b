package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/pkg/store/xpgx"
)

var regionsColumns = []string{"code", "name", "position", "fetched_at"}

type regionRow struct {
	Code      int       `db:"code"`
	Name      string    `db:"name"`
	Position  int       `db:"position"`
	FetchedAt time.Time `db:"fetched_at"`
}

func upsertRegionsQuery(regions []domain.Region, fetchedAt time.Time) sq.InsertBuilder {
	query := builder().Insert(tableRegions).
		Columns("code", "name", "position", "fetched_at")

	for i, r := range regions {
		query = query.Values(r.Code, r.Name, i, fetchedAt)
	}

	return query.Suffix(`
on conflict (code)
do update
set
	name = excluded.name,
	position = excluded.position,
	fetched_at = excluded.fetched_at`)
}

func listRegionsQuery(fetchedAfter time.Time) sq.SelectBuilder {
	return builder().Select(regionsColumns...).
		From(tableRegions).
		Where(sq.Gt{"fetched_at": fetchedAfter}).
		OrderBy("position")
}

func (s *store) UpsertRegions(ctx context.Context, regions []domain.Region) error {
	if len(regions) == 0 {
		return nil
	}

	if _, err := xpgx.Execx(ctx, s.pool, upsertRegionsQuery(regions, s.now())); err != nil {
		logger.Errorf(ctx, "upsertRegions: %s", err.Error())
		return fmt.Errorf("upsertRegions: %w", err)
	}

	return nil
}

// ListRegions returns cached regions fetched after fetchedAfter, in upstream order,
// without selection state. An empty cache yields constants.ErrDBNotFound.
func (s *store) ListRegions(ctx context.Context, fetchedAfter time.Time) ([]domain.Region, error) {
	rows, err := xpgx.Selectx[regionRow](ctx, s.pool, listRegionsQuery(fetchedAfter))
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}
	if len(rows) == 0 {
		return nil, wrapErr(errNoRows)
	}

	regions := make([]domain.Region, 0, len(rows))
	for _, row := range rows {
		regions = append(regions, domain.Region{Code: row.Code, Name: row.Name})
	}

	return regions, nil
}
