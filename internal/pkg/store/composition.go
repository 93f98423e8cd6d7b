package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/pkg/store/xpgx"
)

var errNoRows = pgx.ErrNoRows

var compositionColumns = []string{"pref_code", "label", "records", "fetched_at"}

type compositionRow struct {
	PrefCode  int       `db:"pref_code"`
	Label     string    `db:"label"`
	Records   []byte    `db:"records"`
	FetchedAt time.Time `db:"fetched_at"`
}

func saveCompositionQuery(prefCode int, composition domain.Composition, fetchedAt time.Time) (sq.InsertBuilder, error) {
	query := builder().Insert(tableCompositions).
		Columns("pref_code", "label", "records", "fetched_at")

	for label, records := range composition {
		recordsJSON, err := sonic.Marshal(records)
		if err != nil {
			return query, fmt.Errorf("failed to marshal records: %w", err)
		}

		query = query.Values(prefCode, string(label), recordsJSON, fetchedAt)
	}

	return query.Suffix(`
on conflict (pref_code, label)
do update
set
	records = excluded.records,
	fetched_at = excluded.fetched_at`), nil
}

func getCompositionQuery(prefCode int, fetchedAfter time.Time) sq.SelectBuilder {
	return builder().Select(compositionColumns...).
		From(tableCompositions).
		Where(sq.And{
			sq.Eq{"pref_code": prefCode},
			sq.Gt{"fetched_at": fetchedAfter},
		})
}

func (s *store) SaveComposition(ctx context.Context, prefCode int, composition domain.Composition) error {
	if len(composition) == 0 {
		return nil
	}

	query, err := saveCompositionQuery(prefCode, composition, s.now())
	if err != nil {
		return err
	}

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		logger.Errorf(ctx, "saveComposition, pref_code-%d: %s", prefCode, err.Error())
		return fmt.Errorf("saveComposition, pref_code-%d: %w", prefCode, err)
	}

	return nil
}

// GetComposition returns the labels of prefCode cached after fetchedAfter.
// A miss yields constants.ErrDBNotFound.
func (s *store) GetComposition(ctx context.Context, prefCode int, fetchedAfter time.Time) (domain.Composition, error) {
	rows, err := xpgx.Selectx[compositionRow](ctx, s.pool, getCompositionQuery(prefCode, fetchedAfter))
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}
	if len(rows) == 0 {
		return nil, wrapErr(errNoRows)
	}

	composition := make(domain.Composition, len(rows))
	for _, row := range rows {
		var records []domain.PopulationRecord
		if err := sonic.Unmarshal(row.Records, &records); err != nil {
			return nil, fmt.Errorf("unmarshal records, pref_code-%d, label-%s: %w", prefCode, row.Label, err)
		}
		composition[domain.StatCategory(row.Label)] = records
	}

	return composition, nil
}

func (s *store) PurgeCompositions(ctx context.Context) (int64, error) {
	tag, err := xpgx.Execx(ctx, s.pool, builder().Delete(tableCompositions))
	if err != nil {
		logger.Errorf(ctx, "purgeCompositions: %s", err.Error())
		return 0, fmt.Errorf("purgeCompositions: %w", err)
	}

	return tag.RowsAffected(), nil
}
