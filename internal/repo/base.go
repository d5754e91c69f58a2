// Package repo holds small gorm helpers shared by the SQL-backed stores.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table is a typed handle on the table that T maps to.
type Table[T any] struct {
	db *gorm.DB
}

func NewTable[T any](db *gorm.DB) Table[T] {
	return Table[T]{db: db}
}

// DB binds ctx to the connection. A nil ctx returns the raw handle.
func (t Table[T]) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return t.db
	}
	return t.db.WithContext(ctx)
}

// Find loads the first row matching where. A miss is (zero, false, nil).
func (t Table[T]) Find(ctx context.Context, where string, args ...any) (T, bool, error) {
	var row T
	err := t.DB(ctx).Where(where, args...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, false, nil
	}
	return row, err == nil, err
}

// Upsert inserts row, or overwrites the update columns of the row that
// already holds the same key.
func (t Table[T]) Upsert(ctx context.Context, row *T, key []string, update []string) error {
	conflict := clause.OnConflict{DoUpdates: clause.AssignmentColumns(update)}
	for _, name := range key {
		conflict.Columns = append(conflict.Columns, clause.Column{Name: name})
	}
	return t.DB(ctx).Clauses(conflict).Create(row).Error
}

// DeleteWhere removes matching rows and reports how many went.
func (t Table[T]) DeleteWhere(ctx context.Context, where string, args ...any) (int64, error) {
	var model T
	res := t.DB(ctx).Where(where, args...).Delete(&model)
	return res.RowsAffected, res.Error
}

// Ping checks the pool under the handle.
func (t Table[T]) Ping(ctx context.Context) error {
	pool, err := t.db.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}
