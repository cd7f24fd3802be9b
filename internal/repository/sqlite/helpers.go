package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	pkgerrors "github.com/pkg/errors"
	"github.com/vytor/phrasecards/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	return nil
}

// getBlob decodes the JSON value stored under key into dst. found is false
// when the key has never been written.
func getBlob(ctx context.Context, db *sql.DB, key string, dst any) (found bool, err error) {
	query, args, err := sqlBuilder.Select("value").From("kv_state").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return false, pkgerrors.Wrap(err, "build select")
	}

	var raw string
	err = db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrapf(err, "read %s", key)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, pkgerrors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

// putBlob replaces the snapshot stored under key inside one transaction.
func putBlob(ctx context.Context, db *sql.DB, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrapf(err, "encode %s", key)
	}

	query, args, err := sqlBuilder.Insert("kv_state").
		Columns("key", "value").
		Values(key, string(raw)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "build upsert")
	}

	return tx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return pkgerrors.Wrapf(err, "write %s", key)
	})
}
