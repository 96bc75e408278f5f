// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

const defaultPrimaryKey = "id"

type rowRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRowRepository returns the SQLite-backed [SyncStore].
func NewRowRepository(db *DB, logger *logger.Logger) SyncStore {
	return &rowRepository{
		db:     db,
		logger: logger,
	}
}

type columnInfo struct {
	name string
	pk   int
}

func (r *rowRepository) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listTables)
	if err != nil {
		r.logger.Err(err).Str("func", "rowRepository.Tables").Msg("failed to list tables")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if _, internal := internalTables[name]; internal {
			continue
		}
		tables = append(tables, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tables, nil
}

// tableInfo reads the column layout of table. An empty layout means the
// table does not exist.
func (r *rowRepository) tableInfo(ctx context.Context, table string) ([]columnInfo, error) {
	rows, err := r.db.QueryContext(ctx, tableInfo, table)
	if err != nil {
		r.logger.Err(err).
			Str("func", "rowRepository.tableInfo").
			Str("table", table).
			Msg("failed to read table info")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var c columnInfo
		if err = rows.Scan(&c.name, &c.pk); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		cols = append(cols, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	return cols, nil
}

func (r *rowRepository) columnNames(ctx context.Context, table string) ([]string, error) {
	info, err := r.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(info))
	for i, c := range info {
		names[i] = c.name
	}
	return names, nil
}

func (r *rowRepository) Columns(ctx context.Context, table string) ([]string, error) {
	return r.columnNames(ctx, table)
}

func (r *rowRepository) PrimaryKey(ctx context.Context, table string) (string, error) {
	info, err := r.tableInfo(ctx, table)
	if err != nil {
		return "", err
	}

	pk, best := "", 0
	for _, c := range info {
		// pk is the 1-based position inside a composite key
		if c.pk > 0 && (best == 0 || c.pk < best) {
			pk, best = c.name, c.pk
		}
	}
	if pk == "" {
		return defaultPrimaryKey, nil
	}

	return pk, nil
}

func (r *rowRepository) ReadAllRows(ctx context.Context, table string) ([]models.Row, error) {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return nil, err
	}

	orderBy := ""
	if pk, pkErr := r.PrimaryKey(ctx, table); pkErr == nil && contains(cols, pk) {
		orderBy = pk
	}

	query, args, err := buildSelectRowsQuery(table, cols, orderBy)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, "rowRepository.ReadAllRows", table, cols, query, args)
}

func (r *rowRepository) ReadRowsSince(ctx context.Context, table, column string, since models.Timestamp) ([]models.Row, error) {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return nil, err
	}
	if !contains(cols, column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	query, args, err := buildSelectRowsSinceQuery(table, cols, column, since)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, "rowRepository.ReadRowsSince", table, cols, query, args)
}

func (r *rowRepository) ReadColumn(ctx context.Context, table, column string) ([]models.Value, error) {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return nil, err
	}
	if !contains(cols, column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	query, args, err := buildSelectRowsQuery(table, []string{column}, column)
	if err != nil {
		return nil, err
	}

	rows, err := r.query(ctx, "rowRepository.ReadColumn", table, []string{column}, query, args)
	if err != nil {
		return nil, err
	}

	values := make([]models.Value, 0, len(rows))
	for _, row := range rows {
		v, _ := row.Get(column)
		values = append(values, v)
	}

	return values, nil
}

func (r *rowRepository) GetRow(ctx context.Context, table, pkColumn string, pk models.Value) (models.Row, bool, error) {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return nil, false, err
	}
	if !contains(cols, pkColumn) {
		return nil, false, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, pkColumn)
	}

	query, args, err := buildSelectRowQuery(table, cols, pkColumn, pk)
	if err != nil {
		return nil, false, err
	}

	rows, err := r.query(ctx, "rowRepository.GetRow", table, cols, query, args)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0], true, nil
}

func (r *rowRepository) InsertRow(ctx context.Context, table string, row models.Row) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}
	if err := r.checkColumns(ctx, table, row); err != nil {
		return err
	}

	query, args, err := buildInsertRowQuery(table, row)
	if err != nil {
		return err
	}

	_, err = r.exec(ctx, "rowRepository.InsertRow", table, query, args)
	return err
}

func (r *rowRepository) UpdateRow(ctx context.Context, table, pkColumn string, pk models.Value, row models.Row) error {
	row = row.Without(pkColumn)
	if len(row) == 0 {
		return nil
	}
	if err := r.checkColumns(ctx, table, row.Set(pkColumn, pk)); err != nil {
		return err
	}

	query, args, err := buildUpdateRowQuery(table, pkColumn, pk, row)
	if err != nil {
		return err
	}

	_, err = r.exec(ctx, "rowRepository.UpdateRow", table, query, args)
	return err
}

func (r *rowRepository) DeleteRow(ctx context.Context, table, pkColumn string, pk models.Value) (bool, error) {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return false, err
	}
	if !contains(cols, pkColumn) {
		return false, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, pkColumn)
	}

	query, args, err := buildDeleteRowQuery(table, pkColumn, pk)
	if err != nil {
		return false, err
	}

	res, err := r.exec(ctx, "rowRepository.DeleteRow", table, query, args)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

func (r *rowRepository) CurrentSchemaVersion(ctx context.Context) (int64, error) {
	version, err := r.db.SchemaVersion(ctx)
	if err != nil {
		r.logger.Err(err).Str("func", "rowRepository.CurrentSchemaVersion").Msg("failed to read schema version")
		return 0, err
	}
	return version, nil
}

func (r *rowRepository) checkColumns(ctx context.Context, table string, row models.Row) error {
	cols, err := r.columnNames(ctx, table)
	if err != nil {
		return err
	}
	for _, name := range row.Names() {
		if !contains(cols, name) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, name)
		}
	}
	return nil
}

func (r *rowRepository) query(ctx context.Context, fn, table string, cols []string, query string, args []any) ([]models.Row, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).
			Str("func", fn).
			Str("table", table).
			Str("class", string(r.db.errorClassifier.Classify(err))).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			r.logger.Err(err).Str("func", fn).Str("table", table).Msg("failed to scan row")
			return nil, err
		}
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return out, nil
}

func (r *rowRepository) exec(ctx context.Context, fn, table, query string, args []any) (sql.Result, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Debug().
			Err(err).
			Str("func", fn).
			Str("table", table).
			Str("class", string(r.db.errorClassifier.Classify(err))).
			Msg("statement failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return res, nil
}

func scanRow(rows *sql.Rows, cols []string) (models.Row, error) {
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	row := make(models.Row, 0, len(cols))
	for i, name := range cols {
		v, err := models.FromAny(raw[i])
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %w", ErrScanningRows, name, err)
		}
		row = append(row, models.Column{Name: name, Value: v})
	}
	return row, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

