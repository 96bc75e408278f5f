// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/wiredsync/models"
)

const (
	listTables = `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name;`

	tableInfo = `SELECT name, pk FROM pragma_table_info(?) ORDER BY cid;`

	getSetting = `SELECT value FROM sync_settings WHERE key = ?;`

	setSetting = `INSERT INTO sync_settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`
)

// internalTables are bookkeeping tables that never take part in sync.
var internalTables = map[string]struct{}{
	"goose_db_version": {},
	"sync_settings":    {},
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// quoteIdent wraps an identifier in double quotes. Identifiers are checked
// against the live schema before they reach this point.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func buildSelectRowsQuery(table string, columns []string, orderBy string) (string, []any, error) {
	q := builder.Select(quoteAll(columns)...).From(quoteIdent(table))
	if orderBy != "" {
		q = q.OrderBy(quoteIdent(orderBy))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectRowsSinceQuery selects rows changed at or after since. The bound
// is floored to the whole second because CURRENT_TIMESTAMP defaults carry no
// fraction; rows at the boundary are sent again and merged as no-ops.
func buildSelectRowsSinceQuery(table string, columns []string, column string, since models.Timestamp) (string, []any, error) {
	bound := models.NewTimestamp(since.Time().Truncate(time.Second))
	query, args, err := builder.Select(quoteAll(columns)...).
		From(quoteIdent(table)).
		Where(sq.Expr("julianday("+quoteIdent(column)+") >= julianday(?)", bound.String())).
		OrderBy(quoteIdent(column)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectRowQuery(table string, columns []string, pkColumn string, pk models.Value) (string, []any, error) {
	query, args, err := builder.Select(quoteAll(columns)...).
		From(quoteIdent(table)).
		Where(sq.Eq{quoteIdent(pkColumn): pk.Any()}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertRowQuery(table string, row models.Row) (string, []any, error) {
	values := make([]any, len(row))
	for i, c := range row {
		values[i] = c.Value.Any()
	}
	query, args, err := builder.Insert(quoteIdent(table)).
		Columns(quoteAll(row.Names())...).
		Values(values...).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateRowQuery(table, pkColumn string, pk models.Value, row models.Row) (string, []any, error) {
	q := builder.Update(quoteIdent(table))
	for _, c := range row {
		q = q.Set(quoteIdent(c.Name), c.Value.Any())
	}
	query, args, err := q.Where(sq.Eq{quoteIdent(pkColumn): pk.Any()}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteRowQuery(table, pkColumn string, pk models.Value) (string, []any, error) {
	query, args, err := builder.Delete(quoteIdent(table)).
		Where(sq.Eq{quoteIdent(pkColumn): pk.Any()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
