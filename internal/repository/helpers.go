package repository

import (
	"context"
	"strings"
	"time"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// now is the timestamp written to created_at/updated_at.  DATETIME keeps
// whole seconds, so the value is truncated to keep what callers hold equal
// to what the store returns.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

// taken reports whether a row other than excludeID already holds value in
// column.  table and column always come from constants in this package.
func taken(ctx context.Context, q Querier, table, column, value string, excludeID uint64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE "+column+" = ? AND id <> ?",
		value, excludeID).Scan(&n)
	return n > 0, err
}

// exists reports whether table has a row with the given id.
func exists(ctx context.Context, q Querier, table string, id uint64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n)
	return n > 0, err
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s literally anywhere in
// the value.  Queries using it must declare ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
