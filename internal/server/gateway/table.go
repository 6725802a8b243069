package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// collectionSpec whitelists a logical collection: its table name, the
// columns callers may touch, and the upsert conflict column. Everything not
// listed here is rejected, which keeps caller-supplied identifiers out of
// the generated SQL.
type collectionSpec struct {
	table    string
	columns  map[string]struct{}
	conflict string
}

func cols(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

var collections = map[string]collectionSpec{
	"profiles": {
		table:    "profiles",
		columns:  cols("user_id", "email", "display_name", "avatar_url", "cover_url", "updated_at"),
		conflict: "user_id",
	},
	// Legacy collection name kept for callers that predate the rename.
	"user_profiles": {
		table:    "profiles",
		columns:  cols("user_id", "email", "display_name", "avatar_url", "cover_url", "updated_at"),
		conflict: "user_id",
	},
	"investors": {
		table:    "investors",
		columns:  cols("id", "user_id", "full_name", "country", "net_worth", "created_at"),
		conflict: "user_id",
	},
	"investment_profiles": {
		table:    "investment_profiles",
		columns:  cols("id", "investor_id", "risk_tolerance", "horizon_years", "annual_income", "created_at"),
		conflict: "investor_id",
	},
	"user_notifications": {
		table:    "user_notifications",
		columns:  cols("id", "user_id", "title", "message", "kind", "read", "action_url", "created_at", "expires_at"),
		conflict: "id",
	},
}

// TableGateway implements remote.Table by generating SQL against the
// whitelisted collections.
type TableGateway struct {
	db dbx.DBTX
}

// NewTableGateway constructs a table gateway bound to the given DBTX.
func NewTableGateway(db dbx.DBTX) *TableGateway {
	return &TableGateway{db: db}
}

// MaybeSingle returns at most one matching row, or nil with no error when
// nothing matches.
func (g *TableGateway) MaybeSingle(ctx context.Context, collection string, filters []remote.Filter, columns ...string) (remote.Row, error) {
	rows, err := g.Select(ctx, collection, filters, "", false, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(columns) > 0 {
		trimmed := remote.Row{}
		for _, c := range columns {
			trimmed[c] = rows[0][c]
		}
		return trimmed, nil
	}
	return rows[0], nil
}

// Select returns matching rows with all whitelisted columns.
func (g *TableGateway) Select(ctx context.Context, collection string, filters []remote.Filter, orderBy string, desc bool, limit int) ([]remote.Row, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return nil, err
	}

	selected := sortedColumns(spec)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(selected, ", "), spec.table)

	args, err := appendWhere(&sb, spec, filters)
	if err != nil {
		return nil, err
	}

	if orderBy != "" {
		if _, ok := spec.columns[orderBy]; !ok {
			return nil, fmt.Errorf("unknown column %q in collection %q", orderBy, collection)
		}
		direction := "ASC"
		if desc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, direction)
	}
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := g.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []remote.Row
	for rows.Next() {
		values := make([]any, len(selected))
		ptrs := make([]any, len(selected))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := remote.Row{}
		for i, c := range selected {
			row[c] = normalize(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts row, updating the existing row on a conflict on
// conflictColumn. When conflictColumn is empty the collection's default is
// used.
func (g *TableGateway) Upsert(ctx context.Context, collection string, row remote.Row, conflictColumn string) error {
	spec, err := lookupCollection(collection)
	if err != nil {
		return err
	}
	if conflictColumn == "" {
		conflictColumn = spec.conflict
	}
	if _, ok := spec.columns[conflictColumn]; !ok {
		return fmt.Errorf("unknown column %q in collection %q", conflictColumn, collection)
	}

	names := make([]string, 0, len(row))
	for name := range row {
		if _, ok := spec.columns[name]; !ok {
			return fmt.Errorf("unknown column %q in collection %q", name, collection)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	placeholders := make([]string, len(names))
	updates := make([]string, 0, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[name]
		if name != conflictColumn {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", name, name))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		spec.table, strings.Join(names, ", "), strings.Join(placeholders, ", "),
		conflictColumn, strings.Join(updates, ", "),
	)

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes all rows matching the filters. At least one filter is
// required; a full-table delete is never what a client meant.
func (g *TableGateway) Delete(ctx context.Context, collection string, filters []remote.Filter) error {
	spec, err := lookupCollection(collection)
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("delete from %q requires filters", collection)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "DELETE FROM %s", spec.table)
	args, err := appendWhere(&sb, spec, filters)
	if err != nil {
		return err
	}

	if _, err := g.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func lookupCollection(name string) (collectionSpec, error) {
	spec, ok := collections[name]
	if !ok {
		return collectionSpec{}, fmt.Errorf("unknown collection %q", name)
	}
	return spec, nil
}

func sortedColumns(spec collectionSpec) []string {
	out := make([]string, 0, len(spec.columns))
	for c := range spec.columns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func appendWhere(sb *strings.Builder, spec collectionSpec, filters []remote.Filter) ([]any, error) {
	var args []any
	for i, f := range filters {
		if _, ok := spec.columns[f.Column]; !ok {
			return nil, fmt.Errorf("unknown column %q in collection %q", f.Column, spec.table)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(sb, "%s = $%d", f.Column, len(args))
	}
	return args, nil
}

// normalize maps driver-native values to the gateway's documented Go types.
func normalize(v any) any {
	switch value := v.(type) {
	case []byte:
		return string(value)
	default:
		return v
	}
}
