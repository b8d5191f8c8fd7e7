package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// Execer runs a statement. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Column describes one table column.
type Column struct {
	Name string
	Type string
}

// Table describes a table to create. ConflictKey is the unique column seeds deduplicate on.
type Table struct {
	Name        string
	Columns     []Column
	ConflictKey string
}

// OptionTable is a value/label lookup table.
func OptionTable(name string) Table {
	return Table{
		Name: name,
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"value", "VARCHAR(50) NOT NULL UNIQUE"},
			{"label", "VARCHAR(50) NOT NULL"},
		},
		ConflictKey: "value",
	}
}

// NameTable is a lookup table of people.
func NameTable(name string) Table {
	return Table{
		Name: name,
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"name", "VARCHAR(100) NOT NULL UNIQUE"},
		},
		ConflictKey: "name",
	}
}

// TicketTable stores tickets keyed by their display id.
func TicketTable() Table {
	return Table{
		Name: "ticket",
		Columns: []Column{
			{"id", "SERIAL PRIMARY KEY"},
			{"ticket_id", "VARCHAR(50) NOT NULL UNIQUE"},
			{"name", "TEXT NOT NULL"},
			{"severity", "VARCHAR(50) NOT NULL"},
			{"status", "VARCHAR(50) NOT NULL"},
			{"assignee", "VARCHAR(100) NOT NULL"},
			{"priority", "VARCHAR(50) NOT NULL"},
			{"due_date", "VARCHAR(50) NOT NULL"},
			{"category", "VARCHAR(50) NOT NULL"},
			{"environment", "VARCHAR(50) NOT NULL"},
			{"estimated_time", "VARCHAR(50) NOT NULL"},
			{"reporter", "VARCHAR(100) NOT NULL"},
		},
		ConflictKey: "ticket_id",
	}
}

// DefaultTables lists every table the admin panel needs, in creation order.
func DefaultTables() []Table {
	tables := make([]Table, 0, len(domain.OptionCategories)+3)
	for _, c := range domain.OptionCategories {
		tables = append(tables, OptionTable(string(c)))
	}
	tables = append(tables, NameTable(string(domain.NamesAssignee)), NameTable(string(domain.NamesReporter)))
	return append(tables, TicketTable())
}

// CreateTableSQL renders an idempotent CREATE TABLE statement.
func CreateTableSQL(t Table) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = pgx.Identifier{c.Name}.Sanitize() + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgx.Identifier{t.Name}.Sanitize(), strings.Join(cols, ", "))
}

// EnsureSchema creates any missing tables. Existing tables are left alone.
func EnsureSchema(ctx context.Context, db Execer, tables []Table) error {
	if db == nil {
		return ErrNoDatabase
	}
	for _, t := range tables {
		if _, err := db.Exec(ctx, CreateTableSQL(t)); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// Seed is a batch of rows for one table.
type Seed struct {
	Table   Table
	Columns []string
	Rows    [][]any
}

// SeedSQL renders a multi-row insert that skips rows conflicting on the table's unique key.
func SeedSQL(s Seed) (string, []any) {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}

	args := make([]any, 0, len(s.Rows)*len(s.Columns))
	tuples := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		ph := make([]string, len(row))
		for j, v := range row {
			args = append(args, v)
			ph[j] = fmt.Sprintf("$%d", len(args))
		}
		tuples[i] = "(" + strings.Join(ph, ",") + ")"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING",
		pgx.Identifier{s.Table.Name}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(tuples, ", "),
		pgx.Identifier{s.Table.ConflictKey}.Sanitize(),
	)
	return query, args
}

// SeedDefaults inserts rows, skipping ones that already exist. It returns the number inserted.
func SeedDefaults(ctx context.Context, db Execer, s Seed) (int64, error) {
	if db == nil {
		return 0, ErrNoDatabase
	}
	if len(s.Rows) == 0 {
		return 0, nil
	}
	query, args := SeedSQL(s)
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", s.Table.Name, err)
	}
	return tag.RowsAffected(), nil
}

// DefaultSeeds returns the built-in option and people rows.
func DefaultSeeds() []Seed {
	seeds := make([]Seed, 0, len(domain.OptionCategories)+2)
	for _, c := range domain.OptionCategories {
		rows := make([][]any, 0, len(domain.DefaultOptions[c]))
		for _, o := range domain.DefaultOptions[c] {
			rows = append(rows, []any{o.Value, o.Label})
		}
		seeds = append(seeds, Seed{Table: OptionTable(string(c)), Columns: []string{"value", "label"}, Rows: rows})
	}
	for _, k := range []domain.NameKind{domain.NamesAssignee, domain.NamesReporter} {
		rows := make([][]any, 0, len(domain.DefaultNames[k]))
		for _, n := range domain.DefaultNames[k] {
			rows = append(rows, []any{n})
		}
		seeds = append(seeds, Seed{Table: NameTable(string(k)), Columns: []string{"name"}, Rows: rows})
	}
	return seeds
}

// TicketSeed converts tickets into rows for the ticket table.
func TicketSeed(tickets []domain.Ticket) Seed {
	rows := make([][]any, len(tickets))
	for i, t := range tickets {
		rows[i] = []any{
			t.ID, t.Name, string(t.Severity), string(t.Status), t.Assignee, string(t.Priority),
			t.DueDate, string(t.Category), string(t.Environment), t.EstimatedTime, t.Reporter,
		}
	}
	return Seed{
		Table: TicketTable(),
		Columns: []string{
			"ticket_id", "name", "severity", "status", "assignee", "priority",
			"due_date", "category", "environment", "estimated_time", "reporter",
		},
		Rows: rows,
	}
}
