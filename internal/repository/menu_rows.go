package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// MenuRowRepository is the running master table of every generated row.
type MenuRowRepository interface {
	AppendRows(ctx context.Context, runID string, rows []entity.MenuRow) (int, error)
	ListByDate(ctx context.Context, menuDate string) ([]entity.MenuRow, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

type menuRowRepository struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect dialect
	logger  *slog.Logger
}

// OpenMaster opens the master table named by dsn: a postgres:// URL or a SQLite file path.
// The table is created if it does not exist.
func OpenMaster(ctx context.Context, dsn string, logger *slog.Logger) (MenuRowRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &menuRowRepository{logger: logger}
	if IsPostgresDSN(dsn) {
		db, pool, err := OpenPostgres(ctx, DefaultConfig(dsn), logger)
		if err != nil {
			return nil, dbError("connect", err)
		}
		r.db, r.pool, r.dialect = db, pool, dialectPostgres
	} else {
		db, err := OpenSQLite(dsn, logger)
		if err != nil {
			return nil, dbError("open", err)
		}
		r.db, r.dialect = db, dialectSQLite
	}

	if err := r.initSchema(ctx); err != nil {
		_ = r.Close()
		return nil, dbError("init schema", err)
	}
	return r, nil
}

func (r *menuRowRepository) initSchema(ctx context.Context) error {
	idCol, realType, tsType := "id INTEGER PRIMARY KEY AUTOINCREMENT", "REAL", "DATETIME"
	if r.dialect == dialectPostgres {
		idCol, realType, tsType = "id BIGSERIAL PRIMARY KEY", "DOUBLE PRECISION", "TIMESTAMPTZ"
	}
	var cols []string
	for _, f := range constants.NutrientFields() {
		cols = append(cols, fmt.Sprintf("%s %s", columnName(f), realType))
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS menu_rows (
        %s,
        run_id TEXT NOT NULL,
        menu_date TEXT NOT NULL,
        meal TEXT NOT NULL,
        item TEXT NOT NULL,
        %s,
        source TEXT NOT NULL,
        recipe_id TEXT,
        created_at %s NOT NULL
    )`, idCol, strings.Join(cols, ",\n        "), tsType),
		`CREATE INDEX IF NOT EXISTS idx_menu_rows_date ON menu_rows(menu_date)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_rows_run ON menu_rows(run_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func columnName(f constants.NutrientField) string {
	return strings.ToLower(string(f))
}

func (r *menuRowRepository) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if r.dialect == dialectPostgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ", ")
}

func (r *menuRowRepository) selectColumns() []string {
	cols := []string{"menu_date", "meal", "item"}
	for _, f := range constants.NutrientFields() {
		cols = append(cols, columnName(f))
	}
	return append(cols, "source", "recipe_id")
}

// AppendRows inserts rows in one transaction, tagged with runID.
func (r *menuRowRepository) AppendRows(ctx context.Context, runID string, rows []entity.MenuRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	start := time.Now()

	cols := append([]string{"run_id"}, r.selectColumns()...)
	cols = append(cols, "created_at")
	query := fmt.Sprintf("INSERT INTO menu_rows (%s) VALUES (%s)", strings.Join(cols, ", "), r.placeholders(len(cols)))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, dbError("prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, row := range rows {
		args := []any{runID, row.MenuDate, row.Meal, row.Item}
		for _, f := range constants.NutrientFields() {
			args = append(args, nullFloat(row.Value(f)))
		}
		args = append(args, string(row.Source), nullString(row.RecipeID), now)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			r.logger.Error("failed to insert menu row", "item", row.Item, "error", err)
			return 0, dbError("insert", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, dbError("commit", err)
	}

	r.logger.Info("repository.menu_rows.append.ok",
		"run_id", runID,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return len(rows), nil
}

// ListByDate returns the stored rows for a menu date in insertion order.
func (r *menuRowRepository) ListByDate(ctx context.Context, menuDate string) ([]entity.MenuRow, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_rows WHERE menu_date = %s ORDER BY id",
		strings.Join(r.selectColumns(), ", "), r.placeholders(1))
	rs, err := r.db.QueryContext(ctx, query, menuDate)
	if err != nil {
		return nil, dbError("query", err)
	}
	defer func() { _ = rs.Close() }()

	var out []entity.MenuRow
	for rs.Next() {
		var (
			row      entity.MenuRow
			source   string
			recipeID sql.NullString
			values   = make([]sql.NullFloat64, len(constants.NutrientFields()))
		)
		dest := []any{&row.MenuDate, &row.Meal, &row.Item}
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &source, &recipeID)
		if err := rs.Scan(dest...); err != nil {
			return nil, dbError("scan", err)
		}

		n := entity.NewNutrients()
		for i, f := range constants.NutrientFields() {
			if values[i].Valid {
				n.Set(f, values[i].Float64)
			}
		}
		row.SetNutrients(n)
		row.Source = constants.Provenance(source)
		if recipeID.Valid {
			id := recipeID.String
			row.RecipeID = &id
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, dbError("iterate", err)
	}
	return out, nil
}

func (r *menuRowRepository) HealthCheck(ctx context.Context) error {
	return HealthCheck(ctx, r.db, 5*time.Second, r.logger)
}

// Close closes the database connections gracefully.
func (r *menuRowRepository) Close() error {
	r.logger.Debug("closing database connections")
	var err error
	if r.db != nil {
		err = r.db.Close()
	}
	if r.pool != nil {
		r.pool.Close()
	}
	return err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func dbError(op string, err error) error {
	return common.NewAppError(common.CodeDatabase, op, fmt.Errorf("%w: %w", common.ErrDatabase, err))
}
