package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planforge/internal/db"
	"github.com/alexanderramin/planforge/internal/domain"
)

// planColumns is the canonical SELECT column list for plans.
const planColumns = `id, name, version, description, hierarchy, category, tags, target_date,
		environment, status, node_count, completion, preview_central, preview_branches,
		created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	args, err := planArgs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO plans (name, version, description, hierarchy, category, tags, target_date,
		environment, status, node_count, completion, preview_central, preview_branches,
		created_at, updated_at, id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, append(args, formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt), p.ID)...); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	if err := r.insertHistory(ctx, p); err != nil {
		return err
	}
	return r.insertNodes(ctx, p.ID, p.Nodes)
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if p.StatusHistory, err = r.loadHistory(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Nodes, err = r.loadNodes(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) List(ctx context.Context, includeClosed bool) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status = 'active' ORDER BY created_at, name`
	if includeClosed {
		query = `SELECT ` + planColumns + ` FROM plans ORDER BY created_at, name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	args, err := planArgs(p)
	if err != nil {
		return err
	}
	query := `UPDATE plans SET name = ?, version = ?, description = ?, hierarchy = ?, category = ?,
		tags = ?, target_date = ?, environment = ?, status = ?, node_count = ?, completion = ?,
		preview_central = ?, preview_branches = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, append(args, formatTimestamp(p.UpdatedAt), p.ID)...)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", p.ID, ErrNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_status_history WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plan history: %w", err)
	}
	if err := r.insertHistory(ctx, p); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_nodes WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plan nodes: %w", err)
	}
	return r.insertNodes(ctx, p.ID, p.Nodes)
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

// planArgs returns the mutable plan columns in INSERT/UPDATE order.
func planArgs(p *domain.Plan) ([]any, error) {
	tags, err := encodeStrings(p.Tags)
	if err != nil {
		return nil, err
	}
	branches, err := encodeStrings(p.Preview.Branches)
	if err != nil {
		return nil, err
	}
	return []any{
		p.Name,
		p.Version,
		p.Description,
		string(p.Hierarchy),
		string(p.Category),
		tags,
		nullableTimeToString(p.TargetDate, dateLayout),
		string(p.Environment),
		string(p.Status),
		p.NodeCount,
		p.Completion,
		p.Preview.CentralNode,
		branches,
	}, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var hierarchy, category, tags, environment, status, branches, createdAt, updatedAt string
	var targetDate sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &p.Version, &p.Description,
		&hierarchy, &category, &tags, &targetDate,
		&environment, &status, &p.NodeCount, &p.Completion,
		&p.Preview.CentralNode, &branches,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Hierarchy = domain.Hierarchy(hierarchy)
	p.Category = domain.Category(category)
	p.Environment = domain.Environment(environment)
	p.Status = domain.PlanStatus(status)
	p.TargetDate = parseNullableTime(targetDate, dateLayout)

	if p.Tags, err = decodeStrings(tags); err != nil {
		return nil, fmt.Errorf("plan %s tags: %w", p.ID, err)
	}
	if p.Preview.Branches, err = decodeStrings(branches); err != nil {
		return nil, fmt.Errorf("plan %s preview: %w", p.ID, err)
	}
	if p.Preview.Branches == nil {
		p.Preview.Branches = []string{}
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
