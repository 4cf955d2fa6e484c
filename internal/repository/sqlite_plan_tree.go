package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/snapshot"
)

func (r *SQLitePlanRepo) insertHistory(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plan_status_history
		(plan_id, seq, action, reason, user, previous_status, new_status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, h := range p.StatusHistory {
		_, err := r.db.ExecContext(ctx, query,
			p.ID, i, h.Action, h.Reason, h.User,
			string(h.PreviousStatus), string(h.NewStatus), formatTimestamp(h.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("inserting history entry %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) loadHistory(ctx context.Context, planID string) ([]domain.StatusChange, error) {
	query := `SELECT action, reason, user, previous_status, new_status, timestamp
		FROM plan_status_history WHERE plan_id = ? ORDER BY seq, id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan history: %w", err)
	}
	defer rows.Close()

	var history []domain.StatusChange
	for rows.Next() {
		var h domain.StatusChange
		var prev, next, ts string
		if err := rows.Scan(&h.Action, &h.Reason, &h.User, &prev, &next, &ts); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		h.PreviousStatus = domain.PlanStatus(prev)
		h.NewStatus = domain.PlanStatus(next)
		if h.Timestamp, err = parseTimestamp("history timestamp", ts); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// insertNodes writes the forest in pre-order so every parent row exists
// before its children reference it.
func (r *SQLitePlanRepo) insertNodes(ctx context.Context, planID string, nodes []*domain.Node) error {
	query := `INSERT INTO plan_nodes
		(plan_id, id, parent_id, title, kind, color, icon, expanded, order_index, properties)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var insert func(parentID sql.NullString, siblings []*domain.Node) error
	insert = func(parentID sql.NullString, siblings []*domain.Node) error {
		for i, n := range siblings {
			props, err := json.Marshal(snapshot.PropertiesFromDomain(n.Properties))
			if err != nil {
				return fmt.Errorf("encoding properties of node %s: %w", n.ID, err)
			}
			_, err = r.db.ExecContext(ctx, query,
				planID, n.ID, parentID, n.Title, string(n.Kind),
				n.Style.Color, n.Style.Icon, boolToInt(n.Expanded), i, string(props),
			)
			if err != nil {
				return fmt.Errorf("inserting node %s: %w", n.ID, err)
			}
			if err := insert(sql.NullString{String: n.ID, Valid: true}, n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return insert(sql.NullString{}, nodes)
}

// loadNodes reads every node row of a plan and rebuilds the forest from the
// parent links, ordering siblings by order_index.
func (r *SQLitePlanRepo) loadNodes(ctx context.Context, planID string) ([]*domain.Node, error) {
	query := `SELECT id, parent_id, title, kind, color, icon, expanded, properties
		FROM plan_nodes WHERE plan_id = ? ORDER BY order_index, rowid`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan nodes: %w", err)
	}
	defer rows.Close()

	type row struct {
		node   *domain.Node
		parent sql.NullString
	}
	var all []row
	byID := make(map[string]*domain.Node)

	for rows.Next() {
		var n domain.Node
		var parent sql.NullString
		var kind, rawProps string
		var expanded int
		if err := rows.Scan(&n.ID, &parent, &n.Title, &kind, &n.Style.Color, &n.Style.Icon, &expanded, &rawProps); err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}
		n.Kind = domain.Kind(kind)
		n.Expanded = intToBool(expanded)

		var wire snapshot.Properties
		if err := json.Unmarshal([]byte(rawProps), &wire); err != nil {
			return nil, fmt.Errorf("decoding properties of node %s: %w", n.ID, err)
		}
		if n.Properties, err = wire.ToDomain(); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}

		all = append(all, row{node: &n, parent: parent})
		byID[n.ID] = &n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan nodes: %w", err)
	}

	var roots []*domain.Node
	for _, rw := range all {
		if !rw.parent.Valid {
			roots = append(roots, rw.node)
			continue
		}
		parent, ok := byID[rw.parent.String]
		if !ok {
			return nil, fmt.Errorf("node %s: parent %s not found", rw.node.ID, rw.parent.String)
		}
		parent.Children = append(parent.Children, rw.node)
	}
	return roots, nil
}
