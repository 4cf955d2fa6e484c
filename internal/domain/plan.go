package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidState is returned when a plan status transition is not allowed
// from the plan's current status.
var ErrInvalidState = errors.New("invalid plan state transition")

// StatusChange records one entry of a plan's status history.
type StatusChange struct {
	Action         string
	Reason         string
	Timestamp      time.Time
	User           string
	PreviousStatus PlanStatus
	NewStatus      PlanStatus
}

// Preview is the catalogue summary of a plan: the first root's title and the
// titles of its first few direct children.
type Preview struct {
	CentralNode string
	Branches    []string
}

// Plan is the aggregate root owning a release or workflow tree. NodeCount,
// Completion and Preview are derived from Nodes on every save.
type Plan struct {
	ID            string
	Name          string
	Version       string
	Description   string
	Hierarchy     Hierarchy
	Category      Category
	Tags          []string
	TargetDate    *time.Time
	Environment   Environment
	Status        PlanStatus
	StatusHistory []StatusChange
	CreatedAt     time.Time
	UpdatedAt     time.Time

	NodeCount  int
	Completion int
	Preview    Preview

	Nodes []*Node
}

// IsClosed reports whether the plan has been closed.
func (p *Plan) IsClosed() bool {
	return p.Status == PlanClosed
}

// Close marks an active plan closed and appends a history entry.
func (p *Plan) Close(reason, user string, now time.Time) error {
	if p.Status != PlanActive {
		return fmt.Errorf("closing plan in status %q: %w", p.Status, ErrInvalidState)
	}
	p.transition(ActionClosed, PlanClosed, reason, user, now)
	return nil
}

// Reopen marks a closed plan active again and appends a history entry.
func (p *Plan) Reopen(reason, user string, now time.Time) error {
	if p.Status != PlanClosed {
		return fmt.Errorf("reopening plan in status %q: %w", p.Status, ErrInvalidState)
	}
	p.transition(ActionReopened, PlanActive, reason, user, now)
	return nil
}

func (p *Plan) transition(action string, to PlanStatus, reason, user string, now time.Time) {
	p.StatusHistory = append(p.StatusHistory, StatusChange{
		Action:         action,
		Reason:         reason,
		Timestamp:      now,
		User:           user,
		PreviousStatus: p.Status,
		NewStatus:      to,
	})
	p.Status = to
	p.UpdatedAt = now
}

// DisplayID returns the first 8 characters of the plan ID.
func (p *Plan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Validate checks the plan-level fields. Tree shape is validated separately
// by the tree package.
func (p *Plan) Validate(limits Limits) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("plan name is required"))
	}
	if !IsValidVersion(p.Version) {
		errs = append(errs, fmt.Errorf("plan version %q must be MAJOR.MINOR.PATCH", p.Version))
	}
	if !p.Hierarchy.Valid() {
		errs = append(errs, fmt.Errorf("plan hierarchy %q is invalid", p.Hierarchy))
	}
	if p.Category != "" && !ValidCategories[p.Category] {
		errs = append(errs, fmt.Errorf("plan category %q is invalid", p.Category))
	}
	if p.Environment != "" && !ValidEnvironments[p.Environment] {
		errs = append(errs, fmt.Errorf("plan environment %q is invalid", p.Environment))
	}
	if p.Status != PlanActive && p.Status != PlanClosed {
		errs = append(errs, fmt.Errorf("plan status %q is invalid", p.Status))
	}
	if limits.MaxTags > 0 && len(p.Tags) > limits.MaxTags {
		errs = append(errs, fmt.Errorf("plan has %d tags, limit is %d", len(p.Tags), limits.MaxTags))
	}
	if len(p.Nodes) == 0 {
		errs = append(errs, fmt.Errorf("plan must have a root node"))
	}
	return errs
}
