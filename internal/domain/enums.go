package domain

type PlanStatus string

const (
	PlanActive PlanStatus = "active"
	PlanClosed PlanStatus = "closed"
)

type Status string

const (
	StatusPlanning        Status = "planning"
	StatusInProgress      Status = "in-progress"
	StatusReview          Status = "review"
	StatusTesting         Status = "testing"
	StatusReadyForRelease Status = "ready-for-release"
	StatusReleased        Status = "released"
	StatusBlocked         Status = "blocked"
)

// ValidStatuses is the canonical set of accepted node status strings.
var ValidStatuses = map[Status]bool{
	StatusPlanning: true, StatusInProgress: true, StatusReview: true,
	StatusTesting: true, StatusReadyForRelease: true, StatusReleased: true,
	StatusBlocked: true,
}

// completedStatuses lists the statuses that count towards completion.
// ready-for-release counts as done even though it is not yet released.
var completedStatuses = map[Status]bool{
	StatusReleased:        true,
	StatusReadyForRelease: true,
}

// IsCompleted reports whether s is in the completed-status set.
func (s Status) IsCompleted() bool {
	return completedStatuses[s]
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

var ValidEnvironments = map[Environment]bool{
	EnvDevelopment: true, EnvStaging: true, EnvProduction: true,
}

type Category string

const (
	CategoryMajor    Category = "major"
	CategoryMinor    Category = "minor"
	CategoryPatch    Category = "patch"
	CategoryHotfix   Category = "hotfix"
	CategoryWorkflow Category = "workflow"
)

var ValidCategories = map[Category]bool{
	CategoryMajor: true, CategoryMinor: true, CategoryPatch: true,
	CategoryHotfix: true, CategoryWorkflow: true,
}

// Status-history actions.
const (
	ActionCreated  = "created"
	ActionClosed   = "closed"
	ActionReopened = "reopened"
)
