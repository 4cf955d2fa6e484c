// Package snapshot defines the portable JSON/YAML form of a plan and converts
// it to and from the domain aggregate.
package snapshot

// DateLayout is the layout of calendar dates such as targetDate.
const DateLayout = "2006-01-02"

// Snapshot is the whole-aggregate exchange shape of a plan.
type Snapshot struct {
	ID            *string        `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Version       string         `json:"version" yaml:"version"`
	Description   string         `json:"description" yaml:"description"`
	Hierarchy     string         `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	Category      string         `json:"category" yaml:"category"`
	Tags          []string       `json:"tags" yaml:"tags"`
	TargetDate    string         `json:"targetDate" yaml:"targetDate"`
	Environment   string         `json:"environment" yaml:"environment"`
	Status        string         `json:"status" yaml:"status"`
	StatusHistory []StatusChange `json:"statusHistory" yaml:"statusHistory"`
	CreatedAt     string         `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     string         `json:"updatedAt" yaml:"updatedAt"`
	NodeCount     int            `json:"nodeCount" yaml:"nodeCount"`
	Completion    int            `json:"completion" yaml:"completion"`
	Preview       Preview        `json:"preview" yaml:"preview"`
	Nodes         []Node         `json:"nodes" yaml:"nodes"`
}

// StatusChange is one entry of the plan's status history.
type StatusChange struct {
	Action         string `json:"action" yaml:"action"`
	Reason         string `json:"reason" yaml:"reason"`
	Timestamp      string `json:"timestamp" yaml:"timestamp"`
	User           string `json:"user" yaml:"user"`
	PreviousStatus string `json:"previousStatus,omitempty" yaml:"previousStatus,omitempty"`
	NewStatus      string `json:"newStatus,omitempty" yaml:"newStatus,omitempty"`
}

// Preview is the derived catalogue summary.
type Preview struct {
	CentralNode string   `json:"centralNode" yaml:"centralNode"`
	Branches    []string `json:"branches" yaml:"branches"`
}

// Node is one tree node, recursively. An empty ID is assigned on import.
type Node struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Kind       string     `json:"kind" yaml:"kind"`
	Color      string     `json:"color" yaml:"color"`
	Icon       string     `json:"icon" yaml:"icon"`
	Expanded   bool       `json:"expanded" yaml:"expanded"`
	Properties Properties `json:"properties" yaml:"properties"`
	Children   []Node     `json:"children" yaml:"children"`
}

// Properties is the node attribute record.
type Properties struct {
	Assignee     string   `json:"assignee" yaml:"assignee"`
	TargetDate   string   `json:"targetDate" yaml:"targetDate"`
	Environment  string   `json:"environment" yaml:"environment"`
	Description  string   `json:"description" yaml:"description"`
	Tags         []string `json:"tags" yaml:"tags"`
	Priority     string   `json:"priority" yaml:"priority"`
	Status       string   `json:"status" yaml:"status"`
	Estimate     string   `json:"estimate" yaml:"estimate"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Notes        string   `json:"notes" yaml:"notes"`
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`
}
