package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// propertyFlags binds the node property flags shared by "node add" and
// "node update".
type propertyFlags struct {
	assignee     string
	target       string
	environment  string
	description  string
	tags         []string
	priority     string
	status       string
	estimate     string
	dependencies []string
	notes        string
	version      string
}

func (f *propertyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.assignee, "assignee", "", "Assignee")
	fs.StringVar(&f.target, "target", "", "Target date (YYYY-MM-DD, empty to clear)")
	fs.StringVar(&f.environment, "env", "", "Environment (development|staging|production)")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	fs.StringVar(&f.priority, "priority", "", "Priority (low|medium|high|critical)")
	fs.StringVar(&f.status, "status", "", "Status (planning|in-progress|review|testing|ready-for-release|released|blocked)")
	fs.StringVar(&f.estimate, "estimate", "", "Estimate, lowest rank only (e.g. 3d)")
	fs.StringSliceVar(&f.dependencies, "depends-on", nil, "ID of a node this one depends on (repeatable)")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
	fs.StringVar(&f.version, "version", "", "Version, top rank only (e.g. 1.2.0)")
}

// apply copies every flag the user set onto props and reports whether
// anything changed. Enumerated values are checked later by node validation.
func (f *propertyFlags) apply(fs *pflag.FlagSet, props *domain.Properties) (bool, error) {
	changed := false
	set := func(name string) bool {
		if fs.Changed(name) {
			changed = true
			return true
		}
		return false
	}

	if set("assignee") {
		props.Assignee = strings.TrimSpace(f.assignee)
	}
	if set("target") {
		d, err := parseOptionalDate(f.target)
		if err != nil {
			return false, err
		}
		props.TargetDate = d
	}
	if set("env") {
		props.Environment = domain.Environment(f.environment)
	}
	if set("description") {
		props.Description = f.description
	}
	if set("tag") {
		props.Tags = f.tags
	}
	if set("priority") {
		props.Priority = domain.Priority(f.priority)
	}
	if set("status") {
		props.Status = domain.Status(f.status)
	}
	if set("estimate") {
		props.Estimate = f.estimate
	}
	if set("depends-on") {
		props.Dependencies = f.dependencies
	}
	if set("notes") {
		props.Notes = f.notes
	}
	if set("version") {
		props.Version = f.version
	}
	return changed, nil
}

// planFlags binds the plan attribute flags of "plan create".
type planFlags struct {
	name        string
	version     string
	description string
	hierarchy   string
	category    string
	tags        []string
	target      string
	environment string
}

func (f *planFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Plan name")
	fs.StringVar(&f.version, "version", "", "Version (default 1.0.0)")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringVar(&f.hierarchy, "hierarchy", string(domain.HierarchyRelease), "Hierarchy (release|workflow)")
	fs.StringVar(&f.category, "category", "", "Category (major|minor|patch|hotfix|workflow)")
	fs.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	fs.StringVar(&f.target, "target", "", "Target date (YYYY-MM-DD)")
	fs.StringVar(&f.environment, "env", "", "Environment (development|staging|production)")
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return &d, nil
}
