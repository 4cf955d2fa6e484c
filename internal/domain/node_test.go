package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNode_Valid(t *testing.T) {
	n := &Node{
		ID:    "t1",
		Title: "Write migration",
		Kind:  KindTask,
		Properties: Properties{
			Status:   StatusInProgress,
			Priority: PriorityHigh,
			Estimate: "3d",
			Tags:     []string{"db"},
		},
	}
	assert.Empty(t, ValidateNode(n, DefaultLimits()))
}

func TestValidateNode_RequiredFields(t *testing.T) {
	errs := ValidateNode(&Node{Kind: KindTask}, DefaultLimits())
	assert.Len(t, errs, 2, "missing id and title")
}

func TestValidateNode_TitleTooLong(t *testing.T) {
	n := &Node{ID: "x", Title: strings.Repeat("é", 11), Kind: KindFeature}
	errs := ValidateNode(n, Limits{MaxTitleLength: 10})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "exceeds 10")
}

func TestValidateNode_EnumsAndLimits(t *testing.T) {
	n := &Node{
		ID:    "x",
		Title: "t",
		Kind:  KindTask,
		Properties: Properties{
			Status:       "done",
			Priority:     "urgent",
			Environment:  "qa",
			Tags:         []string{"a", "b", "c"},
			Dependencies: []string{"1", "2"},
		},
	}
	errs := ValidateNode(n, Limits{MaxTags: 2, MaxDependencies: 1})
	assert.Len(t, errs, 5)
}

func TestValidateNode_PerKindProperties(t *testing.T) {
	feature := &Node{ID: "f", Title: "F", Kind: KindFeature,
		Properties: Properties{Version: "1.0.0", Estimate: "2d"}}
	errs := ValidateNode(feature, DefaultLimits())
	assert.Len(t, errs, 2, "version and estimate are both misplaced on a feature")

	release := &Node{ID: "r", Title: "R", Kind: KindRelease,
		Properties: Properties{Version: "1.0"}}
	errs = ValidateNode(release, DefaultLimits())
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid version")
}

func TestValidateNode_InvalidKind(t *testing.T) {
	errs := ValidateNode(&Node{ID: "x", Title: "t", Kind: "epic"}, DefaultLimits())
	assert.Len(t, errs, 1)
}

func TestStatusIsCompleted(t *testing.T) {
	assert.True(t, StatusReleased.IsCompleted())
	assert.True(t, StatusReadyForRelease.IsCompleted())
	assert.False(t, StatusTesting.IsCompleted())
	assert.False(t, Status("").IsCompleted())
}
