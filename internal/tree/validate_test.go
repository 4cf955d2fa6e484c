package tree

import (
	"errors"
	"testing"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleTree(), domain.HierarchyRelease))
	assert.NoError(t, Validate(nil, domain.HierarchyRelease))

	tests := []struct {
		name    string
		tree    Tree
		wantErr error
	}{
		{"wrong hierarchy", sampleTree(), ErrInvalidRoot},
		{"root below top rank", Tree{node("F", domain.KindFeature, "")}, ErrInvalidRoot},
		{"nil root", Tree{nil}, ErrInvalidNode},
		{"empty id", Tree{node("", domain.KindRelease, "")}, ErrInvalidNode},
		{"duplicate ids", Tree{
			node("R", domain.KindRelease, "", node("X", domain.KindFeature, ""), node("X", domain.KindFeature, "")),
		}, ErrDuplicateID},
		{"leaf with children", Tree{
			node("R", domain.KindRelease, "", node("F", domain.KindFeature, "",
				node("T", domain.KindTask, "", node("T2", domain.KindTask, "")))),
		}, ErrLeafParent},
		{"skipped rank", Tree{node("R", domain.KindRelease, "", node("T", domain.KindTask, ""))}, ErrRankViolation},
		{"nil child", Tree{node("R", domain.KindRelease, "", nil)}, ErrInvalidNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := domain.HierarchyRelease
			if tt.name == "wrong hierarchy" {
				h = domain.HierarchyWorkflow
			}
			err := Validate(tt.tree, h)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	tr := Tree{
		node("F", domain.KindFeature, ""),
		node("R", domain.KindRelease, "", node("R", domain.KindFeature, "")),
	}
	err := Validate(tr, domain.HierarchyRelease)
	assert.True(t, errors.Is(err, ErrInvalidRoot))
	assert.True(t, errors.Is(err, ErrDuplicateID))
}
