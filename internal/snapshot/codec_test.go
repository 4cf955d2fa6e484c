package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "id": null,
  "name": "Spring release",
  "version": "1.4.0",
  "description": "Payments and onboarding",
  "category": "minor",
  "tags": ["q2"],
  "targetDate": "2025-06-30",
  "environment": "staging",
  "status": "active",
  "statusHistory": [],
  "createdAt": "2025-06-01T09:00:00Z",
  "updatedAt": "2025-06-01T09:00:00Z",
  "nodeCount": 2,
  "completion": 0,
  "preview": {"centralNode": "Spring", "branches": ["Checkout"]},
  "nodes": [
    {
      "id": "r", "title": "Spring", "kind": "release", "color": "purple", "icon": "rocket",
      "expanded": true,
      "properties": {"version": "1.4.0", "tags": [], "dependencies": []},
      "children": [
        {"id": "f", "title": "Checkout", "kind": "feature", "color": "blue", "icon": "layers",
         "expanded": false, "properties": {"assignee": "ana", "priority": "high"}, "children": []}
      ]
    }
  ]
}`

const sampleYAML = `
name: Onboarding
version: 0.3.1
hierarchy: workflow
nodes:
  - id: c
    title: Onboarding
    kind: central
    children:
      - id: b
        title: Accounts
        kind: branch
        children:
          - id: l
            title: Laptop
            kind: leaf
            properties:
              status: released
              tags: [it, hardware]
`

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, " yml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/PLAN.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("plan.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("plan"))
}

func TestDecode_JSON(t *testing.T) {
	s, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)

	assert.Nil(t, s.ID)
	assert.Equal(t, "Spring release", s.Name)
	assert.Equal(t, "2025-06-30", s.TargetDate)
	require.Len(t, s.Nodes, 1)
	assert.True(t, s.Nodes[0].Expanded)
	assert.Equal(t, "1.4.0", s.Nodes[0].Properties.Version)
	require.Len(t, s.Nodes[0].Children, 1)
	assert.Equal(t, "ana", s.Nodes[0].Children[0].Properties.Assignee)
	assert.Equal(t, "high", s.Nodes[0].Children[0].Properties.Priority)
}

func TestDecode_YAML(t *testing.T) {
	s, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "workflow", s.Hierarchy)
	leaf := s.Nodes[0].Children[0].Children[0]
	assert.Equal(t, "leaf", leaf.Kind)
	assert.Equal(t, "released", leaf.Properties.Status)
	assert.Equal(t, []string{"it", "hardware"}, leaf.Properties.Tags)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	assert.ErrorContains(t, err, "parsing snapshot json")

	_, err = Decode(strings.NewReader("nodes: [unclosed"), FormatYAML)
	assert.ErrorContains(t, err, "parsing snapshot yaml")
}

func TestEncodeDecode_BothFormats(t *testing.T) {
	orig, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, orig, f))

			back, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, orig.Name, back.Name)
			assert.Equal(t, orig.Preview, back.Preview)
			assert.Equal(t, orig.Nodes[0].Children[0].Title, back.Nodes[0].Children[0].Title)
			assert.Equal(t, orig.Nodes[0].Properties.Version, back.Nodes[0].Properties.Version)
		})
	}
}

func TestEncode_JSONUsesWireKeys(t *testing.T) {
	s := &Snapshot{Name: "x", Nodes: []Node{{ID: "r", Kind: "release"}}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, FormatJSON))

	out := buf.String()
	assert.Contains(t, out, `"id": null`)
	assert.Contains(t, out, `"statusHistory"`)
	assert.Contains(t, out, `"centralNode"`)
	assert.Contains(t, out, `"targetDate"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", s.Name)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
