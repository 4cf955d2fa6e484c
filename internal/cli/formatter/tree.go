package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	ID     string
	Title  string
	Kind   domain.Kind
	Level  int
	IsLast bool
	// Lasts records, for each ancestor below the roots, whether it was the
	// last of its siblings. It decides between a pipe and a gap.
	Lasts  []bool
	Status domain.Status
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeGap    = "   "
)

// TreeItems flattens nodes in pre-order. With collapsed set, the children of
// nodes whose Expanded flag is off are skipped.
func TreeItems(nodes []*domain.Node, collapsed bool) []TreeItem {
	var items []TreeItem
	var walk func(ns []*domain.Node, level int, lasts []bool)
	walk = func(ns []*domain.Node, level int, lasts []bool) {
		for i, n := range ns {
			last := i == len(ns)-1
			items = append(items, TreeItem{
				ID:     n.ID,
				Title:  n.Title,
				Kind:   n.Kind,
				Level:  level,
				IsLast: last,
				Lasts:  lasts,
				Status: n.Properties.Status,
				Detail: nodeDetail(n),
			})
			if collapsed && !n.Expanded {
				continue
			}
			childLasts := lasts
			if level > 0 {
				childLasts = append(append([]bool(nil), lasts...), last)
			}
			walk(n.Children, level+1, childLasts)
		}
	}
	walk(nodes, 0, nil)
	return items
}

func nodeDetail(n *domain.Node) string {
	switch {
	case n.Properties.Version != "":
		return "v" + n.Properties.Version
	case n.Properties.Assignee != "":
		return "@" + n.Properties.Assignee
	case n.Properties.Estimate != "":
		return n.Properties.Estimate
	}
	return ""
}

// TreePrefix returns the connector drawn before an item's title.
func TreePrefix(item TreeItem) string {
	if item.Level == 0 {
		return ""
	}
	var b strings.Builder
	for i := 1; i < item.Level; i++ {
		if i-1 < len(item.Lasts) && item.Lasts[i-1] {
			b.WriteString(treeGap)
		} else {
			b.WriteString(treePipe)
		}
	}
	if item.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Completed leaves get a green ✔
// prefix, active ones an amber ▶ prefix, and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		title := item.Title
		statusPrefix := ""

		if item.Kind.IsLeaf() {
			switch {
			case item.Status.IsCompleted():
				statusPrefix = StyleGreen.Render("✔ ")
				title = Dim(title)
			case item.Status == domain.StatusInProgress:
				statusPrefix = StyleYellowBold.Render("▶ ")
				title = StyleYellowBold.Render(title)
			case item.Status == domain.StatusBlocked:
				statusPrefix = StyleRed.Render("✖ ")
			}
		} else if item.Level == 0 {
			title = StyleBold.Render(title)
		}

		content := TreePrefix(item) + statusPrefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
