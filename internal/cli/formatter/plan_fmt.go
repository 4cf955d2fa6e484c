package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// FormatPlanList renders the plan catalogue inside a bordered box.
func FormatPlanList(plans []*domain.Plan, now time.Time) string {
	cols := []Column{
		Col("ID"), Col("NAME"), Col("VERSION"), Col("STATUS"),
		NumCol("NODES"), NumCol("DONE"), Col("TARGET"),
	}
	rows := make([][]string, 0, len(plans))

	for _, p := range plans {
		target := Dim("--")
		if p.TargetDate != nil {
			target = TargetDateStyled(*p.TargetDate, now)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			p.Version,
			PlanStatusPill(p.Status),
			strconv.Itoa(p.NodeCount),
			RenderProgress(p.Completion, 10),
			target,
		})
	}

	return RenderBox("Plans", RenderTable(cols, rows))
}

// FormatPlanInspect renders a plan card: metadata on the left and the full
// tree on the right.
func FormatPlanInspect(p *domain.Plan, now time.Time) string {
	left := buildPlanMetadata(p, now)
	right := RenderTree(TreeItems(p.Nodes, false))
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildPlanMetadata(p *domain.Plan, now time.Time) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + " " + Dim("v"+p.Version) + "\n")
	b.WriteString(KindBadge(p.Hierarchy.TopKind()) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("STATUS", PlanStatusPill(p.Status))
	field("ID", TruncID(p.ID))
	field("CATEGORY", OrDash(string(p.Category)))
	field("ENV", OrDash(string(p.Environment)))
	if p.TargetDate != nil {
		field("TARGET", TargetDateStyled(*p.TargetDate, now))
	} else {
		field("TARGET", Dim("--"))
	}
	field("TAGS", TagList(p.Tags))
	field("NODES", fmt.Sprintf("%d", p.NodeCount))
	field("DONE", RenderProgress(p.Completion, 12))

	if p.Description != "" {
		b.WriteString("\n" + StyleFg.Render(p.Description) + "\n")
	}
	if n := len(p.StatusHistory); n > 0 {
		last := p.StatusHistory[n-1]
		b.WriteString("\n" + Dim(fmt.Sprintf("%s %s", last.Action, last.Timestamp.Format("2006-01-02 15:04"))))
		if last.Reason != "" {
			b.WriteString(Dim(": " + last.Reason))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatNodeInspect renders one node with its ancestry path.
func FormatNodeInspect(n *domain.Node, path []*domain.Node, descendants int) string {
	var b strings.Builder

	titles := make([]string, 0, len(path))
	for _, a := range path {
		titles = append(titles, a.Title)
	}
	b.WriteString(Dim(strings.Join(titles, " › ")) + "\n")
	b.WriteString(TokenStyle(n.Style.Color).Render(n.Style.Icon) + " " + StyleBold.Render(n.Title) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value))
	}
	props := n.Properties
	field("ID", n.ID)
	field("KIND", KindBadge(n.Kind))
	field("STATUS", StatusPill(props.Status))
	field("PRIORITY", OrDash(string(props.Priority)))
	field("ASSIGNEE", OrDash(props.Assignee))
	if props.TargetDate != nil {
		field("TARGET", props.TargetDate.Format("2006-01-02"))
	}
	if props.Environment != "" {
		field("ENV", string(props.Environment))
	}
	if props.Version != "" {
		field("VERSION", props.Version)
	}
	if props.Estimate != "" {
		field("ESTIMATE", props.Estimate)
	}
	field("TAGS", TagList(props.Tags))
	if len(props.Dependencies) > 0 {
		field("DEPENDS ON", strings.Join(props.Dependencies, ", "))
	}
	field("DESCENDANTS", fmt.Sprintf("%d", descendants))
	if props.Description != "" {
		b.WriteString("\n" + StyleFg.Render(props.Description) + "\n")
	}
	if props.Notes != "" {
		b.WriteString("\n" + Dim(props.Notes) + "\n")
	}
	return RenderBox("", b.String())
}

// FormatSearchResults renders matching nodes as a table.
func FormatSearchResults(query string, nodes []*domain.Node) string {
	if len(nodes) == 0 {
		return Dim(fmt.Sprintf("No nodes match %q.", query))
	}
	cols := []Column{Col("ID"), Col("KIND"), Col("TITLE"), Col("STATUS"), Col("ASSIGNEE")}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			TruncID(n.ID),
			KindBadge(n.Kind),
			n.Title,
			StatusPill(n.Properties.Status),
			OrDash(n.Properties.Assignee),
		})
	}
	title := fmt.Sprintf("%d matches for %q", len(nodes), query)
	return RenderBox(title, RenderTable(cols, rows))
}

// FormatStats renders plan statistics.
func FormatStats(p *domain.Plan, s *service.PlanStats) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + " " + Dim("v"+p.Version) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("NODES     "), s.NodeCount))
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("DEPTH     "), s.Depth))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("COMPLETION"), RenderProgress(s.Completion, 20)))

	kinds := make([][]string, 0, len(p.Hierarchy.Kinds()))
	for _, k := range p.Hierarchy.Kinds() {
		kinds = append(kinds, []string{string(k), strconv.Itoa(s.KindCounts[k])})
	}
	b.WriteString("\n" + RenderTable([]Column{Col("KIND"), NumCol("COUNT")}, kinds))

	if len(s.StatusCounts) > 0 {
		statuses := make([]domain.Status, 0, len(s.StatusCounts))
		for st := range s.StatusCounts {
			statuses = append(statuses, st)
		}
		sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
		rows := make([][]string, 0, len(statuses))
		for _, st := range statuses {
			label := string(st)
			if st == "" {
				label = "(none)"
			}
			rows = append(rows, []string{StatusColor(st).Render(label), strconv.Itoa(s.StatusCounts[st])})
		}
		b.WriteString("\n" + RenderTable([]Column{Col("LEAF STATUS"), NumCol("COUNT")}, rows))
	}
	return RenderBox("Stats", b.String())
}
