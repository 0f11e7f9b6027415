package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dgallion1/assetree/internal/hierarchy"
)

var (
	// titleStyle for entity titles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// dimStyle for ids and levels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// branchStyle for the tree connectors
	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// errorStyle for failure output
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// RenderTree draws each root and its descendants as an outline, one root per
// block, children in stored order.
func RenderTree(roots []*hierarchy.Entity) string {
	if len(roots) == 0 {
		return dimStyle.Render("(empty)") + "\n"
	}
	var b strings.Builder
	for _, r := range roots {
		if len(r.Children) == 0 {
			b.WriteString(label(r))
		} else {
			b.WriteString(subtree(r).String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func subtree(e *hierarchy.Entity) *tree.Tree {
	t := tree.Root(label(e)).EnumeratorStyle(branchStyle)
	for _, c := range e.Children {
		if len(c.Children) == 0 {
			t.Child(label(c))
			continue
		}
		t.Child(subtree(c))
	}
	return t
}

func label(e *hierarchy.Entity) string {
	return titleStyle.Render(e.Title) + " " + dimStyle.Render(fmt.Sprintf("#%d L%d", e.ID, e.Level))
}
