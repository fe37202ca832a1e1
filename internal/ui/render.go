package ui

import (
	"fmt"
	"strings"
	"time"

	"makerbot/internal/catalog"
	"makerbot/internal/domain"
)

// RenderCatalog lists every object of a style with its menu position
func RenderCatalog(c *catalog.Catalog, s *Styles) string {
	var b strings.Builder

	b.WriteString(s.Title.Render(fmt.Sprintf("Style %s", c.Style())))
	b.WriteString(s.Dim.Render(fmt.Sprintf("  %d objects in %d groups", c.Len(), c.GroupCount())))
	b.WriteString("\n")

	category := ""
	for _, e := range c.Entries() {
		if e.Category != category {
			category = e.Category
			b.WriteString("\n")
			b.WriteString(s.Section.Render(category))
			b.WriteString("\n")
		}
		pos := fmt.Sprintf("%3d.%-2d", e.GroupIndex, e.ItemIndex)
		fmt.Fprintf(&b, "  %s  %s\n", s.Key.Render(pos), s.Desc.Render(e.Name))
	}
	return b.String()
}

// RenderPlan shows the inputs needed to select an object
func RenderPlan(entry domain.CatalogEntry, inputs []domain.Input, s *Styles) string {
	head := fmt.Sprintf("%s  group %d item %d  (%d inputs)", entry.Name, entry.GroupIndex, entry.ItemIndex, len(inputs))
	return s.Highlight.Render(head) + "\n  " + CompactInputs(inputs) + "\n"
}

// CompactInputs joins inputs, folding runs of the same input into "name xN"
func CompactInputs(inputs []domain.Input) string {
	var parts []string
	for i := 0; i < len(inputs); {
		j := i
		for j < len(inputs) && inputs[j] == inputs[i] {
			j++
		}
		if n := j - i; n > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", inputs[i], n))
		} else {
			parts = append(parts, string(inputs[i]))
		}
		i = j
	}
	return strings.Join(parts, ", ")
}

// RenderSummary reports the outcome of a batch. Per-record failures are
// rendered separately by RenderFailures.
func RenderSummary(sum domain.BatchSummary, s *Styles) string {
	var b strings.Builder

	line := fmt.Sprintf("Placed %d of %d objects", sum.Placed, sum.Total)
	if sum.Source != "" {
		line += " from " + sum.Source
	}
	line += fmt.Sprintf(" in %s", sum.Elapsed.Round(10*time.Millisecond))
	if sum.Skipped == 0 && !sum.Cancelled && sum.Err == nil {
		b.WriteString(s.StatusSuccess.Render(line))
	} else {
		b.WriteString(s.StatusWarning.Render(line))
	}
	b.WriteString("\n")

	if sum.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped %d\n", sum.Skipped)
	}
	if sum.Cancelled {
		fmt.Fprintf(&b, "%s\n", s.StatusWarning.Render(
			fmt.Sprintf("Cancelled, %d records not attempted", sum.Total-sum.Attempted())))
	}
	if sum.Err != nil {
		b.WriteString(s.StatusError.Render("Stopped early") + "\n")
	}
	return s.SummaryBox.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// RenderFailures lists skipped records and the error that stopped the
// batch, for stderr. Empty when nothing failed.
func RenderFailures(sum domain.BatchSummary, s *Styles) string {
	var b strings.Builder
	for _, f := range sum.Failures {
		b.WriteString(RenderError(fmt.Errorf("skipped #%d %s %s: %w",
			f.Index+1, f.Placement.Name, f.Placement.Point(), f.Err), s))
	}
	if sum.Err != nil {
		b.WriteString(RenderError(fmt.Errorf("stopped early: %w", sum.Err), s))
	}
	return b.String()
}

// RenderError formats an error for stderr
func RenderError(err error, s *Styles) string {
	return s.StatusError.Render("Error: "+err.Error()) + "\n"
}
