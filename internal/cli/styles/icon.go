package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/domain/entity"
)

// IconRenderer renders resolution results.
type IconRenderer struct {
	theme *Theme
}

// NewIconRenderer creates a new icon renderer with the given theme.
func NewIconRenderer(theme *Theme) *IconRenderer {
	return &IconRenderer{theme: theme}
}

// RenderResolved renders a single resolution.
func (r *IconRenderer) RenderResolved(name string, icon entity.ResolvedIcon, savedTo string) string {
	t := r.theme
	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)

	lines := []string{
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconImage), t.Title.Render(name), t.ProvenanceBadge(icon.Provenance)),
		fmt.Sprintf("  %s %s", t.Subtle.Render("Format"), t.Normal.Render(fmt.Sprintf("%s (%s)", icon.Format, icon.Format.MIMEType()))),
		fmt.Sprintf("  %s %s", t.Subtle.Render("Size  "), t.Normal.Render(fmt.Sprintf("%dpx, %s", icon.Size, FormatSize(int64(len(icon.Data)))))),
		fmt.Sprintf("  %s %s", t.Subtle.Render("Tier  "), t.Normal.Render(string(icon.Provenance.Tier()))),
	}
	if icon.Source != "" {
		lines = append(lines, fmt.Sprintf("  %s %s", t.Subtle.Render("Source"), t.Subtle.Render(icon.Source)))
	}
	if savedTo != "" {
		lines = append(lines, fmt.Sprintf("  %s %s", t.SuccessStyle.Render(IconCheck), t.Subtle.Render("written to "+savedTo)))
	}
	return strings.Join(lines, "\n")
}

// RenderInventory renders an inventory run as a table plus a summary.
func (r *IconRenderer) RenderInventory(out *usecase.InventoryOutput) string {
	t := r.theme
	tbl := NewStyledTable(t, "Program", "Provenance", "Format", "Source")
	for _, item := range out.Items {
		if item.Err != nil {
			tbl.Row(item.Request.Name, t.ErrorStyle.Render(item.Err.Error()), "", "")
			continue
		}
		tbl.Row(item.Request.Name, string(item.Icon.Provenance), string(item.Icon.Format), item.Icon.Source)
	}

	summary := make([]string, 0, len(out.ByProvenance)+1)
	for _, p := range []entity.Provenance{
		entity.ProvenanceCustom,
		entity.ProvenanceLocalExtraction,
		entity.ProvenanceVendorTreeScan,
		entity.ProvenanceRemoteFallback,
		entity.ProvenanceGeneric,
	} {
		if n := out.ByProvenance[p]; n > 0 {
			summary = append(summary, fmt.Sprintf("%s %d", p, n))
		}
	}
	if out.Invalid > 0 {
		summary = append(summary, t.ErrorStyle.Render(fmt.Sprintf("invalid %d", out.Invalid)))
	}
	return tbl.Render() + "\n" + t.Subtle.Render(strings.Join(summary, " • "))
}

// RenderCustomIcons renders the registered custom icons.
func (r *IconRenderer) RenderCustomIcons(icons []entity.CustomIcon) string {
	t := r.theme
	if len(icons) == 0 {
		return t.Subtle.Render("No custom icons registered")
	}
	tbl := NewStyledTable(t, "Program", "Format", "Size", "Added", "From")
	for _, ic := range icons {
		tbl.Row(ic.ProgramName, string(ic.Format), strconv.Itoa(ic.Size), t.TimeBadge(ic.CreatedAt), ic.IconPath)
	}
	return tbl.Render()
}

// RenderCacheStats renders per-tier statistics.
func (r *IconRenderer) RenderCacheStats(stats ...entity.CacheStats) string {
	tbl := NewStyledTable(r.theme, "Tier", "Total", "Valid", "Expired")
	for _, s := range stats {
		tbl.Row(r.theme.AccentBadge(string(s.Tier)), strconv.Itoa(s.TotalEntries), strconv.Itoa(s.ValidEntries), strconv.Itoa(s.ExpiredEntries))
	}
	return tbl.Render()
}

// RenderCleared confirms a cache clear.
func (r *IconRenderer) RenderCleared(tier entity.CacheTier) string {
	return fmt.Sprintf("%s %s %s", r.theme.SuccessStyle.Render(IconCheck), r.theme.Normal.Render("Cleared cache"), r.theme.MutedBadge(string(tier)))
}
