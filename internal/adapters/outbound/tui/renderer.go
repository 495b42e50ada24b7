package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	lime    = lipgloss.Color("#A3E635")
	orange  = lipgloss.Color("#FB923C")
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A": success,
		"B": lime,
		"C": warning,
		"D": orange,
		"F": danger,
	}

	healthColors = map[string]lipgloss.Color{
		"green":  success,
		"yellow": warning,
		"orange": orange,
		"red":    danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	critTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderDiagnosis formats one store's graded indices and diagnostic result.
func RenderDiagnosis(scores domain.ScoredIndices, composite float64, res *domain.DiagnosticResult) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("storediag")
	subtitle := dimStyle.Render("Store " + res.StoreCode)
	health := healthStyle(res.OverallHealth).Bold(true).Render(strings.ToUpper(string(res.OverallHealth)))
	line := health
	if len(scores) > 0 {
		line = lipgloss.NewStyle().Bold(true).Foreground(scoreColor(composite)).
			Render(fmt.Sprintf("%.1f / 100", composite)) + "  " + health
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + line))
	b.WriteString("\n\n")

	// ── Indices ──
	for _, name := range domain.IndexNames {
		s, ok := scores[name]
		if !ok {
			continue
		}
		renderIndex(&b, s)
	}
	if len(scores) > 0 {
		b.WriteString("\n  " + separatorLine + "\n\n")
	}

	renderIssues(&b, res.Issues)
	renderRecommendations(&b, res.Recommendations)
	b.WriteString("\n")
	return b.String()
}

func renderIndex(b *strings.Builder, s domain.IndexScore) {
	label := nameStyle.Render(padRight(strings.ToUpper(s.Name), 6))
	score := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(s.Score)).Render(fmt.Sprintf("%5.1f", s.Score))
	grade := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(s.Grade)).Render(padRight(s.Grade, 2))
	weight := dimStyle.Render(fmt.Sprintf("%d%%", int(s.Weight*100+0.5)))
	fmt.Fprintf(b, "  %s %s  %s %s  %s\n", label, coloredBar(s.Score, 24), score, grade, weight)
}

func renderIssues(b *strings.Builder, issues []domain.Issue) {
	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}

	crit, warn, inf := countSeverities(issues)
	b.WriteString("  " + titleStyle.Render("Issues") + "  ")
	if crit > 0 {
		b.WriteString(critTagStyle.Render(fmt.Sprintf("%d critical", crit)) + "  ")
	}
	if warn > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warn)) + "  ")
	}
	if inf > 0 {
		b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d info", inf)))
	}
	b.WriteString("\n\n")

	for _, is := range issues {
		fmt.Fprintf(b, "    %s %s\n", severityTag(is.Severity), nameStyle.Render(is.IssueType))
		fmt.Fprintf(b, "         %s\n", dimStyle.Render(is.Description))
	}
}

func renderRecommendations(b *strings.Builder, recs []domain.Recommendation) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("\n  " + titleStyle.Render("Recommendations") + "\n\n")
	for _, r := range recs {
		fmt.Fprintf(b, "    %s %s %s\n",
			lipgloss.NewStyle().Bold(true).Foreground(accent).Render(fmt.Sprintf("%d.", r.Priority)),
			nameStyle.Render(r.Title),
			faintStyle.Render(fmt.Sprintf("(%s, %s)", r.Severity, strings.Join(r.Rules, ", "))))
		if r.Detail != "" {
			fmt.Fprintf(b, "       %s\n", dimStyle.Render(r.Detail))
		}
	}
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return critTagStyle.Render("crit")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn")
	default:
		return infoTagStyle.Render("info")
	}
}

func countSeverities(issues []domain.Issue) (crit, warn, inf int) {
	for _, i := range issues {
		switch i.Severity {
		case domain.SeverityCritical:
			crit++
		case domain.SeverityWarning:
			warn++
		default:
			inf++
		}
	}
	return
}

func coloredBar(score float64, width int) string {
	filled := max(0, min(int(score)*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func healthStyle(h domain.Health) lipgloss.Style {
	c, ok := healthColors[domain.HealthColor(h)]
	if !ok {
		c = fg
	}
	return lipgloss.NewStyle().Foreground(c)
}

// gradeColor colors by letter, so "B+" and "B" share a color.
func gradeColor(grade string) lipgloss.Color {
	if grade == "" {
		return fg
	}
	if c, ok := gradeColors[grade[:1]]; ok {
		return c
	}
	return fg
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats the run ledger of one store.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	for i, e := range entries {
		rev := e.ConfigRevision
		if rev == "" {
			rev = "·······"
		}
		ts := e.Timestamp
		if len(ts) > 10 {
			ts = ts[:10]
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(ts),
			faintStyle.Render(padRight(rev, 13)),
			padRight(e.Kind, 8),
			healthStyle(e.OverallHealth).Render(padRight(string(e.OverallHealth), 16)),
			dimStyle.Render(fmt.Sprintf("%d issues", e.Issues)),
		)
		if e.Errors > 0 {
			line += "  " + failStyle.Render(fmt.Sprintf("%d node errors", e.Errors))
		}

		if i > 0 {
			diff := e.Issues - entries[i-1].Issues
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
