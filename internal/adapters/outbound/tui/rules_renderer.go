package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/scoring"
)

// RenderRules formats the active rule table and the actions bound to each rule.
func RenderRules(cfg domain.DiagnosticsConfig) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Diagnostic rules") + "  " +
		dimStyle.Render(fmt.Sprintf("version %s, tie-break %s", cfg.Version, cfg.EffectiveTiebreak())) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	for _, r := range cfg.Rules {
		cond := fmt.Sprintf("%s %s %g", strings.ToUpper(r.Metric), r.Condition, r.Threshold)
		if r.Condition == domain.ConditionBetween {
			cond = fmt.Sprintf("%s between %g and %g", strings.ToUpper(r.Metric), r.Threshold, r.ThresholdMax)
		}
		fmt.Fprintf(&b, "    %s %s %s\n", severityTag(r.Severity), nameStyle.Render(padRight(r.Name, 16)), dimStyle.Render(cond))

		var codes []string
		for _, a := range cfg.Actions[r.Name] {
			codes = append(codes, a.Action)
		}
		if len(codes) > 0 {
			fmt.Fprintf(&b, "         %s\n", faintStyle.Render("→ "+strings.Join(codes, ", ")))
		}
	}

	b.WriteString("\n  " + titleStyle.Render("Index inputs") + "\n")
	inputs := scoring.Inputs()
	for _, name := range domain.IndexNames {
		fmt.Fprintf(&b, "    %s %s\n", nameStyle.Render(padRight(strings.ToUpper(name), 6)),
			dimStyle.Render(strings.Join(inputs[name], ", ")))
	}

	b.WriteString("\n  " + titleStyle.Render("Grades") + "  ")
	var bands []string
	for _, g := range cfg.GradeBands {
		bands = append(bands, fmt.Sprintf("%s ≥ %g", g.Grade, g.Min))
	}
	bands = append(bands, domain.FloorGrade+" otherwise")
	b.WriteString(dimStyle.Render(strings.Join(bands, ", ")) + "\n\n")
	return b.String()
}
