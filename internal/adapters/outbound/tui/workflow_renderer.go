package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/storediag/internal/domain"
)

// RenderWorkflow formats a finished workflow run: diagnosis, marketing output and node errors.
func RenderWorkflow(st *domain.PipelineState) string {
	var b strings.Builder
	b.WriteString(RenderDiagnosis(st.Scores, st.Composite, st.Diagnostic))

	if len(st.Insights) > 0 {
		b.WriteString("  " + titleStyle.Render("Insights") + "\n\n")
		for _, in := range st.Insights {
			fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render(padRight(in.Category, 9)), in.Message)
		}
		b.WriteString("\n")
	}

	if len(st.TargetSegments) > 0 {
		b.WriteString("  " + titleStyle.Render("Target segments") + "\n\n")
		for _, t := range st.TargetSegments {
			fmt.Fprintf(&b, "    %s %s\n", nameStyle.Render(padRight(t.Name, 20)), dimStyle.Render(t.Reason))
		}
		b.WriteString("\n")
	}

	if len(st.Strategies) > 0 {
		kpis := make(map[string]domain.KPIEstimate, len(st.KPIEstimates))
		for _, k := range st.KPIEstimates {
			kpis[k.Strategy] = k
		}
		b.WriteString("  " + titleStyle.Render("Strategies") + "\n\n")
		for _, s := range st.Strategies {
			fmt.Fprintf(&b, "    %d. %s %s\n", s.Priority, nameStyle.Render(s.Name), faintStyle.Render("["+s.Channel+"]"))
			if k, ok := kpis[s.Name]; ok {
				fmt.Fprintf(&b, "       %s\n", dimStyle.Render(fmt.Sprintf("%s %.1f → %.1f (+%.1f)",
					strings.ToUpper(k.KPI), k.Baseline, k.Target, k.Uplift)))
			}
		}
		b.WriteString("\n")
	}

	if len(st.Errors) > 0 {
		b.WriteString("  " + failStyle.Bold(true).Render(fmt.Sprintf("%d node errors", len(st.Errors))) + "\n\n")
		for _, e := range st.Errors {
			fmt.Fprintf(&b, "    %s %s\n", critTagStyle.Render(padRight(e.Node, 20)), dimStyle.Render(e.Message))
		}
		b.WriteString("\n")
	}

	if st.Summary != "" {
		b.WriteString("  " + faintStyle.Render(st.Summary) + "\n")
	}
	return b.String()
}
