package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/loader"
	"github.com/abdidvp/storediag/internal/adapters/outbound/tui"
	"github.com/abdidvp/storediag/internal/application"
	"github.com/spf13/cobra"
)

func newDiagnoseCmd(f *rootFlags) *cobra.Command {
	var (
		all        bool
		jsonOutput bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose [store-code...]",
		Short: "Diagnose one or more stores",
		Long:  "Load each store's report, score its indices, evaluate the rule table and persist the result. With --all, every store under <data-dir>/reports is diagnosed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return errors.New("give store codes or --all, not both")
			case !all && len(args) == 0:
				return errors.New("give at least one store code, or --all")
			}
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				codes := args
				if all {
					var err error
					if codes, err = loader.Discover(a.settings.DataDir); err != nil {
						return err
					}
					if len(codes) == 0 {
						return fmt.Errorf("no reports found under %s", a.settings.DataDir)
					}
				}

				outcomes := a.batch.Run(ctx, codes)

				if jsonOutput {
					if err := renderJSON(cmd, outcomesJSON(outcomes)); err != nil {
						return err
					}
				} else {
					for _, o := range outcomes {
						if o.Err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", o.StoreCode, o.Err)
							continue
						}
						fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiagnosis(o.Measurement.Scores, o.Measurement.Composite, o.Result))
					}
				}

				failed := 0
				for _, o := range outcomes {
					if o.Err != nil {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d stores failed", failed, len(outcomes))
				}
				if ciMode && application.AnyCritical(outcomes) {
					return errors.New("at least one store is critical")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Diagnose every store with a report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if any store is critical")

	return cmd
}

type outcomeJSON struct {
	application.StoreOutcome
	Error string `json:"error,omitempty"`
}

func outcomesJSON(outcomes []application.StoreOutcome) []outcomeJSON {
	out := make([]outcomeJSON, len(outcomes))
	for i, o := range outcomes {
		out[i] = outcomeJSON{StoreOutcome: o}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}
	return out
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
