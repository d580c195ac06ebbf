package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/seo-scanner/internal/app"
	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/usecase"
)

func newScanCommand(opts *rootOptions) *cobra.Command {
	var tools []string

	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Run analyzers against a URL and print the merged domain report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Scanner.Scan(cmd.Context(), usecase.ScanInput{URL: args[0], Tools: tools})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringSliceVar(&tools, "tools", defaultScanTools(), "comma-separated tools to run")
	return cmd
}

// defaultScanTools is every tool except ai, which needs an API key.
func defaultScanTools() []string {
	var names []string
	for _, t := range entity.AllTools {
		if t != entity.ToolAI {
			names = append(names, string(t))
		}
	}
	return names
}
