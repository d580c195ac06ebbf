package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/user/seo-scanner/internal/app"
	"github.com/user/seo-scanner/internal/entity"
)

func newRedirectsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redirects <url> [url...]",
		Short: "Trace the redirect chain of one or more URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			traces, err := a.Toolkit.CheckRedirects(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, trace := range traces {
				printTrace(cmd.OutOrStdout(), trace)
			}
			return nil
		},
	}
}

func printTrace(w io.Writer, trace entity.RedirectTrace) {
	fmt.Fprintf(w, "%s %s\n", colorInfo("→"), trace.URL)
	if trace.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", colorError("✗"), trace.Error)
		return
	}
	for i, hop := range trace.Hops {
		fmt.Fprintf(w, "  %d. [%s] %s", i+1, formatStatus(hop.Status), hop.URL)
		if hop.Error != "" {
			fmt.Fprintf(w, " %s", colorError(hop.Error))
		}
		fmt.Fprintln(w)
	}
	if trace.Truncated {
		fmt.Fprintf(w, "  %s stopped after %d hops, chain may loop\n", colorWarn("!"), len(trace.Hops))
	}
}
