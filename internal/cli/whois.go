package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/seo-scanner/internal/app"
	"github.com/user/seo-scanner/internal/entity"
)

func newWhoisCommand(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "whois <domain>",
		Short: "Look up domain registration data (WHOIS, falling back to RDAP)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Toolkit.LookupWhois(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printWhois(cmd.OutOrStdout(), result, raw)
			if result.Failed() {
				return fmt.Errorf("%s", result.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "also print the raw WHOIS text")
	return cmd
}

func printWhois(w io.Writer, result entity.WhoisResult, raw bool) {
	fmt.Fprintf(w, "%s %s", colorInfo("→"), result.Domain)
	if result.Source != "" {
		fmt.Fprintf(w, " (via %s)", result.Source)
	}
	fmt.Fprintln(w)

	keys := make([]string, 0, len(result.Data))
	for k := range result.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-28s %s\n", k+":", formatWhoisValue(result.Data[k]))
	}

	if raw && result.RawText != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.RawText)
	}
}

func formatWhoisValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
