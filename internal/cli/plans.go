package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Print the plan catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range entitlement.Default().Plans() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s cap=%-9s %s\n",
					p.Plan, formatCap(p.MonthlyCap), strings.Join(p.Tools, ","))
			}
			return nil
		},
	}
}
