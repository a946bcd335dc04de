package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file|-]",
	Short: "Validate a chance and show its canonical form, conditions and cost",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("name", "", "inspect the stored chance with this name")
}

func runInspect(cmd *cobra.Command, args []string) error {
	chance, err := resolveChance(cmd, args)
	if err != nil {
		return err
	}

	definition, err := json.MarshalIndent(chance, "", "  ")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "base factor:\t%g\n", chance.Base)
	fmt.Fprintf(tw, "modifiers:\t%d\n", len(chance.Modifiers))
	fmt.Fprintf(tw, "conditions:\t%s\n", strings.Join(chance.ConditionNames(), ", "))
	fmt.Fprintf(tw, "depth:\t%d\n", chance.Depth())
	fmt.Fprintf(tw, "cost:\t%d\n", chance.Cost())
	for i, m := range chance.Modifiers {
		fmt.Fprintf(tw, "  modifier %d:\tfactor %g, cost %d\n", i, m.Factor, m.Cost())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", definition)
	return nil
}
