package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/chancekeeper/internal/core/db"
	"github.com/solatis/chancekeeper/internal/rules"
)

var evalCmd = &cobra.Command{
	Use:   "eval [file|-]",
	Short: "Compute the factor of a chance for a context",
	Long: `Evaluate a chance definition read from a JSON or YAML file (or stdin),
or the chance stored under --name, against a context built from --context
and --set flags. Prints the factor and the per-modifier trace as JSON.`,
	Example: `  chancekeeper eval rain.yaml --set is_cloudy=true --set temperature=-3
  chancekeeper eval --name rain --context '{"is_cloudy": true}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("name", "", "evaluate the stored chance with this name")
	evalCmd.Flags().String("context", "", "context as a JSON object")
	evalCmd.Flags().StringArray("set", nil, "context entry as key=value (repeatable)")
}

type evalOutput struct {
	Factor  float64 `json:"factor"`
	Applied []bool  `json:"applied"`
}

func runEval(cmd *cobra.Command, args []string) error {
	object, _ := cmd.Flags().GetString("context")
	pairs, _ := cmd.Flags().GetStringArray("set")
	evalCtx, err := parseContext(object, pairs)
	if err != nil {
		return err
	}

	chance, err := resolveChance(cmd, args)
	if err != nil {
		return err
	}

	result, err := chance.Evaluate(evalCtx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(evalOutput{Factor: result.Factor, Applied: result.Applied})
}

// resolveChance reads the chance named by --name from the store, or parses
// the file argument.
func resolveChance(cmd *cobra.Command, args []string) (*rules.Chance, error) {
	name, _ := cmd.Flags().GetString("name")

	switch {
	case name != "" && len(args) > 0:
		return nil, fmt.Errorf("give either --name or a file, not both")
	case name != "":
		stored, err := loadStored(cmd, name)
		if err != nil {
			return nil, err
		}
		return stored.Chance, nil
	case len(args) == 1:
		return readChance(args[0], cmd.InOrStdin())
	default:
		return nil, fmt.Errorf("a chance file or --name is required")
	}
}

// loadStored fetches a chance from the configured database.
func loadStored(cmd *cobra.Command, name string) (*db.StoredChance, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return nil, err
	}
	return db.NewChanceStore(queries, nil).Get(ctx, name)
}
