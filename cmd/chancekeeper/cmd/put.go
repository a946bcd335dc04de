package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solatis/chancekeeper/internal/core/db"
)

var putCmd = &cobra.Command{
	Use:   "put <name> <file|->",
	Short: "Store a chance definition under a name",
	Args:  cobra.ExactArgs(2),
	RunE:  runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	chance, err := readChance(args[1], cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return err
	}

	stored, err := db.NewChanceStore(queries, nil).Put(ctx, args[0], chance)
	if err != nil {
		return err
	}

	log.Info().
		Str("chance", stored.Name).
		Str("chance_id", string(stored.ID)).
		Int("cost", stored.Cost).
		Msg("chance stored")
	return nil
}
