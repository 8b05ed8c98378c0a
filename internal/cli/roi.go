package cli

import (
	"github.com/spf13/cobra"
)

var (
	roiCollection string
	roiAsync      bool
)

var roiCmd = &cobra.Command{
	Use:   "roi <game_id>",
	Short: "Compute ROI snapshots for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID := args[0]

		if roiAsync {
			starter, closeFn, err := newStarter()
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := starter.ComputeGameROI(cmd.Context(), gameID)
			if err != nil {
				return err
			}
			printRun(cmd, run)
			return nil
		}

		c, err := getComponents(cmd.Context())
		if err != nil {
			return err
		}

		if roiCollection != "" {
			game, err := c.Games.Get(gameID)
			if err != nil {
				return err
			}
			outcome, err := c.Engine.ComputeCollection(cmd.Context(), roiCollection, game)
			if err != nil {
				return err
			}
			return printJSON(cmd, outcome)
		}

		outcome, err := c.Engine.ComputeGame(cmd.Context(), gameID)
		if err != nil {
			return err
		}
		return printJSON(cmd, outcome)
	},
}

func init() {
	roiCmd.Flags().StringVar(&roiCollection, "collection", "", "Compute a single collection of the game")
	roiCmd.Flags().BoolVar(&roiAsync, "async", false, "Start an ROI workflow on the worker instead of running in-process")
}
