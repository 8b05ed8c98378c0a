package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/playrank/nft-roi-indexer/internal/registry"
)

var scheduleCron string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [game_id...]",
	Short: "Start the periodic refresh workflow of games",
	Long:  "Start the cron refresh workflow (sync then ROI) of the given games, or of every registered game when none is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cron := scheduleCron
		if cron == "" {
			cron = cfg.Workflows.RefreshCron
		}
		if cron == "" {
			return errors.New("no cron schedule configured, pass --cron")
		}

		gameIDs := args
		if len(gameIDs) == 0 {
			games, err := registry.LoadGames(cfg.GamesPath)
			if err != nil {
				return err
			}
			gameIDs = games.IDs()
		}

		starter, closeFn, err := newStarter()
		if err != nil {
			return err
		}
		defer closeFn()

		for _, gameID := range gameIDs {
			run, err := starter.ScheduleRefresh(cmd.Context(), gameID, cron)
			if err != nil {
				return err
			}
			printRun(cmd, run)
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "Cron schedule, defaults to workflows.refresh_cron")
}
