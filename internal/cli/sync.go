package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playrank/nft-roi-indexer/internal/ingest"
)

var (
	syncEntities   []string
	syncCollection string
	syncAsync      bool
)

var syncCmd = &cobra.Command{
	Use:   "sync <game_id>",
	Short: "Pull new provider records for a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID := args[0]
		entities, err := parseEntities(syncEntities)
		if err != nil {
			return err
		}

		if syncAsync {
			if syncCollection != "" {
				return errors.New("--collection cannot be combined with --async")
			}
			starter, closeFn, err := newStarter()
			if err != nil {
				return err
			}
			defer closeFn()

			run, err := starter.SyncGame(cmd.Context(), gameID, entities)
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

		var results []ingest.Result
		if syncCollection != "" {
			game, err := c.Games.Get(gameID)
			if err != nil {
				return err
			}
			results, err = c.Pipeline.SyncCollection(cmd.Context(), syncCollection, &game, entities)
			if err != nil {
				_ = printJSON(cmd, results)
				return fmt.Errorf("sync of %s finished with errors: %w", syncCollection, err)
			}
		} else {
			results, err = c.Pipeline.SyncGame(cmd.Context(), gameID, entities)
			if err != nil {
				_ = printJSON(cmd, results)
				return fmt.Errorf("sync of %s finished with errors: %w", gameID, err)
			}
		}
		return printJSON(cmd, results)
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <collection_slug>",
	Short: "Fill in NFT names and traits from the marketplace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getComponents(cmd.Context())
		if err != nil {
			return err
		}
		result, err := c.Pipeline.Enrich(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncEntities, "entities", nil, "Feeds to sync (collection,nft,sale,transfer,listing,erc20_transfer); all when empty")
	syncCmd.Flags().StringVar(&syncCollection, "collection", "", "Sync a single collection of the game")
	syncCmd.Flags().BoolVar(&syncAsync, "async", false, "Start a sync workflow on the worker instead of running in-process")
}
