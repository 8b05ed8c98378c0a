package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
	temporal "github.com/playrank/nft-roi-indexer/internal/providers/temporal"
)

var jsonAdapter = adapter.NewJSON()

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := jsonAdapter.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printRun(cmd *cobra.Command, run client.WorkflowRun) {
	fmt.Fprintf(cmd.OutOrStdout(), "started workflow %s (run %s)\n", run.GetID(), run.GetRunID())
}

// parseEntities validates the --entities flag values. Empty selects every feed.
func parseEntities(values []string) ([]domain.EntityType, error) {
	entities := make([]domain.EntityType, 0, len(values))
	for _, v := range values {
		entity := domain.EntityType(v)
		switch entity {
		case domain.EntityCollection, domain.EntityNFT, domain.EntitySale,
			domain.EntityTransfer, domain.EntityListing, domain.EntityERC20Transfer:
			entities = append(entities, entity)
		default:
			return nil, fmt.Errorf("unknown entity %q", v)
		}
	}
	return entities, nil
}

func newStarter() (*temporal.Starter, func(), error) {
	temporalClient, err := temporal.Dial(cfg.Temporal)
	if err != nil {
		return nil, nil, err
	}
	return temporal.NewStarter(temporalClient, cfg.Temporal.TaskQueue), temporalClient.Close, nil
}
