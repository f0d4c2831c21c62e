// Package cli implements brainctl, the operator command line for Network Brain.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the brainctl command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brainctl",
		Short: "Operate a Network Brain deployment",
		Long: `brainctl runs maintenance tasks against the Network Brain database:
enqueueing embedding jobs for people that have none and seeding system prompts.

Configuration is read from the environment (and .env) like the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	backfillCmd := &cobra.Command{
		Use:   "backfill-embeddings",
		Short: "Enqueue embedding jobs for people without an embedding",
		Long: `Lists every non-deleted person with no embedding and inserts one person_embedding
job per person on the embeddings queue. Workers in the API process run the jobs.`,
		Args: cobra.NoArgs,
		RunE: RunBackfillEmbeddings,
	}
	backfillCmd.Flags().Int("page-size", defaultBackfillPageSize, "People listed per query")
	backfillCmd.Flags().Bool("dry-run", false, "Count people without enqueueing jobs")

	seedCmd := &cobra.Command{
		Use:   "seed-prompts",
		Short: "Load system prompts from a YAML file",
		Args:  cobra.NoArgs,
		RunE:  RunSeedPrompts,
	}
	seedCmd.Flags().String("file", "prompts/default_prompts.yaml", "YAML file with a prompts list")
	seedCmd.Flags().Bool("overwrite", false, "Replace prompts that already exist")

	rootCmd.AddCommand(backfillCmd, seedCmd)

	return rootCmd
}
