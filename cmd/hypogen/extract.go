package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ginger-Science/hypogen-ai/internal/extract"
	"github.com/Ginger-Science/hypogen-ai/internal/store"
	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [hypothesis file]",
	Short: "Extract a knowledge graph from a hypothesis artifact",
	Long: `Extract reads a hypothesis artifact file (YAML or JSON), builds the
knowledge graph, commits it to the graph store, and persists it. The
committed graph replaces any previous graph wholesale.

Missing artifact fields are tolerated: a hypothesis without matching
keywords or insights produces a root-only graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	h, err := extract.LoadHypothesis(args[0])
	if err != nil {
		return err
	}

	kv, err := store.OpenKV(types.StoreConfig{DataDir: dataDir()})
	if err != nil {
		return err
	}
	defer kv.Close()

	s := store.NewStore(kv)
	if err := s.OnHypothesisEvent(context.Background(), h); err != nil {
		// The in-memory commit stood; only persistence failed. Recovery
		// after restart depends on the persisted copy, so surface it.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatGraphOutput(s, jsonOutput)
}

func init() {
	extractCmd.Flags().Bool("json", false, "output the committed graph as JSON")

	rootCmd.AddCommand(extractCmd)
}
