package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ginger-Science/hypogen-ai/internal/stats"
	"github.com/Ginger-Science/hypogen-ai/internal/store"
	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Read, refresh, export, or clear the committed knowledge graph",
}

// --- show subcommand ---

var graphShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the committed knowledge graph",
	Long: `Show restores the last committed graph from the store and prints its
nodes and chain connections. An empty store is reported, not an error.`,
	RunE: runGraphShow,
}

func runGraphShow(cmd *cobra.Command, args []string) error {
	s, closeKV, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer closeKV()

	if _, ok := s.Graph(); !ok {
		fmt.Println("No knowledge graph yet. Run `hypogen extract` on a hypothesis artifact.")
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatGraphOutput(s, jsonOutput)
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print graph statistics and derived views",
	RunE:  runGraphStats,
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	s, closeKV, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer closeKV()

	graph, ok := s.Graph()
	if !ok {
		fmt.Println("No knowledge graph yet. Run `hypogen extract` on a hypothesis artifact.")
		return nil
	}
	statistics, _ := s.Statistics()

	fmt.Printf("Nodes:            %d\n", statistics.TotalNodes)
	fmt.Printf("Connections:      %d\n", statistics.TotalConnections)
	fmt.Printf("Average strength: %d%%\n", statistics.AverageStrength)
	fmt.Printf("Strongest chain:  %s\n", statistics.StrongestChain)

	if node, ok := stats.MostConnected(graph); ok {
		fmt.Printf("Most connected:   %s (%d connections)\n", node.Label, len(node.OutgoingRefs))
	}

	dist := stats.TypeDistribution(graph)
	nodeTypes := make([]string, 0, len(dist))
	for t := range dist {
		nodeTypes = append(nodeTypes, string(t))
	}
	sort.Strings(nodeTypes)
	fmt.Println("\nType distribution:")
	for _, t := range nodeTypes {
		fmt.Printf("  %-12s %d\n", t, dist[types.NodeType(t)])
	}
	return nil
}

// --- refresh subcommand ---

var graphRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-derive the graph from the current hypothesis",
	Long: `Refresh re-runs extraction from the stored current hypothesis. Without
one it falls back to the last persisted graph; with neither the store
stays empty.`,
	RunE: runGraphRefresh,
}

func runGraphRefresh(cmd *cobra.Command, args []string) error {
	kv, err := store.OpenKV(types.StoreConfig{DataDir: dataDir()})
	if err != nil {
		return err
	}
	defer kv.Close()

	s := store.NewStore(kv)
	if err := s.Refresh(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if _, ok := s.Graph(); !ok {
		fmt.Println("No current hypothesis and no persisted graph; store remains empty.")
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatGraphOutput(s, jsonOutput)
}

// --- export subcommand ---

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the committed graph to YAML or JSON",
	RunE:  runGraphExport,
}

func runGraphExport(cmd *cobra.Command, args []string) error {
	s, closeKV, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer closeKV()

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("export.dir")
	}
	format, _ := cmd.Flags().GetString("format")

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(dir)
	case "json":
		path, err = s.ExportJSON(dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- clear subcommand ---

var graphClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the committed graph and its persisted copy",
	RunE:  runGraphClear,
}

func runGraphClear(cmd *cobra.Command, args []string) error {
	kv, err := store.OpenKV(types.StoreConfig{DataDir: dataDir()})
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := store.NewStore(kv).Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Knowledge graph cleared.")
	return nil
}

// --- shared helpers ---

// openStore opens the key-value store and restores persisted state.
// Restore failures degrade to an empty store with a warning.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	kv, err := store.OpenKV(types.StoreConfig{DataDir: dataDir()})
	if err != nil {
		return nil, nil, err
	}

	s := store.NewStore(kv)
	if _, err := s.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return s, func() { kv.Close() }, nil
}

// formatGraphOutput prints the committed graph as tables, or as JSON when
// jsonOutput is set.
func formatGraphOutput(s *store.Store, jsonOutput bool) error {
	graph, ok := s.Graph()
	if !ok {
		fmt.Println("No knowledge graph committed.")
		return nil
	}
	statistics, _ := s.Statistics()

	if jsonOutput {
		out := store.Export{Graph: graph, Statistics: statistics}
		if updated, ok := s.LastUpdated(); ok {
			out.UpdatedAt = updated
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-12s  %-5s  %-8s  %s\n",
		"Node", "Type", "Level", "Strength", "Chain")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, n := range graph.Nodes {
		label := n.Label
		if len(label) > 28 {
			label = label[:25] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-28s  %-12s  %-5d  %-8s  %s\n",
			label, n.Type, n.ChainLevel, fmt.Sprintf("%d%%", n.Strength), n.ParentChain)
	}

	if len(graph.Chains) > 0 {
		fmt.Fprintf(os.Stdout, "\n%-28s  %-28s  %-18s  %s\n",
			"From", "To", "Relationship", "Strength")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 84))
		for _, c := range graph.Chains {
			fmt.Fprintf(os.Stdout, "%-28s  %-28s  %-18s  %d%%\n",
				c.From, c.To, c.Relationship, c.Strength)
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d nodes, %d connections, average strength %d%%, strongest chain %s\n",
		statistics.TotalNodes, statistics.TotalConnections,
		statistics.AverageStrength, statistics.StrongestChain)
	return nil
}

func init() {
	graphShowCmd.Flags().Bool("json", false, "output the graph as JSON")
	graphRefreshCmd.Flags().Bool("json", false, "output the refreshed graph as JSON")
	graphExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	graphExportCmd.Flags().String("dir", "", "export directory (default: output)")

	graphCmd.AddCommand(graphShowCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphRefreshCmd)
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphClearCmd)

	rootCmd.AddCommand(graphCmd)
}
