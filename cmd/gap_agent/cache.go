package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the embedding cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count cached vectors for the configured model",
	RunE:  runCacheStats,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached vectors for the configured model",
	RunE:  runCachePurge,
}

func init() {
	cacheCmd.PersistentFlags().String("provider", "", "Embedding provider: lexical or gemini")
	cacheCmd.PersistentFlags().String("cache", "", "Embedding cache: none, memory, redis or postgres")

	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no embedding cache configured")
	}
	emb, err := a.provider(ctx)
	if err != nil {
		return err
	}

	n, err := store.Count(ctx, emb.Name())
	if err != nil {
		return fmt.Errorf("failed to count cached vectors: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "backend=%s model=%s vectors=%d\n", a.cfg.Cache.Backend, emb.Name(), n)
	return err
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no embedding cache configured")
	}
	emb, err := a.provider(ctx)
	if err != nil {
		return err
	}

	n, err := store.Purge(ctx, emb.Name())
	if err != nil {
		return fmt.Errorf("failed to purge cached vectors: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Purged %d vectors for %s\n", n, emb.Name())
	return err
}
