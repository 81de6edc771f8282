package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixlens/pixlens/internal/core"
	"github.com/pixlens/pixlens/internal/output"
)

var rateLimitCmd = &cobra.Command{
	Use:   "rate-limit",
	Short: "Manage persisted rate limit state",
}

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show persisted per-endpoint rate limit state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := output.ParseFormat(rateLimitOutput)
		if err != nil {
			return err
		}

		snapshots, err := loadSnapshots(cmd)
		if err != nil {
			return err
		}

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(snapshots, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		}

		fmt.Println(output.RateLimitTable(snapshots))
		return nil
	},
}

var (
	rateLimitOutput        string
	rateLimitResetEndpoint string
	rateLimitResetAll      bool
)

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset persisted rate limit state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint := strings.TrimSpace(rateLimitResetEndpoint)
		if !rateLimitResetAll && endpoint == "" {
			return errors.New("must specify --all or --endpoint")
		}

		snapshots, err := loadSnapshots(cmd)
		if err != nil {
			return err
		}

		store, closeStore, err := openSnapshotStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		if store == nil {
			return errors.New("no snapshot store configured")
		}

		before := len(snapshots)
		if rateLimitResetAll {
			snapshots = map[string]core.RateLimitSnapshot{}
		} else {
			delete(snapshots, endpoint)
		}

		if err := store.Save(cmd.Context(), snapshots); err != nil {
			return err
		}

		fmt.Printf("Deleted %d rate limit entr(ies)\n", before-len(snapshots))
		return nil
	},
}

func init() {
	rateLimitListCmd.Flags().StringVar(&rateLimitOutput, "output", "table", "Output format: table, json")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetAll, "all", false, "Reset every endpoint")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetEndpoint, "endpoint", "", "Reset a single endpoint")

	rateLimitCmd.AddCommand(rateLimitListCmd)
	rateLimitCmd.AddCommand(rateLimitResetCmd)
	rootCmd.AddCommand(rateLimitCmd)
}

func loadSnapshots(cmd *cobra.Command) (map[string]core.RateLimitSnapshot, error) {
	store, closeStore, err := openSnapshotStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closeStore()
	if store == nil {
		return nil, errors.New("no snapshot store configured: set ratelimit.save_file or store.path")
	}

	snapshots, err := store.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = map[string]core.RateLimitSnapshot{}
	}
	return snapshots, nil
}
