package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ecomkassa/ferma-gateway/internal/auditlog"
	"github.com/ecomkassa/ferma-gateway/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print audit log statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	audit, err := auditlog.Open(cfg.AuditDBPath)
	if err != nil {
		slog.Error("failed to open audit log", "error", err, "db_path", cfg.AuditDBPath)
		return err
	}
	defer audit.Close()

	stats, err := audit.Aggregate()
	if err != nil {
		slog.Error("failed to aggregate stats", "error", err)
		return err
	}

	fmt.Printf("Total requests:  %d\n", stats.Total)
	fmt.Printf("Errors:          %d\n", stats.Errors)
	fmt.Printf("Avg duration:    %.1f ms\n", stats.AvgDurationMS)
	fmt.Println("By operation:")
	for op, count := range stats.ByOperation {
		fmt.Printf("  %-10s %d\n", op, count)
	}
	return nil
}
