package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/output"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <sessions.json|dir>...",
	Short: "Flatten session records into one row per intervention",
	Long: `Flatten reads session records written by "process --format json" and writes
interventions.csv, numbering interventions from 0 across all sessions in
session id order.

Examples:
  actapipe flatten ./out --tokens
  actapipe flatten ./out --sqlite actas.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	flattenCmd.Flags().StringVar(&flagSQLite, "sqlite", "", "Also store sessions and interventions in this SQLite file")
	flattenCmd.Flags().BoolVar(&flagTokens, "tokens", false, "Tokenize intervention text")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, &cfg)
	cfg.Output.CSV = true

	records, err := readRecords(args)
	if err != nil {
		return err
	}
	writer, err := output.New(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	return export(context.Background(), cfg, writer, records, flagTokens)
}

// readRecords loads session JSON files, expanding directories, and sorts
// the records by id.
func readRecords(args []string) ([]*core.SessionRecord, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}

	var records []*core.SessionRecord
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var rec core.SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, &rec)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
