package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaurav-prasanna/actapipe/config"
	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/fetch"
	"github.com/gaurav-prasanna/actapipe/core/output"
	"github.com/gaurav-prasanna/actapipe/core/pipeline"
	"github.com/gaurav-prasanna/actapipe/core/render"
	"github.com/gaurav-prasanna/actapipe/core/strip"
	"github.com/gaurav-prasanna/actapipe/core/tokenize"
	"github.com/gaurav-prasanna/actapipe/store"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagFormat    string
	flagOutputDir string
	flagCSV       bool
	flagSQLite    string
	flagWorkers   int
	flagTimeout   time.Duration
	flagTokens    bool
)

var processCmd = &cobra.Command{
	Use:   "process <file|dir|url>...",
	Short: "Process transcripts into session records",
	Long: `Process reads each transcript, strips boilerplate, extracts the session date,
chamber and type, and segments the text into speaker interventions.

Directories are searched recursively for .pdf, .html and .json files. A URL
to an index page is crawled for linked documents.

Examples:
  actapipe process ./gacetas --format json --output_dir ./out
  actapipe process 1234.pdf --format markdown
  actapipe process ./gacetas --csv --tokens --sqlite actas.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&flagFormat, "format", "", "Output format: json, markdown or pdf")
	processCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	processCmd.Flags().BoolVar(&flagCSV, "csv", false, "Also write sessions.csv and interventions.csv")
	processCmd.Flags().StringVar(&flagSQLite, "sqlite", "", "Also store sessions and interventions in this SQLite file")
	processCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Documents processed concurrently")
	processCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-document timeout (0 keeps the configured value)")
	processCmd.Flags().BoolVar(&flagTokens, "tokens", false, "Tokenize intervention text when flattening")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, &cfg)
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagTimeout > 0 {
		cfg.DocumentTimeout = flagTimeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := render.ForFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	writer, err := output.New(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs, err := resolveInputs(ctx, args, fetch.New())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no documents found in %v", args)
	}
	fmt.Fprintf(os.Stdout, "Found %d documents to process\n", len(inputs))

	pipe := pipeline.New(pipelineConfig(cfg, logger))
	res := pipe.Batch(ctx, inputs)

	for _, rec := range res.Records {
		data, err := renderer.Render(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Render error %s: %v\n", rec.Name, err)
			continue
		}
		path, err := writer.WriteSession(rec, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", f)
	}

	if err := export(ctx, cfg, writer, res.Records, flagTokens); err != nil {
		return err
	}

	if n := len(res.Failures); n > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d documents failed\n", n, len(inputs))
	}
	return nil
}

// applyOutputFlags overrides the output settings shared by process and flatten.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	if flagFormat != "" {
		cfg.Output.Format = flagFormat
	}
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}
	if cmd.Flags().Changed("csv") {
		cfg.Output.CSV = flagCSV
	}
	if flagSQLite != "" {
		cfg.Store.SQLitePath = flagSQLite
	}
}

func pipelineConfig(cfg config.Config, logger *slog.Logger) pipeline.Config {
	offset := cfg.Strip.TitleOffset
	if offset == 0 {
		offset = strip.NoTitleOffset
	}
	return pipeline.Config{
		Strip:           strip.Options{TitleOffset: offset},
		Rules:           cfg.Segment,
		Workers:         cfg.Workers,
		DocumentTimeout: cfg.DocumentTimeout,
		Logger:          logger,
	}
}

// export flattens the records and writes the CSV files and SQLite tables
// that are enabled.
func export(ctx context.Context, cfg config.Config, writer *output.Writer, records []*core.SessionRecord, tokens bool) error {
	if !cfg.Output.CSV && cfg.Store.SQLitePath == "" {
		return nil
	}
	var tok core.Tokenizer
	if tokens {
		tok = tokenize.New()
	}
	rows := pipeline.Flatten(records, tok)

	if cfg.Output.CSV {
		for _, write := range []func() (string, error){
			func() (string, error) { return writer.WriteSessionsCSV(records) },
			func() (string, error) { return writer.WriteInterventionsCSV(rows) },
		} {
			path, err := write()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
		}
	}

	if cfg.Store.SQLitePath != "" {
		db, err := store.Open(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Init(ctx); err != nil {
			return err
		}
		if err := db.Replace(ctx, records, rows); err != nil {
			return fmt.Errorf("storing batch: %w", err)
		}
		fmt.Fprintf(os.Stdout, "  ✓ Stored %d sessions, %d interventions in %s\n",
			len(records), len(rows), cfg.Store.SQLitePath)
	}
	return nil
}
