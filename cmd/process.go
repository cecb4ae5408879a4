package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"repolens/internal/processor"
	"repolens/internal/store"
)

var (
	flagOutput  string
	flagDB      string
	flagWorkers int
)

var processCmd = &cobra.Command{
	Use:   "process <path>",
	Short: "Chunk a repository and save the run report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		workers := flagWorkers
		if workers == 0 {
			workers = cfg.Workers
		}
		proc := processor.New(root, processor.Options{
			Workers:     workers,
			ExcludeDirs: cfg.Chunking.ExcludeDirs,
			ChunkSize:   cfg.Chunking.ChunkSize,
			CodeOverlap: cfg.Chunking.CodeOverlap,
			DocOverlap:  cfg.Chunking.DocOverlap,
		}, slog.Default())

		fmt.Printf("Processing %s...\n", root)
		start := time.Now()

		if _, err := proc.ProcessRepository(cmd.Context()); err != nil {
			return err
		}

		path, err := proc.SaveReport(flagOutput)
		if err != nil {
			return err
		}

		stats := proc.Stats()
		fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("  Files:  %d processed, %d errors\n", stats.FilesProcessed, stats.Errors)
		fmt.Printf("  Chunks: %d\n", stats.ChunksCreated)
		fmt.Printf("  Report: %s\n", path)

		if report := proc.SyntaxErrorReport(); report.HasSyntaxErrors {
			fmt.Printf("\n%s\n", report.Summary)
		}

		if flagDB != "" {
			st, err := store.Open(flagDB)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer st.Close()

			runID, err := st.SaveRun(proc.Report(), proc.SyntaxErrorReport().Errors)
			if err != nil {
				return fmt.Errorf("archive run: %w", err)
			}
			fmt.Printf("  Archived as run %d in %s\n", runID, flagDB)
		}

		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&flagOutput, "output", "o", "./data", "directory for the chunks report")
	processCmd.Flags().StringVar(&flagDB, "db", "", "optionally archive the run in this SQLite database")
	processCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel file workers (default: number of CPUs)")
	rootCmd.AddCommand(processCmd)
}
