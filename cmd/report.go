package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"repolens/internal/chunk"
	"repolens/internal/store"
	"repolens/internal/syntaxerr"
)

var flagRunID int64

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show an archived run's statistics and syntax errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDB == "" {
			return fmt.Errorf("--db is required")
		}
		st, err := store.Open(flagDB)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer st.Close()

		var run *store.RunRecord
		if flagRunID > 0 {
			run, err = st.Run(flagRunID)
		} else {
			run, err = st.LatestRun()
		}
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no archived runs in %s; run 'repolens process <path> --db %s' first", flagDB, flagDB)
		}

		errs, err := st.RunErrors(run.ID)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Run %d: %s", run.ID, run.Repository)))
		fmt.Println(subtitleStyle.Render(run.CreatedAt.Format("2006-01-02 15:04:05")))
		fmt.Println()

		s := run.Stats
		fmt.Printf("  Files processed:  %d\n", s.FilesProcessed)
		fmt.Printf("  Chunks created:   %d\n", s.ChunksCreated)
		fmt.Printf("  Processing time:  %.2fs\n", s.ProcessingTime)
		if s.Errors > 0 {
			fmt.Printf("  File errors:      %s\n", errorStyle.Render(fmt.Sprintf("%d", s.Errors)))
		}

		if len(s.FilesByType) > 0 {
			fmt.Println()
			fmt.Println(dimStyle.Render("  By category:"))
			for _, cat := range sortedCategories(s.FilesByType) {
				fmt.Printf("    %-14s %d files, %d chunks\n", cat, s.FilesByType[cat], s.ChunksByType[cat])
			}
		}

		fmt.Println()
		report := syntaxerr.BuildReport(errs)
		if !report.HasSyntaxErrors {
			fmt.Println(successStyle.Render(report.Summary))
			return nil
		}

		fmt.Println(warnStyle.Render(report.Summary))
		for _, lang := range report.Languages() {
			fmt.Printf("\n  %s\n", titleStyle.Render(lang))
			for _, r := range report.ErrorsByLanguage[lang] {
				loc := r.FilePath
				if r.Line > 0 {
					loc = fmt.Sprintf("%s:%d", r.FilePath, r.Line)
				}
				fmt.Printf("    %s %s\n", errorStyle.Render("✗"), loc)
				fmt.Printf("      %s\n", dimStyle.Render(r.Message))
				if r.Entity != "" {
					fmt.Printf("      %s\n", dimStyle.Render("in "+r.Entity))
				}
			}
		}
		return nil
	},
}

func sortedCategories(m map[chunk.Category]int) []chunk.Category {
	cats := make([]chunk.Category, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return strings.Compare(string(cats[i]), string(cats[j])) < 0 })
	return cats
}

func init() {
	reportCmd.Flags().StringVar(&flagDB, "db", "", "SQLite archive to read")
	reportCmd.Flags().Int64Var(&flagRunID, "run", 0, "run ID to show (default: latest)")
	rootCmd.AddCommand(reportCmd)
}
