package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/backup"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/cleaner"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/config"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/dedupe"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/prompt"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

var (
	file          string
	mode          string
	dryRun        bool
	showPasswords bool
	force         bool
	output        string
	reportPath    string
)

const largeFileBytes = 100 * 1024 * 1024

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Deduplicate a password export",
	Long: `Load a CSV export, find duplicate login entries and resolve them.

Modes:
  analyze      report duplicate groups, change nothing (default)
  interactive  decide each URL-level group at the terminal
  auto         collapse same-domain same-credential groups automatically`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &config.Options{
			File:          file,
			Mode:          config.Mode(viper.GetString("mode")),
			DryRun:        dryRun,
			ShowPasswords: showPasswords,
			Force:         force,
			Output:        output,
			Report:        viper.GetString("report"),
			Verbose:       viper.GetBool("verbose"),
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		return runClean(opts)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&file, "file", "f", "", "CSV export to clean (required)")
	cleanCmd.Flags().StringVarP(&mode, "mode", "m", "analyze", "Cleaning mode (analyze, interactive, auto)")
	cleanCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Run the whole pipeline but write no files")
	cleanCmd.Flags().BoolVar(&showPasswords, "show-passwords", false, "Show passwords in clear text instead of masked")
	cleanCmd.Flags().BoolVar(&force, "force", false, "Skip the typed confirmation before automatic deletion")
	cleanCmd.Flags().StringVarP(&output, "output", "o", "", "Path for the cleaned file (default <file>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&reportPath, "report", "", "Path to save JSON run report (optional)")
	cleanCmd.MarkFlagRequired("file")

	viper.BindPFlag("mode", cleanCmd.Flags().Lookup("mode"))
	viper.BindPFlag("report", cleanCmd.Flags().Lookup("report"))
}

type runReport struct {
	RunID       string                 `json:"run_id"`
	CleanedAt   time.Time              `json:"cleaned_at"`
	InputPath   string                 `json:"input_path"`
	Mode        string                 `json:"mode"`
	DryRun      bool                   `json:"dry_run"`
	Aborted     bool                   `json:"aborted"`
	Analysis    cleaner.Analysis       `json:"analysis"`
	Summary     dedupe.Summary         `json:"summary"`
	Groups      []cleaner.GroupOutcome `json:"groups,omitempty"`
	BackupPath  string                 `json:"backup_path,omitempty"`
	CleanedPath string                 `json:"cleaned_path,omitempty"`
	DeletedPath string                 `json:"deleted_path,omitempty"`
}

func runClean(opts *config.Options) error {
	info, err := os.Stat(opts.File)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	if info.Size() > largeFileBytes {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Warning: %s is %s; this may take a while.", opts.File, formatSize(info.Size()))))
	}

	ds, err := vault.Load(opts.File)
	if err != nil {
		return err
	}
	logger.Debug().Int("rows", ds.Len()).Str("file", opts.File).Msg("export loaded")

	c := &cleaner.Cleaner{Options: opts, Log: logger}
	if ds.Len() > 0 {
		bar := progressbar.NewOptions(ds.Len(),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("Normalizing entries..."),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
		c.Progress = func(done, total int) { bar.Add(1) }
	}
	if opts.Mode == config.ModeInteractive {
		c.Prompter = prompt.New(os.Stdin, os.Stdout, ds.Schema, opts.ShowPasswords)
	}

	out, err := c.Run(ds)
	if err != nil {
		return err
	}
	fmt.Println()

	rep := runReport{
		RunID:     uuid.NewString(),
		CleanedAt: time.Now(),
		InputPath: opts.File,
		Mode:      string(opts.Mode),
		DryRun:    opts.DryRun,
		Aborted:   out.Aborted,
		Analysis:  out.Analysis,
		Summary:   out.Result.Summary,
		Groups:    out.Groups,
	}

	if opts.Mode == config.ModeAnalyze {
		printAnalysis(out.Analysis)
		printSummary(out.Result.Summary, true)
		return saveReportIfRequested(opts.Report, rep)
	}

	if out.Result.Summary.TotalRemoved() == 0 {
		fmt.Println(okStyle.Render("No duplicates to remove; the export is already clean."))
		return saveReportIfRequested(opts.Report, rep)
	}

	if opts.Mode == config.ModeAuto && !opts.Force && !opts.DryRun {
		if !confirmDeletion(ds.Schema, out.Result, opts.ShowPasswords) {
			fmt.Println("Cancelled; no files were changed.")
			return nil
		}
	}

	keptPath := opts.Output
	if keptPath == "" {
		keptPath = backup.CleanedPath(opts.File)
	}
	deletedPath := backup.DeletedPath(opts.File)

	if opts.DryRun {
		fmt.Printf("[Dry-run] Would write %d rows to %s\n", out.Result.Kept.Len(), keptPath)
		fmt.Printf("[Dry-run] Would write %d removed rows to %s\n", out.Result.Removed.Len(), deletedPath)
		printSummary(out.Result.Summary, false)
		return saveReportIfRequested(opts.Report, rep)
	}

	store := &backup.Store{Log: logger}
	backupPath, err := store.BackupOriginal(opts.File)
	if err != nil {
		return err
	}
	if err := vault.Save(out.Result.Kept, keptPath); err != nil {
		return err
	}
	if err := vault.Save(out.Result.Removed, deletedPath); err != nil {
		return err
	}
	rep.BackupPath = backupPath
	rep.CleanedPath = keptPath
	rep.DeletedPath = deletedPath

	fmt.Println(okStyle.Render("Cleaned file written to: " + keptPath))
	fmt.Println("Removed entries saved to:", deletedPath)
	fmt.Println("Original backed up to:", backupPath)
	if out.Aborted {
		fmt.Println(warnStyle.Render("Run aborted early; only the groups confirmed before quitting were removed."))
	}

	printSummary(out.Result.Summary, false)
	return saveReportIfRequested(opts.Report, rep)
}

// confirmDeletion previews what auto mode is about to remove and requires the
// word DELETE typed in full. Anything else cancels the run.
func confirmDeletion(schema *vault.Schema, res dedupe.Result, showPasswords bool) bool {
	const previewLimit = 10

	fmt.Println()
	fmt.Println(warnStyle.Render(fmt.Sprintf("About to permanently remove %d entries:", res.Removed.Len())))
	for i, r := range res.Removed.Rows {
		if i == previewLimit {
			fmt.Printf("  ... and %d more\n", res.Removed.Len()-previewLimit)
			break
		}
		var parts []string
		for _, f := range prompt.RenderFields(schema, r, showPasswords) {
			parts = append(parts, f.Column+"="+f.Value)
		}
		fmt.Printf("  [%d] %s\n", i+1, strings.Join(parts, "  "))
	}
	fmt.Println("\nThe removed rows are kept in the deleted-entries file and can be restored with 'passclean undo'.")
	fmt.Print("Type DELETE to continue: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "DELETE"
}

func printAnalysis(a cleaner.Analysis) {
	fmt.Println(titleStyle.Render("Duplicate analysis"))
	fmt.Printf("Exact duplicate groups:            %d\n", a.FullRowGroups)
	fmt.Printf("Same-URL groups:                   %d\n", a.URIGroups)
	fmt.Printf("Same URL and username groups:      %d\n", a.URIUserGroups)
	fmt.Printf("Same domain and credential groups: %d\n", a.DomainCredGroups)
}

func printSummary(s dedupe.Summary, analysisOnly bool) {
	fmt.Println("\n===== Summary =====")
	fmt.Printf("Original rows: %d\n", s.OriginalCount)
	fmt.Printf("Fully duplicate rows removed: %d\n", s.FullDuplicatesRemoved)
	fmt.Printf("Partial duplicate rows removed: %d\n", s.PartialDuplicatesRemoved)
	fmt.Printf("Total rows removed: %d\n", s.TotalRemoved())
	fmt.Printf("Remaining rows: %d\n", s.RemainingCount)
	if analysisOnly {
		fmt.Println("(analysis only; no files were changed)")
	}
	fmt.Println("===================")
}

func saveReportIfRequested(path string, rep runReport) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	fmt.Println("Report saved to:", path)
	return nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	switch {
	case bytes > GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes > MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes > KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
