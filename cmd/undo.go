package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/backup"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

var (
	undoCleaned string
	undoDeleted string
	undoOutput  string
)

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Merge a cleaned file and its deleted entries back together",
	Long: `Rebuild the pre-cleaning export by appending the deleted-entries file
to the cleaned file. Both files must come from the same run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if undoCleaned == "" {
			return fmt.Errorf("please provide the cleaned file using --cleaned")
		}
		if undoDeleted == "" {
			undoDeleted = guessDeletedPath(undoCleaned)
		}
		if undoOutput == "" {
			undoOutput = restoredPath(undoCleaned)
		}

		merged, err := backup.Undo(undoCleaned, undoDeleted)
		if err != nil {
			return err
		}
		if err := vault.Save(merged, undoOutput); err != nil {
			return err
		}

		logger.Info().Int("rows", merged.Len()).Str("output", undoOutput).Msg("undo complete")
		fmt.Printf("Restored %d rows to %s\n", merged.Len(), undoOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)

	undoCmd.Flags().StringVar(&undoCleaned, "cleaned", "", "Cleaned file from a previous run (required)")
	undoCmd.Flags().StringVar(&undoDeleted, "deleted", "", "Deleted-entries file (default derived from --cleaned)")
	undoCmd.Flags().StringVarP(&undoOutput, "output", "o", "", "Where to write the restored export (default <name>_restored.csv)")
	undoCmd.MarkFlagRequired("cleaned")
}

// guessDeletedPath maps export_cleaned.csv to export_deleted_entries.csv.
func guessDeletedPath(cleaned string) string {
	if i := strings.LastIndex(cleaned, "_cleaned"); i >= 0 {
		original := cleaned[:i] + cleaned[i+len("_cleaned"):]
		return backup.DeletedPath(original)
	}
	return backup.DeletedPath(cleaned)
}

func restoredPath(cleaned string) string {
	if i := strings.LastIndex(cleaned, "_cleaned"); i >= 0 {
		cleaned = cleaned[:i] + cleaned[i+len("_cleaned"):]
	}
	ext := ".csv"
	base := cleaned
	if j := strings.LastIndex(cleaned, "."); j > 0 {
		base, ext = cleaned[:j], cleaned[j:]
	}
	return base + "_restored" + ext
}
