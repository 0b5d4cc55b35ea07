package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/backup"
)

var backupsFile string

// backupsCmd represents the backups command
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List recovery files next to an export",
	Long:  `List the backup, cleaned and deleted-entries files that exist for an export, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := backup.List(backupsFile)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No recovery files found for", backupsFile)
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Recovery files for %s", backupsFile)))
		for _, e := range entries {
			fmt.Printf("  %-8s %-10s %s  %s\n",
				e.Kind, formatSize(e.Size), e.Modified.Format("2006-01-02 15:04:05"), e.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)

	backupsCmd.Flags().StringVarP(&backupsFile, "file", "f", "", "Original export the recovery files belong to (required)")
	backupsCmd.MarkFlagRequired("file")
}
