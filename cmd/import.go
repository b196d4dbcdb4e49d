package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"menuhub/internal/bootstrap"
	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/errs"
	"menuhub/internal/usecase/restaurantimport"
)

var errImportRunFailed = errors.New("import run failed")

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import restaurants, menus and menu items from a JSON file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *restaurantimport.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		sourceName, _ := cmd.Flags().GetString("source-name")
		asJSON, _ := cmd.Flags().GetBool("json")

		result, err := svc.Import(ctx, restaurantimport.ImportInput{
			FilePath:   file,
			SourceName: sourceName,
		})
		if err != nil {
			return errs.Wrap(err, "import restaurants")
		}

		if asJSON {
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return errs.Wrap(err, "write import result")
			}
		} else if _, err := fmt.Fprint(cmd.OutOrStdout(), renderImportResult(result)); err != nil {
			return errs.Wrap(err, "write import result")
		}

		if !result.Success {
			return fmt.Errorf("%w: audit log #%d", errImportRunFailed, result.AuditLogID)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("file", "", "JSON file to import, relative to import.root_dir")
	importCmd.Flags().String("source-name", "", "File name recorded in the audit log (defaults to the file base name)")
	importCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = importCmd.MarkFlagRequired("file")
}
