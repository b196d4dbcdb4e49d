package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"menuhub/internal/bootstrap"
	"menuhub/internal/errs"
	"menuhub/internal/usecase/restaurantimport"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect import runs",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent import runs",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *restaurantimport.Service) error {
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		items, err := svc.ListAuditLogs(cmd.Context(), restaurantimport.ListAuditLogsInput{
			Status: status,
			Limit:  limit,
		})
		if err != nil {
			return errs.Wrap(err, "list import runs")
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), renderAuditLogs(items))
		return err
	}),
}

var auditShowCmd = &cobra.Command{
	Use:   "show <id|latest>",
	Short: "Show one import run with its details",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *restaurantimport.Service) error {
		var (
			item restaurantimport.AuditLogView
			err  error
		)
		if arg := cmd.Flags().Arg(0); arg == "latest" {
			item, err = svc.LatestAuditLog(cmd.Context())
		} else {
			id, parseErr := strconv.ParseUint(arg, 10, 64)
			if parseErr != nil {
				return fmt.Errorf("invalid import run id %q", arg)
			}
			item, err = svc.GetAuditLog(cmd.Context(), id)
		}
		if err != nil {
			return errs.Wrap(err, "show import run")
		}
		return writeJSON(cmd.OutOrStdout(), item)
	}),
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd, auditShowCmd)

	auditListCmd.Flags().String("status", "", "Filter by status (pending, processing, completed, failed)")
	auditListCmd.Flags().Int("limit", 20, "Maximum number of runs")
	auditListCmd.Flags().Bool("json", false, "Print the runs as JSON")
}
