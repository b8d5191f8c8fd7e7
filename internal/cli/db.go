package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsdesk/ticket-admin/internal/service"
)

func newDBCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Create and seed the option tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create missing tables, then insert the default rows",
		Long: `Create missing tables, then insert the default rows.

Existing tables and rows are left alone, so init can be re-run safely.
Requires POSTGRES_DSN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd, rt.app.DBInit.Init(cmd.Context()))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert the default rows into existing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd, rt.app.DBInit.Seed(cmd.Context()))
		},
	})
	return cmd
}

func report(cmd *cobra.Command, res service.DBInitResult) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), defaultTheme.success(res.Message))
	if res.Inserted > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), defaultTheme.hint(fmt.Sprintf("%d rows inserted", res.Inserted)))
	}
	return nil
}
