package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Administer the exporter directory",
	Long: `Add, update and remove exporter entries. An exporter entry links an
address to the organisation name shown when its documents are verified.

Writes go through the same signing lifecycle as uploads.`,
}

var exporterAddCmd = &cobra.Command{
	Use:   "add <address> <info>",
	Short: "Register an exporter",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runExporterAdd,
}

var exporterAlterCmd = &cobra.Command{
	Use:   "alter <address> <info>",
	Short: "Update an exporter's info",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runExporterAlter,
}

var exporterDeleteCmd = &cobra.Command{
	Use:   "delete <address>",
	Short: "Remove an exporter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExporterDelete,
}

var exporterInfoCmd = &cobra.Command{
	Use:   "info [address]",
	Short: "Show an exporter entry",
	Long:  `Show the directory entry for an address, or for the connected account.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExporterInfo,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Contract administration",
}

var adminCountersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show exporter and document totals",
	Args:  cobra.NoArgs,
	RunE:  runAdminCounters,
}

var adminOwnerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show the contract owner",
	Args:  cobra.NoArgs,
	RunE:  runAdminOwner,
}

var adminChangeOwnerCmd = &cobra.Command{
	Use:   "change-owner <address>",
	Short: "Transfer contract ownership",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdminChangeOwner,
}

func init() {
	exporterCmd.AddCommand(exporterAddCmd)
	exporterCmd.AddCommand(exporterAlterCmd)
	exporterCmd.AddCommand(exporterDeleteCmd)
	exporterCmd.AddCommand(exporterInfoCmd)
	rootCmd.AddCommand(exporterCmd)

	adminCmd.AddCommand(adminCountersCmd)
	adminCmd.AddCommand(adminOwnerCmd)
	adminCmd.AddCommand(adminChangeOwnerCmd)
	rootCmd.AddCommand(adminCmd)
}

// arg returns args[i], or empty when absent. Missing fields are reported
// by the service's validation.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runExporterAdd(cmd *cobra.Command, args []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	sess, err := exporterService.Add(cmd.Context(), arg(args, 0), arg(args, 1), printTransition(cmd))
	if err != nil {
		return err
	}
	printReceipt(cmd, sess)
	return nil
}

func runExporterAlter(cmd *cobra.Command, args []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	sess, err := exporterService.Alter(cmd.Context(), arg(args, 0), arg(args, 1), printTransition(cmd))
	if err != nil {
		return err
	}
	printReceipt(cmd, sess)
	return nil
}

func runExporterDelete(cmd *cobra.Command, args []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	sess, err := exporterService.Delete(cmd.Context(), arg(args, 0), printTransition(cmd))
	if err != nil {
		return err
	}
	printReceipt(cmd, sess)
	return nil
}

func runExporterInfo(cmd *cobra.Command, args []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	exp, err := exporterService.Info(cmd.Context(), arg(args, 0))
	if err != nil {
		return err
	}

	cmd.Printf("Address: %s\n", exp.Address)
	if strings.TrimSpace(exp.Info) == "" {
		cmd.Println("Info:    (not registered)")
	} else {
		cmd.Printf("Info:    %s\n", exp.Info)
	}
	return nil
}

func runAdminCounters(cmd *cobra.Command, _ []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	c, err := exporterService.Counters(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Exporters: %d\n", c.Exporters)
	cmd.Printf("Documents: %d\n", c.Hashes)
	return nil
}

func runAdminOwner(cmd *cobra.Command, _ []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	owner, err := exporterService.Owner(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Owner: %s\n", owner)
	if sessionService != nil && owner.Equal(sessionService.Account()) {
		cmd.Println("(the connected account)")
	}
	return nil
}

func runAdminChangeOwner(cmd *cobra.Command, args []string) error {
	if exporterService == nil {
		return errors.New("exporter service not configured")
	}
	sess, err := exporterService.ChangeOwner(cmd.Context(), arg(args, 0), printTransition(cmd))
	if err != nil {
		return err
	}
	printReceipt(cmd, sess)
	return nil
}
