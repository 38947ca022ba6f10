// Command collector runs the Garmin exercise catalog pipeline from a
// terminal. Configuration comes from the environment, same as the
// deployed function.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hysterresis/garmin-exercises/pkg/bootstrap"
	"github.com/hysterresis/garmin-exercises/pkg/errors"
)

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Garmin exercise catalog collector",
	Long:  "Fetches the Garmin Connect exercise catalogs, reconciles them into per-category tables and publishes the result to Google Sheets.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch all catalogs, build the tables and export them",
	RunE:  runRun,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the most recent snapshots without refetching",
	RunE:  runExport,
}

var deleteSheetCmd = &cobra.Command{
	Use:   "delete-sheet",
	Short: "Delete the published spreadsheet and forget its ID",
	RunE:  runDeleteSheet,
}

func init() {
	runCmd.Flags().Bool("skip-export", false, "build and snapshot the tables without touching the spreadsheet")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteSheetCmd)
}

func main() {
	bootstrap.InitLogger()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService(ctx context.Context) (*bootstrap.Service, *slog.Logger, error) {
	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, slog.With("service", "collector-cli"), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	skipExport, _ := cmd.Flags().GetBool("skip-export")
	if !skipExport && svc.Sheets == nil {
		return errors.New(errors.CodeValidationError,
			"no Sheets credentials configured; set SHEETS_CREDENTIALS_FILE or pass --skip-export")
	}

	c := svc.NewCollector(logger, !skipExport)
	result, err := c.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Run complete", "run_id", result.RunID, "row_counts", result.RowCounts)
	if result.SheetURL != "" {
		fmt.Println(result.SheetURL)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}
	if svc.Sheets == nil {
		return errors.New(errors.CodeValidationError,
			"no Sheets credentials configured; set SHEETS_CREDENTIALS_FILE")
	}

	c := svc.NewCollector(logger, true)
	result, err := c.ExportFromSnapshots(ctx)
	if err != nil {
		return err
	}

	logger.Info("Export complete", "row_counts", result.RowCounts)
	fmt.Println(result.SheetURL)
	return nil
}

func runDeleteSheet(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	svc, logger, err := newService(ctx)
	if err != nil {
		return err
	}

	m := svc.NewMaterializer(logger)
	if m == nil {
		return errors.New(errors.CodeValidationError,
			"no Sheets credentials configured; set SHEETS_CREDENTIALS_FILE")
	}

	if err := m.Delete(ctx); err != nil {
		return err
	}
	logger.Info("Spreadsheet deleted")
	return nil
}
