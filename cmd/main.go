package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trmnlhealth/internal/app"
	"trmnlhealth/internal/calculator"
	"trmnlhealth/internal/config"
	"trmnlhealth/internal/logger"
	"trmnlhealth/internal/repository"
	"trmnlhealth/internal/service"
	"trmnlhealth/pkg/trmnl"
)

func initializeDependencies() (app.PublishApp, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	trackerRepository := repository.NewTrackerCsvRepository(settings.CSVPath)
	stateRepository := repository.NewStateFileRepository(settings.StatePath)
	summaryService := calculator.NewSummaryService(settings)
	dashboardService := service.NewDashboardService(settings)
	fingerprintService := service.NewFingerprintService()
	trmnlClient := trmnl.NewClient(settings.PluginURL, settings.DeviceAPIKey)

	return app.NewPublishApp(
		trackerRepository,
		stateRepository,
		summaryService,
		dashboardService,
		fingerprintService,
		trmnlClient,
	), nil
}

func newPublishCmd() *cobra.Command {
	request := app.PublishRequest{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Read tracker data, summarize it, and push to TRMNL",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := initializeDependencies()
			if err != nil {
				return err
			}

			result, err := handler.Publish(cmd.Context(), request)
			if err != nil {
				return err
			}

			if result.Skipped {
				color.Yellow("No changes detected; skipping publish.")
				return nil
			}

			if request.ShowPayload || request.DryRun {
				if err := printJSON(result.Payload); err != nil {
					return err
				}
			}

			if request.DryRun {
				color.Cyan("Dry run complete — payload not sent to TRMNL.")
				return nil
			}

			color.Green("Dashboard updated.")
			if len(result.Response) > 0 {
				return printJSON(result.Response)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&request.LookbackDays, "lookback-days", 7, "Rolling window (days) for averages")
	cmd.Flags().BoolVar(&request.DryRun, "dry-run", false, "Print payload without hitting the TRMNL webhook")
	cmd.Flags().BoolVar(&request.Force, "force", false, "Bypass hash comparison and push regardless")
	cmd.Flags().BoolVar(&request.ShowPayload, "show-payload", false, "Print the payload JSON before publishing")

	return cmd
}

func newCurrentScreenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current-screen",
		Short: "Fetch metadata about the most recently rendered TRMNL screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := initializeDependencies()
			if err != nil {
				return err
			}

			data, err := handler.CurrentScreen(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(data)
		},
	}
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "trmnlhealth",
		Short:         "Publish health tracker data to a TRMNL private plugin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newCurrentScreenCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		color.Red(err.Error())
		os.Exit(1)
	}
}
