package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/board-report/internal/api/dto"
	"github.com/spec-kit/board-report/internal/config"
	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/observability"
	"github.com/spec-kit/board-report/internal/render"
	"github.com/spec-kit/board-report/internal/service"
	"github.com/spec-kit/board-report/internal/worker"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

// RunCmd returns the run command.
func RunCmd() *cobra.Command {
	var (
		eventPath  string
		baseURL    string
		token      string
		projectID  string
		boardID    string
		smtpHost   string
		smtpPort   int
		smtpUser   string
		smtpPass   string
		sender     string
		recipients string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the board, compose the status report and email it",
		Long: `Run the report pipeline once from this machine.

Settings resolve in order: flags, then --event file fields, then
environment configuration (.env is honored).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = observability.NewLogger(cfg.Logger)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				defer logger.Sync() //nolint:errcheck
			}

			var req dto.RunReportRequest
			if eventPath != "" {
				data, err := os.ReadFile(eventPath)
				if err != nil {
					return fmt.Errorf("read event file: %w", err)
				}
				if err := json.Unmarshal(data, &req); err != nil {
					return fmt.Errorf("parse event file: %w", err)
				}
			}
			override(&req.BaseURL, baseURL)
			override(&req.Token, token)
			override(&req.ProjectID, projectID)
			override(&req.BoardID, boardID)
			override(&req.Host, smtpHost)
			override(&req.User, smtpUser)
			override(&req.Passwd, smtpPass)
			override(&req.Sender, sender)
			override(&req.Recipients, recipients)
			if smtpPort > 0 {
				req.Port = smtpPort
			}

			metrics := observability.NewMetrics()
			dispatcher := events.NewInMemoryDispatcher()
			worker.StartMonitorWorker(service.NewMonitorService(dispatcher, logger, metrics))

			renderer, err := render.NewRenderer()
			if err != nil {
				return fmt.Errorf("parse report template: %w", err)
			}
			summaries := service.NewSummaryService(service.SummaryDependencies{
				Risks:  cfg.Report.RiskPredicate(),
				Window: cfg.Report.CompletionWindow(),
				Logger: logger,
			})
			reports := service.NewReportService(service.ReportDependencies{
				Summaries:  summaries,
				Renderer:   renderer,
				CarrierCfg: cfg.Carrier,
				SMTPCfg:    cfg.SMTP,
				Dispatcher: dispatcher,
				Logger:     logger,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.App.RequestTimeout())
			defer cancel()

			input := runInput(&req)
			input.Trigger = events.Trigger{Source: "cli"}

			result, err := reports.Run(ctx, input)
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				fmt.Println(color.New(color.FgRed).Sprintf("✗ run failed [%s]", domainErr.Code))
				return err
			}

			fmt.Println(color.New(color.FgHiGreen).Sprintf("✓ %s", result.Message))
			fmt.Printf("  Engagement: %s\n", result.Engagement)
			fmt.Printf("  Tickets: %d (%d active, %d completed recently, %d at risk)\n",
				result.TicketCount, result.ActiveCount, result.CompletedCount, result.RiskCount)
			fmt.Printf("  Recipients: %d\n", result.Recipients)
			fmt.Printf("  Run %s finished in %s\n", result.RunID, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "Path to a JSON trigger payload")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Carrier platform base URL")
	cmd.Flags().StringVar(&token, "token", "", "Carrier API token")
	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().StringVar(&boardID, "board", "", "Board identifier")
	cmd.Flags().StringVar(&smtpHost, "smtp-host", "", "SMTP relay host")
	cmd.Flags().IntVar(&smtpPort, "smtp-port", 0, "SMTP relay port")
	cmd.Flags().StringVar(&smtpUser, "smtp-user", "", "SMTP username")
	cmd.Flags().StringVar(&smtpPass, "smtp-pass", "", "SMTP password")
	cmd.Flags().StringVar(&sender, "sender", "", "Sender address")
	cmd.Flags().StringVar(&recipients, "recipients", "", "Comma separated recipient list")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Emit pipeline logs")

	return cmd
}

func runInput(req *dto.RunReportRequest) service.RunInput {
	return service.RunInput{
		BaseURL:    req.BaseURL,
		Token:      req.Token,
		ProjectID:  req.ProjectID,
		BoardID:    req.BoardID,
		SMTPHost:   req.Host,
		SMTPPort:   req.Port,
		SMTPUser:   req.User,
		SMTPPass:   req.Passwd,
		Sender:     req.Sender,
		Recipients: req.Recipients,
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
