package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/board-report/internal/api/dto"
	"github.com/spec-kit/board-report/internal/auth"
	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/service"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

// ReportsHandler exposes report run endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Run POST /api/v1/reports/run.
func (h *ReportsHandler) Run(c *fiber.Ctx) error {
	var req dto.RunReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	input := runInput(&req)
	input.Trigger = events.Trigger{
		Source:  "api",
		Subject: auth.SubjectFromContext(c),
	}

	result, err := h.service.Run(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": runResponse(result)})
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

func runResponse(result *service.RunResult) dto.RunReportResponse {
	return dto.RunReportResponse{
		RunID:          result.RunID,
		Status:         "succeeded",
		Message:        result.Message,
		Engagement:     result.Engagement,
		TicketCount:    result.TicketCount,
		ActiveCount:    result.ActiveCount,
		CompletedCount: result.CompletedCount,
		RiskCount:      result.RiskCount,
		Recipients:     result.Recipients,
		DurationMS:     result.Duration.Milliseconds(),
	}
}
