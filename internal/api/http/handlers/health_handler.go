package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/board-report/internal/config"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	carrierCfg  config.CarrierConfig
	smtpCfg     config.SMTPConfig
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, carrierCfg config.CarrierConfig, smtpCfg config.SMTPConfig) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, carrierCfg: carrierCfg, smtpCfg: smtpCfg}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports whether the service is configured to run reports. Trigger
// payloads may override any of these settings, so missing values mark the
// service degraded rather than broken.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	depStatus := fiber.Map{}
	ready := true

	if h.carrierCfg.BaseURL == "" || h.carrierCfg.Token == "" {
		depStatus["carrier"] = "not configured"
		ready = false
	} else {
		depStatus["carrier"] = "ok"
	}

	if h.smtpCfg.Host == "" || h.smtpCfg.Sender == "" || len(h.smtpCfg.RecipientList()) == 0 {
		depStatus["smtp"] = "not configured"
		ready = false
	} else {
		depStatus["smtp"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
