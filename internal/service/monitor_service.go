package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/observability"
)

// MonitorService observes run lifecycle events for operators.
type MonitorService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewMonitorService creates the service.
func NewMonitorService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *MonitorService {
	return &MonitorService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (m *MonitorService) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventReportRunStarted, m.handleRunStarted)
	m.dispatcher.Subscribe(events.EventReportRunSucceeded, m.handleRunSucceeded)
	m.dispatcher.Subscribe(events.EventReportRunFailed, m.handleRunFailed)
}

func (m *MonitorService) handleRunStarted(ctx context.Context, event events.Event) error {
	m.logger.Info("ReportRunStarted",
		zap.String("run_id", event.RunID),
		zap.String("source", event.Trigger.Source),
		zap.Any("payload", event.Payload))
	return nil
}

func (m *MonitorService) handleRunSucceeded(ctx context.Context, event events.Event) error {
	m.logger.Info("ReportRunSucceeded",
		zap.String("run_id", event.RunID),
		zap.String("source", event.Trigger.Source),
		zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.ReportRunSucceededPayload); ok {
		m.metrics.RecordRun("succeeded", payload.Duration)
	}
	return nil
}

func (m *MonitorService) handleRunFailed(ctx context.Context, event events.Event) error {
	m.logger.Warn("ReportRunFailed",
		zap.String("run_id", event.RunID),
		zap.String("source", event.Trigger.Source),
		zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.ReportRunFailedPayload); ok {
		m.metrics.RecordRun("failed", payload.Duration)
	}
	return nil
}
