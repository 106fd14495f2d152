package worker

import (
	"github.com/spec-kit/board-report/internal/service"
)

// StartMonitorWorker registers run monitoring handlers.
func StartMonitorWorker(monitorService *service.MonitorService) {
	if monitorService == nil {
		return
	}
	monitorService.RegisterHandlers()
}
