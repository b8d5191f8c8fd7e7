package worker

import (
	"github.com/opsdesk/ticket-admin/internal/service"
)

// StartActivityWorker registers the audit trail handlers on the dispatcher.
func StartActivityWorker(recorder *service.ActivityRecorder) {
	if recorder == nil {
		return
	}
	recorder.RegisterHandlers()
}
