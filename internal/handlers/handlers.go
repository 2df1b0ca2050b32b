package handlers

import (
	"github.com/rvaldez/rentora-api/internal/services"
	"github.com/rvaldez/rentora-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Property     *PropertyHandler
	Lease        *LeaseHandler
	Payment      *PaymentHandler
	Invoice      *InvoiceHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Property:     NewPropertyHandler(svcs.Property),
		Lease:        NewLeaseHandler(svcs.Lease, storage),
		Payment:      NewPaymentHandler(svcs.Payment),
		Invoice:      NewInvoiceHandler(svcs.Invoice),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
