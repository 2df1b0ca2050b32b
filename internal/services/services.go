package services

import (
	"github.com/rvaldez/rentora-api/internal/config"
	"github.com/rvaldez/rentora-api/internal/jobs"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth            *AuthService
	User            *UserService
	Property        *PropertyService
	Lease           *LeaseService
	Payment         *PaymentService
	PaymentSchedule *PaymentScheduleService
	Invoice         *InvoiceService
	Agreement       *AgreementService
	Notification    *NotificationService
	Audit           *AuditService
	Email           *EmailService
	Export          *ExportService
	Job             *JobService

	Storage *storage.LocalStorage
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	imageSvc := NewImageService(cfg.StoragePath + "/uploads")
	agreementSvc := NewAgreementService(cfg.StoragePath)
	scheduleSvc := NewPaymentScheduleService(repos.Payment)

	return &Services{
		Auth:            NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:            NewUserService(repos.User, auditSvc),
		Property:        NewPropertyService(repos.Property, repos.Unit, repos.Lease, imageSvc, auditSvc),
		Lease:           NewLeaseService(db, repos, scheduleSvc, agreementSvc, emailSvc, notificationSvc),
		Payment:         NewPaymentService(repos.Payment, repos.Invoice, repos.User, emailSvc, notificationSvc),
		PaymentSchedule: scheduleSvc,
		Invoice:         NewInvoiceService(repos.Invoice, repos.Property, repos.Unit, notificationSvc),
		Agreement:       agreementSvc,
		Notification:    notificationSvc,
		Audit:           auditSvc,
		Email:           emailSvc,
		Export:          NewExportService(repos.Property, repos.Payment, repos.User),
		Job:             NewJobService(worker),
		Storage:         store,
	}
}
