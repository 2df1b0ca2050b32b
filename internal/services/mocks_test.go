package services

import (
	"context"

	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"gorm.io/gorm"
)

// Mocks embed the repository interface so each test only implements the
// methods it exercises; an unexpected call panics and fails the test.

type mockLeaseRepository struct {
	repository.LeaseRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.Lease, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Lease, error)
	mockFindByUnit          func(ctx context.Context, unitID uint) ([]models.Lease, error)
	mockCreate              func(ctx context.Context, lease *models.Lease) error
	mockUpdate              func(ctx context.Context, lease *models.Lease) error
	mockNextAgreementNumber func(ctx context.Context) (string, error)
}

func (m *mockLeaseRepository) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockLeaseRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Lease, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}
func (m *mockLeaseRepository) FindByUnit(ctx context.Context, unitID uint) ([]models.Lease, error) {
	return m.mockFindByUnit(ctx, unitID)
}
func (m *mockLeaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return m.mockCreate(ctx, lease)
}
func (m *mockLeaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return m.mockUpdate(ctx, lease)
}
func (m *mockLeaseRepository) NextAgreementNumber(ctx context.Context) (string, error) {
	return m.mockNextAgreementNumber(ctx)
}
func (m *mockLeaseRepository) WithTx(tx *gorm.DB) repository.LeaseRepository { return m }

type mockUnitRepository struct {
	repository.UnitRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.Unit, error)
	mockFindOccupied func(ctx context.Context) ([]models.Unit, error)
	mockOccupy       func(ctx context.Context, unitID, tenantID uint) (int64, error)
	mockVacate       func(ctx context.Context, unitID uint) (int64, error)
}

func (m *mockUnitRepository) FindByID(ctx context.Context, id uint) (*models.Unit, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockUnitRepository) FindOccupied(ctx context.Context) ([]models.Unit, error) {
	return m.mockFindOccupied(ctx)
}
func (m *mockUnitRepository) Occupy(ctx context.Context, unitID, tenantID uint) (int64, error) {
	return m.mockOccupy(ctx, unitID, tenantID)
}
func (m *mockUnitRepository) Vacate(ctx context.Context, unitID uint) (int64, error) {
	return m.mockVacate(ctx, unitID)
}
func (m *mockUnitRepository) WithTx(tx *gorm.DB) repository.UnitRepository { return m }

type mockPropertyRepository struct {
	repository.PropertyRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Property, error)
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	return m.mockFindByID(ctx, id)
}

type mockUserRepository struct {
	repository.UserRepository
	mockFindByID   func(ctx context.Context, id uint) (*models.User, error)
	mockFindAdmins func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockUserRepository) FindAdmins(ctx context.Context) ([]models.User, error) {
	if m.mockFindAdmins != nil {
		return m.mockFindAdmins(ctx)
	}
	return nil, nil
}

type mockPaymentRepository struct {
	repository.PaymentRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.Payment, error)
	mockHasSucceededForUnit func(ctx context.Context, unitID uint) (bool, error)
	mockCreateBatch         func(ctx context.Context, payments []models.Payment) error
	mockDeletePendingByUnit func(ctx context.Context, unitID uint) (int64, error)
	mockFindOverdue         func(ctx context.Context) ([]models.Payment, error)
	mockUpdate              func(ctx context.Context, payment *models.Payment) error
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockPaymentRepository) HasSucceededForUnit(ctx context.Context, unitID uint) (bool, error) {
	return m.mockHasSucceededForUnit(ctx, unitID)
}
func (m *mockPaymentRepository) CreateBatch(ctx context.Context, payments []models.Payment) error {
	return m.mockCreateBatch(ctx, payments)
}
func (m *mockPaymentRepository) DeletePendingByUnit(ctx context.Context, unitID uint) (int64, error) {
	return m.mockDeletePendingByUnit(ctx, unitID)
}
func (m *mockPaymentRepository) FindOverdue(ctx context.Context) ([]models.Payment, error) {
	return m.mockFindOverdue(ctx)
}
func (m *mockPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return m.mockUpdate(ctx, payment)
}
func (m *mockPaymentRepository) WithTx(tx *gorm.DB) repository.PaymentRepository { return m }

type mockInvoiceRepository struct {
	repository.InvoiceRepository
	mockCreateBatchIgnoreDuplicates func(ctx context.Context, invoices []models.Invoice) (int64, error)
	mockFindByID                    func(ctx context.Context, id uint) (*models.Invoice, error)
	mockUpdate                      func(ctx context.Context, invoice *models.Invoice) error
}

func (m *mockInvoiceRepository) CreateBatchIgnoreDuplicates(ctx context.Context, invoices []models.Invoice) (int64, error) {
	return m.mockCreateBatchIgnoreDuplicates(ctx, invoices)
}
func (m *mockInvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return m.mockUpdate(ctx, invoice)
}

type mockNotificationRepository struct {
	repository.NotificationRepository
	created []models.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	m.created = append(m.created, *notification)
	return nil
}

type mockAgreementGenerator struct {
	mockGenerate func(ctx context.Context, lease *models.Lease, property *models.Property, unit *models.Unit, tenant, owner *models.User) (string, error)
	removed      []string
}

func (m *mockAgreementGenerator) Generate(ctx context.Context, lease *models.Lease, property *models.Property, unit *models.Unit, tenant, owner *models.User) (string, error) {
	if m.mockGenerate != nil {
		return m.mockGenerate(ctx, lease, property, unit, tenant, owner)
	}
	return "/tmp/agreements/test.pdf", nil
}

func (m *mockAgreementGenerator) Remove(path string) {
	m.removed = append(m.removed, path)
}
