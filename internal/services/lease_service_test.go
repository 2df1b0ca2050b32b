package services

import (
	"context"
	"testing"
	"time"

	"github.com/rvaldez/rentora-api/internal/config"
	"github.com/rvaldez/rentora-api/internal/models"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaseServiceMocks struct {
	leaseRepo    *mockLeaseRepository
	unitRepo     *mockUnitRepository
	propertyRepo *mockPropertyRepository
	userRepo     *mockUserRepository
	paymentRepo  *mockPaymentRepository
	agreement    *mockAgreementGenerator
	notifRepo    *mockNotificationRepository
}

func newLeaseServiceForTest(m *leaseServiceMocks) *LeaseService {
	repos := &repository.Repositories{
		Lease:    m.leaseRepo,
		Unit:     m.unitRepo,
		Property: m.propertyRepo,
		User:     m.userRepo,
		Payment:  m.paymentRepo,
	}
	scheduleSvc := NewPaymentScheduleService(m.paymentRepo)
	notifSvc := NewNotificationService(m.notifRepo, m.userRepo)
	emailSvc := NewEmailService(&config.Config{})

	return NewLeaseService(nil, repos, scheduleSvc, m.agreement, emailSvc, notifSvc)
}

func TestMoveIn_UnitNotAvailable(t *testing.T) {
	m := &leaseServiceMocks{
		propertyRepo: &mockPropertyRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Property, error) {
				return &models.Property{ID: id, OwnerID: 2}, nil
			},
		},
		unitRepo: &mockUnitRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Unit, error) {
				return &models.Unit{ID: id, PropertyID: 1, Status: models.UnitStatusOccupied, TenantID: uintPtr(99)}, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	_, err := svc.MoveIn(context.Background(), Actor{ID: 2, Role: "owner"}, 1, 5, &MoveInInput{
		TenantID:       7,
		LeaseStartDate: date(2025, time.January, 1),
		LeaseEndDate:   date(2025, time.December, 31),
		MonthlyRent:    1500,
	})

	assert.ErrorIs(t, err, ErrUnitNotAvailable)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, m.notifRepo.created)
}

func TestMoveIn_NotTheOwner(t *testing.T) {
	m := &leaseServiceMocks{
		propertyRepo: &mockPropertyRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Property, error) {
				return &models.Property{ID: id, OwnerID: 2}, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	_, err := svc.MoveIn(context.Background(), Actor{ID: 3, Role: "owner"}, 1, 5, &MoveInInput{
		TenantID:       7,
		LeaseStartDate: date(2025, time.January, 1),
		LeaseEndDate:   date(2025, time.December, 31),
		MonthlyRent:    1500,
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMoveIn_UnitBelongsToAnotherProperty(t *testing.T) {
	m := &leaseServiceMocks{
		propertyRepo: &mockPropertyRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Property, error) {
				return &models.Property{ID: id, OwnerID: 2}, nil
			},
		},
		unitRepo: &mockUnitRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Unit, error) {
				return &models.Unit{ID: id, PropertyID: 42, Status: models.UnitStatusAvailable}, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	_, err := svc.MoveIn(context.Background(), Actor{ID: 2, Role: "owner"}, 1, 5, &MoveInInput{
		TenantID:       7,
		LeaseStartDate: date(2025, time.January, 1),
		LeaseEndDate:   date(2025, time.December, 31),
		MonthlyRent:    1500,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveIn_RejectsNonTenantAndBadDates(t *testing.T) {
	users := map[uint]*models.User{
		7: {ID: 7, Role: models.RoleTenant, Status: models.StatusActive},
		8: {ID: 8, Role: models.RoleOwner, Status: models.StatusActive},
	}
	m := &leaseServiceMocks{
		propertyRepo: &mockPropertyRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Property, error) {
				return &models.Property{ID: id, OwnerID: 2}, nil
			},
		},
		unitRepo: &mockUnitRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Unit, error) {
				return &models.Unit{ID: id, PropertyID: 1, Status: models.UnitStatusAvailable}, nil
			},
		},
		userRepo: &mockUserRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
				return users[id], nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)
	actor := Actor{ID: 2, Role: "owner"}

	// An owner account is not a tenant; the move-in sees no tenant at all
	_, err := svc.MoveIn(context.Background(), actor, 1, 5, &MoveInInput{
		TenantID:       8,
		LeaseStartDate: date(2025, time.January, 1),
		LeaseEndDate:   date(2025, time.December, 31),
		MonthlyRent:    1500,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// End date before start date
	_, err = svc.MoveIn(context.Background(), actor, 1, 5, &MoveInInput{
		TenantID:       7,
		LeaseStartDate: date(2025, time.December, 31),
		LeaseEndDate:   date(2025, time.January, 1),
		MonthlyRent:    1500,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func activeLeaseFixture() *models.Lease {
	return &models.Lease{
		ID:              1,
		PropertyID:      1,
		UnitID:          5,
		TenantID:        7,
		OwnerID:         2,
		LeaseStartDate:  date(2025, time.January, 1),
		LeaseEndDate:    date(2025, time.June, 30),
		MonthlyRent:     1500,
		AgreementNumber: "LA-000001",
		Status:          models.LeaseStatusActive,
		Unit:            models.Unit{ID: 5, PropertyID: 1, Name: "2B"},
		Property:        models.Property{ID: 1, OwnerID: 2, Name: "Elm Street"},
		Tenant:          models.User{ID: 7, Role: models.RoleTenant},
		Owner:           models.User{ID: 2, Role: models.RoleOwner},
	}
}

func TestUpdateLease_LockedAfterRentCollected(t *testing.T) {
	updateCalled := false
	m := &leaseServiceMocks{
		leaseRepo: &mockLeaseRepository{
			mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lease, error) {
				return activeLeaseFixture(), nil
			},
			mockUpdate: func(ctx context.Context, lease *models.Lease) error {
				updateCalled = true
				return nil
			},
		},
		paymentRepo: &mockPaymentRepository{
			mockHasSucceededForUnit: func(ctx context.Context, unitID uint) (bool, error) {
				return true, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	rent := 1600.0
	_, err := svc.UpdateLease(context.Background(), Actor{ID: 2, Role: "owner"}, 1, &UpdateLeaseInput{MonthlyRent: &rent})

	assert.ErrorIs(t, err, ErrRentAlreadyCollected)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, updateCalled, "a locked lease must not be written")
}

func TestUpdateLease_NotActive(t *testing.T) {
	m := &leaseServiceMocks{
		leaseRepo: &mockLeaseRepository{
			mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lease, error) {
				lease := activeLeaseFixture()
				lease.Status = models.LeaseStatusTerminated
				return lease, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	rent := 1600.0
	_, err := svc.UpdateLease(context.Background(), Actor{ID: 2, Role: "owner"}, 1, &UpdateLeaseInput{MonthlyRent: &rent})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateLease_RentChangeRegeneratesSchedule(t *testing.T) {
	var updates int
	var deletedUnit uint
	var regenerated []models.Payment

	m := &leaseServiceMocks{
		leaseRepo: &mockLeaseRepository{
			mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lease, error) {
				lease := activeLeaseFixture()
				old := "/tmp/agreements/LA-000001.pdf"
				lease.AgreementPDFPath = &old
				return lease, nil
			},
			mockUpdate: func(ctx context.Context, lease *models.Lease) error {
				updates++
				return nil
			},
		},
		paymentRepo: &mockPaymentRepository{
			mockHasSucceededForUnit: func(ctx context.Context, unitID uint) (bool, error) {
				return false, nil
			},
			mockDeletePendingByUnit: func(ctx context.Context, unitID uint) (int64, error) {
				deletedUnit = unitID
				return 6, nil
			},
			mockCreateBatch: func(ctx context.Context, payments []models.Payment) error {
				regenerated = payments
				return nil
			},
		},
		agreement: &mockAgreementGenerator{
			mockGenerate: func(ctx context.Context, lease *models.Lease, property *models.Property, unit *models.Unit, tenant, owner *models.User) (string, error) {
				return "/tmp/agreements/LA-000001-v2.pdf", nil
			},
		},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	rent := 1750.0
	lease, err := svc.UpdateLease(context.Background(), Actor{ID: 2, Role: "owner"}, 1, &UpdateLeaseInput{MonthlyRent: &rent})
	require.NoError(t, err)

	assert.Equal(t, 1750.0, lease.MonthlyRent)
	assert.Equal(t, uint(5), deletedUnit)
	require.Len(t, regenerated, 6, "Jan through Jun")
	assert.Equal(t, 1750.0, regenerated[0].Amount)

	// Lease saved once for the fields and once for the new agreement path
	assert.Equal(t, 2, updates)
	require.NotNil(t, lease.AgreementPDFPath)
	assert.Equal(t, "/tmp/agreements/LA-000001-v2.pdf", *lease.AgreementPDFPath)
	assert.Equal(t, []string{"/tmp/agreements/LA-000001.pdf"}, m.agreement.removed)
}

func TestUpdateLease_TermsOnlyChangeKeepsSchedule(t *testing.T) {
	var updates int
	m := &leaseServiceMocks{
		leaseRepo: &mockLeaseRepository{
			mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Lease, error) {
				return activeLeaseFixture(), nil
			},
			mockUpdate: func(ctx context.Context, lease *models.Lease) error {
				updates++
				return nil
			},
		},
		paymentRepo: &mockPaymentRepository{
			mockHasSucceededForUnit: func(ctx context.Context, unitID uint) (bool, error) {
				return false, nil
			},
			// DeletePendingByUnit and CreateBatch are nil funcs: touching the
			// schedule here would panic the test.
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	terms := models.LeaseTerms{LateFeeAmount: 75, LateFeeAfterDays: 3, NoticePeriodDays: 60, PetAllowed: true}
	lease, err := svc.UpdateLease(context.Background(), Actor{ID: 2, Role: "owner"}, 1, &UpdateLeaseInput{Terms: &terms})
	require.NoError(t, err)

	assert.Equal(t, 75.0, lease.Terms.LateFeeAmount)
	assert.True(t, lease.Terms.PetAllowed)
	assert.Equal(t, 1, updates)
}

func TestLeaseHistoryByUnit_OwnerScoping(t *testing.T) {
	m := &leaseServiceMocks{
		unitRepo: &mockUnitRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Unit, error) {
				return &models.Unit{ID: id, PropertyID: 1}, nil
			},
		},
		propertyRepo: &mockPropertyRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Property, error) {
				return &models.Property{ID: id, OwnerID: 2}, nil
			},
		},
		leaseRepo: &mockLeaseRepository{
			mockFindByUnit: func(ctx context.Context, unitID uint) ([]models.Lease, error) {
				return []models.Lease{{ID: 3, UnitID: unitID}, {ID: 1, UnitID: unitID}}, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	leases, err := svc.LeaseHistoryByUnit(context.Background(), Actor{ID: 2, Role: "owner"}, 5)
	require.NoError(t, err)
	assert.Len(t, leases, 2)

	_, err = svc.LeaseHistoryByUnit(context.Background(), Actor{ID: 3, Role: "owner"}, 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAttachDocument_UnknownKind(t *testing.T) {
	m := &leaseServiceMocks{
		leaseRepo: &mockLeaseRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Lease, error) {
				lease := activeLeaseFixture()
				return lease, nil
			},
		},
		agreement: &mockAgreementGenerator{},
		notifRepo: &mockNotificationRepository{},
	}
	svc := newLeaseServiceForTest(m)

	err := svc.AttachDocument(context.Background(), Actor{ID: 2, Role: "owner"}, 1, &models.LeaseDocument{
		Kind: "tax_return",
		URL:  "lease_documents/2026/01/abc.pdf",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
