package service

import (
	"context"
	"io"
	"testing"
	"time"

	"deskhive/internal/properties/availability"
	propertieserrors "deskhive/internal/properties/errors"
	"deskhive/internal/properties/repository"
	"deskhive/internal/properties/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repository for testing
type mockPropertyRepository struct {
	createFunc   func(ctx context.Context, property *model.Property) error
	findByIDFunc func(ctx context.Context, id string) (*model.Property, error)
	findAllFunc  func(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Property, error)
	countFunc    func(ctx context.Context, filter repository.SearchFilter) (int64, error)
	updateFunc   func(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, property)
	}
	property.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, propertieserrors.ErrNotFound
}

func (m *mockPropertyRepository) FindAll(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Property, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter, limit, offset)
	}
	return []*model.Property{}, nil
}

func (m *mockPropertyRepository) Count(ctx context.Context, filter repository.SearchFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, property)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:              logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard, Service: "test"}),
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     5 * time.Second,
		CheckoutGraceMin: 15,
	}
}

func newService(repo *mockPropertyRepository) PropertyService {
	cfg := testConfig()
	return NewPropertyService(repo, validator.NewPropertyValidator(cfg.Log), cfg)
}

func inputProperty() *model.Property {
	return &model.Property{
		OwnerID:         "507f1f77bcf86cd799439012",
		Name:            "  Harbor   Loft ",
		SeatingCapacity: 10,
		BookingRules: model.BookingRules{
			AllowedTimeSlots: []model.TimeSlot{
				{Day: "Tuesday", StartTime: "08:00", EndTime: "20:00", IsAvailable: true},
			},
		},
		Pricing: model.Pricing{HourlyRate: 100},
	}
}

func TestCreateAppliesDefaultsAndSanitizes(t *testing.T) {
	repo := &mockPropertyRepository{}
	svc := newService(repo)

	p := inputProperty()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if p.Status != model.PropertyActive {
		t.Errorf("status = %q, want active by default", p.Status)
	}
	if p.Name != "Harbor Loft" {
		t.Errorf("name = %q, want normalized whitespace", p.Name)
	}
	if p.BookingRules.CheckoutGracePeriodMin != 15 {
		t.Errorf("grace = %d, want the platform default of 15", p.BookingRules.CheckoutGracePeriodMin)
	}
}

func TestCreateRejectsInvalidProperty(t *testing.T) {
	repo := &mockPropertyRepository{}
	svc := newService(repo)

	p := inputProperty()
	p.Pricing.HourlyRate = 0

	err := svc.Create(context.Background(), p)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("Create() error = %v, want validation failure", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newService(&mockPropertyRepository{})

	_, err := svc.GetByID(context.Background(), "507f1f77bcf86cd799439011")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("GetByID() error = %v, want not found", err)
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	stored := inputProperty()
	stored.ID = "507f1f77bcf86cd799439011"
	stored.Name = "Harbor Loft"
	stored.Status = model.PropertyActive
	stored.BookingRules.CheckoutGracePeriodMin = 15

	repo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			copied := *stored
			return &copied, nil
		},
	}
	svc := newService(repo)

	capacity := 25
	got, err := svc.Update(context.Background(), stored.ID, &model.PropertyUpdate{
		Status:          model.PropertyMaintenance,
		SeatingCapacity: &capacity,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Status != model.PropertyMaintenance {
		t.Errorf("status = %q, want maintenance", got.Status)
	}
	if got.SeatingCapacity != 25 {
		t.Errorf("capacity = %d, want 25", got.SeatingCapacity)
	}
	if got.Name != "Harbor Loft" {
		t.Errorf("name = %q, want untouched", got.Name)
	}
}

func TestIsBookable(t *testing.T) {
	stored := inputProperty()
	stored.ID = "507f1f77bcf86cd799439011"
	stored.Status = model.PropertyActive
	stored.BookingRules.CheckoutGracePeriodMin = 15

	repo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return stored, nil
		},
	}
	svc := newService(repo)

	// 2026-03-10 is a Tuesday.
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	decision, err := svc.IsBookable(context.Background(), stored.ID, checkIn, checkOut, 4)
	if err != nil {
		t.Fatalf("IsBookable() error = %v", err)
	}
	if !decision.Available {
		t.Errorf("decision = %+v, want available", decision)
	}

	decision, err = svc.IsBookable(context.Background(), stored.ID, checkIn.Add(-4*time.Hour), checkOut, 4)
	if err != nil {
		t.Fatalf("IsBookable() error = %v", err)
	}
	if decision.Available || decision.Reason != availability.ReasonOutsideSlots {
		t.Errorf("decision = %+v, want outside_slots rejection", decision)
	}

	if _, err := svc.IsBookable(context.Background(), stored.ID, checkOut, checkIn, 4); err == nil {
		t.Error("IsBookable() with inverted interval = nil error, want invalid input")
	}
}
