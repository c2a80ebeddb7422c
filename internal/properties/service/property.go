package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"deskhive/internal/properties/availability"
	propertieserrors "deskhive/internal/properties/errors"
	"deskhive/internal/properties/repository"
	"deskhive/internal/properties/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"
	"deskhive/pkg/sanitizer"
	"deskhive/pkg/timeslot"
)

type PropertyService interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, id string) error
	IsBookable(ctx context.Context, id string, checkIn, checkOut time.Time, seats int) (*availability.Decision, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	validator *validator.PropertyValidator,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, property *model.Property) error {
	s.applyDefaults(property)
	s.sanitize(property)
	if err := s.validate(property); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "error", err)
		return apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", property.ID,
		"owner_id", property.OwnerID,
		"name", property.Name,
	)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Property, int64, error) {
	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count properties", "error", errCount)
			errCount = apperrors.Internal("Failed to count properties", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		properties, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list properties", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve properties", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergePropertyUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Property updated successfully", "id", id)
	return merged, nil
}

func (s *propertyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Property deleted successfully", "id", id)
	return nil
}

// IsBookable evaluates the availability policy for a prospective interval
// without touching any booking state.
func (s *propertyService) IsBookable(ctx context.Context, id string, checkIn, checkOut time.Time, seats int) (*availability.Decision, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("check_out_time must be after check_in_time")
	}
	if !timeslot.SameDay(checkIn, checkOut) {
		return nil, apperrors.InvalidInput("check_in_time and check_out_time must fall on the same calendar day")
	}
	if seats < 1 {
		seats = 1
	}

	property, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := availability.Evaluate(property, checkIn, checkOut, seats)
	return &decision, nil
}

// --- Helpers ---

func (s *propertyService) applyDefaults(p *model.Property) {
	if p.Status == "" {
		p.Status = model.PropertyActive
	}
	if p.BookingRules.CheckoutGracePeriodMin == 0 {
		p.BookingRules.CheckoutGracePeriodMin = s.cfg.CheckoutGraceMin
	}
}

func (s *propertyService) sanitize(p *model.Property) {
	p.Name = sanitizer.NormalizeName(p.Name)
}

func (s *propertyService) mergePropertyUpdates(existing *model.Property, updates *model.PropertyUpdate) *model.Property {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.SeatingCapacity != nil {
		merged.SeatingCapacity = *updates.SeatingCapacity
	}
	if updates.UnavailableDates != nil {
		merged.UnavailableDates = *updates.UnavailableDates
	}
	if updates.BookingRules != nil {
		merged.BookingRules = *updates.BookingRules
	}
	if updates.Pricing != nil {
		merged.Pricing = *updates.Pricing
	}

	return &merged
}

func (s *propertyService) validate(property *model.Property) error {
	if err := s.validator.Validate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *propertyService) mapRepoError(err error, id string) error {
	if errors.Is(err, propertieserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Property", id)
	}
	if errors.Is(err, propertieserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid property ID format")
	}
	return apperrors.Internal("Property store operation failed", err)
}
