package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"deskhive/internal/bookings/engine"
	bookingserrors "deskhive/internal/bookings/errors"
	"deskhive/internal/bookings/events"
	"deskhive/internal/bookings/repository"
	"deskhive/internal/bookings/validator"
	"deskhive/internal/properties/availability"
	propertieserrors "deskhive/internal/properties/errors"
	"deskhive/pkg/clock"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyReader is the slice of the properties store the booking engine
// needs. Both services share one database; cmd wiring backs this with the
// properties repository.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByRef(ctx context.Context, ref string) (*model.Booking, error)
	GetAll(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error

	Confirm(ctx context.Context, id string, payment model.PaymentDetails) (*model.Booking, error)
	CheckIn(ctx context.Context, id string, actualTime *time.Time) (*model.Booking, error)
	CheckOut(ctx context.Context, id string, actualTime *time.Time) (*CheckOutResult, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	SettleOvertime(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, reason string, overrideRefund *float64) (*CancelResult, error)
	MarkNoShow(ctx context.Context, id string) (*model.Booking, error)

	CheckConflict(ctx context.Context, req ConflictQuery) (*ConflictReport, error)
	FindConflicting(ctx context.Context, propertyID string, from, to time.Time) ([]*model.Booking, error)
	RefundPreview(ctx context.Context, id string) (*RefundQuote, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	properties PropertyReader
	validator  *validator.BookingValidator
	publisher  events.Publisher
	clock      clock.Clock
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	properties PropertyReader,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		properties: properties,
		validator:  validator,
		publisher:  publisher,
		clock:      clk,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	booking.PropertyOwnerID = property.OwnerID

	if decision := availability.Evaluate(property, booking.CheckInTime, booking.CheckOutTime, booking.Seats); !decision.Available {
		return apperrors.NotAvailable(decision.Message, decision.Reason)
	}

	// Advisory lock serializes writers per property; the transaction makes
	// the conflict scan and the insert atomic against replica failover.
	lockID, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflicts(txCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publish(ctx, events.TypeBookingCreated, booking)
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"booking_ref", booking.BookingRef,
		"property_id", booking.PropertyID,
		"check_in_time", booking.CheckInTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	if ref == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	booking, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", ref)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	if !existing.Editable() {
		return nil, apperrors.InvalidTransition("update", existing.Status)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	property, err := s.loadProperty(ctx, merged.PropertyID)
	if err != nil {
		return nil, err
	}
	if decision := availability.Evaluate(property, merged.CheckInTime, merged.CheckOutTime, merged.Seats); !decision.Available {
		return nil, apperrors.NotAvailable(decision.Message, decision.Reason)
	}

	lockID, err := s.acquirePropertyLock(ctx, merged.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflicts(txCtx, merged, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(txCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingUpdated, merged)
	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return merged, nil
}

// Delete removes a booking outright. Only unpaid pending_payment bookings
// qualify; everything else must go through Cancel so refunds are recorded.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id)
	}
	if existing.Status != model.StatusPendingPayment || existing.Payment.Status == model.PaymentCompleted {
		return apperrors.InvalidTransition("delete", existing.Status)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// ConflictQuery is a dry-run conflict probe for a prospective interval.
type ConflictQuery struct {
	PropertyID string
	UserID     string
	CheckIn    time.Time
	CheckOut   time.Time
	ExcludeID  string
}

// ConflictReport names the first violated rule, if any.
type ConflictReport struct {
	Available bool           `json:"available"`
	Rule      string         `json:"rule,omitempty"`
	Conflict  *model.Booking `json:"conflicting_booking,omitempty"`
}

func (s *bookingService) CheckConflict(ctx context.Context, req ConflictQuery) (*ConflictReport, error) {
	if req.PropertyID == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.InvalidInput("check_out_time must be after check_in_time")
	}

	existing, err := s.scanConflictWindow(ctx, req.PropertyID, req.CheckIn, req.CheckOut, req.ExcludeID)
	if err != nil {
		return nil, err
	}

	cand := engine.Candidate{
		ExcludeID: req.ExcludeID,
		UserID:    req.UserID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	}
	rule, offender := engine.Check(cand, existing, s.cfg.Buffer())
	if rule == engine.RuleNone {
		return &ConflictReport{Available: true}, nil
	}
	return &ConflictReport{Rule: string(rule), Conflict: offender}, nil
}

// FindConflicting lists the bookings that hold slots on the property inside
// [from, to). Calendar views use this to paint busy intervals.
func (s *bookingService) FindConflicting(ctx context.Context, propertyID string, from, to time.Time) ([]*model.Booking, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if !to.After(from) {
		return nil, apperrors.InvalidInput("Query window end must be after its start")
	}

	bookings, err := s.repo.FindConflictWindow(ctx, propertyID, from, to, engine.OverlapStatuses(), "")
	if err != nil {
		return nil, apperrors.Internal("Failed to scan bookings", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	now := s.clock.Now()
	if b.Status == "" {
		b.Status = model.StatusPendingPayment
	}
	if b.Payment.Status == "" {
		b.Payment.Status = model.PaymentPending
	}
	if b.TotalHours == 0 && b.CheckOutTime.After(b.CheckInTime) {
		b.TotalHours = b.CheckOutTime.Sub(b.CheckInTime).Hours()
	}
	if b.BookingRef == "" {
		b.BookingRef = generateBookingRef(now)
	}
}

// generateBookingRef builds a human-quotable reference such as
// BK-20260310-4F21A9.
func generateBookingRef(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102"), suffix)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.CheckInTime != nil {
		merged.CheckInTime = *updates.CheckInTime
	}
	if updates.CheckOutTime != nil {
		merged.CheckOutTime = *updates.CheckOutTime
	}
	if updates.CheckInTime != nil || updates.CheckOutTime != nil {
		merged.TotalHours = merged.CheckOutTime.Sub(merged.CheckInTime).Hours()
	}
	if updates.Seats != nil {
		merged.Seats = *updates.Seats
	}
	if updates.BaseAmount != nil {
		merged.BaseAmount = *updates.BaseAmount
	}
	if updates.CleaningFee != nil {
		merged.CleaningFee = *updates.CleaningFee
	}
	if updates.Taxes != nil {
		merged.Taxes = *updates.Taxes
	}
	if updates.DiscountAmount != nil {
		merged.DiscountAmount = *updates.DiscountAmount
	}
	if updates.TotalAmount != nil {
		merged.TotalAmount = *updates.TotalAmount
	}

	return &merged
}

func (s *bookingService) loadProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", propertyID)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to load property", err)
	}
	return property, nil
}

func (s *bookingService) scanConflictWindow(ctx context.Context, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]*model.Booking, error) {
	from, to := engine.ScanWindow(checkIn, checkOut, s.cfg.Buffer())
	existing, err := s.repo.FindConflictWindow(ctx, propertyID, from, to, engine.BlockingStatuses(), excludeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}
	return existing, nil
}

func (s *bookingService) verifyNoConflicts(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.scanConflictWindow(ctx, booking.PropertyID, booking.CheckInTime, booking.CheckOutTime, excludeID)
	if err != nil {
		return err
	}

	cand := engine.Candidate{
		ExcludeID: excludeID,
		UserID:    booking.UserID,
		CheckIn:   booking.CheckInTime,
		CheckOut:  booking.CheckOutTime,
	}
	rule, offender := engine.Check(cand, existing, s.cfg.Buffer())
	switch rule {
	case engine.RuleOverlap:
		return apperrors.ConflictRule(string(rule), fmt.Sprintf(
			"Requested interval overlaps an existing booking (%s - %s)",
			offender.CheckInTime.Format(time.RFC3339),
			offender.CheckOutTime.Format(time.RFC3339),
		), map[string]any{"conflicting_booking_id": offender.ID})
	case engine.RuleBuffer:
		return apperrors.ConflictRule(string(rule), fmt.Sprintf(
			"Requested interval falls within the %d-minute turnaround buffer of an existing booking (%s - %s)",
			s.cfg.BufferMinutes,
			offender.CheckInTime.Format(time.RFC3339),
			offender.CheckOutTime.Format(time.RFC3339),
		), map[string]any{"conflicting_booking_id": offender.ID})
	}
	return nil
}

func (s *bookingService) mapRepoError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Booking store operation failed", err)
}

// acquirePropertyLock serializes all booking writers for one property. The
// lock auto-expires via the TTL index should the holder crash mid-flight.
func (s *bookingService) acquirePropertyLock(ctx context.Context, propertyID string) (string, error) {
	lockID := fmt.Sprintf("property_%s", propertyID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: s.clock.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This property is being booked by another request. Please retry.")
		}
		return "", apperrors.Internal("Failed to acquire property lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releasePropertyLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Booking event not published",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
