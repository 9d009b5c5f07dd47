package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/anmarochka/resto-booking/internal/analytics"
	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/model"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrValidation        = errors.New("invalid booking request")
)

// Store persists bookings.  Implementations return ErrNotFound for
// missing ids.
type Store interface {
	Insert(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error)
}

// EventPublisher pushes lifecycle events to the message broker.  Publishing
// is best effort: a broker outage must never fail a booking.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev model.AnalyticsEvent) error
}

// RestaurantNames resolves a restaurant id to its display name for the
// live feed messages.
type RestaurantNames interface {
	RestaurantName(ctx context.Context, id string) (string, error)
}

// Service owns the booking lifecycle: creation, status transitions and
// the table-status and live-feed side effects that go with them.
type Service struct {
	store  Store
	floors floorplan.Store
	events *analytics.EventLog
	pub    EventPublisher
	names  RestaurantNames
	now    func() time.Time
}

func NewService(store Store, floors floorplan.Store, events *analytics.EventLog, pub EventPublisher, names RestaurantNames) *Service {
	return &Service{
		store:  store,
		floors: floors,
		events: events,
		pub:    pub,
		names:  names,
		now:    time.Now,
	}
}

// CreateRequest carries the fields a new booking is built from.  Status
// may be empty (defaults to pending); only pending and confirmed are
// accepted at creation.
type CreateRequest struct {
	UserID       uint64
	RestaurantID string
	TableID      string
	Date         string
	Time         string
	Guests       int
	Status       model.BookingStatus
	UserName     string
	UserPhone    string
}

// Create validates the request, persists the booking, marks the table
// reserved and emits a booking_created event, plus booking_confirmed
// when the booking is created already confirmed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	if req.RestaurantID == "" || req.TableID == "" || req.Date == "" || req.Time == "" {
		return nil, fmt.Errorf("%w: missing required field", ErrValidation)
	}
	if req.Guests < 1 {
		return nil, fmt.Errorf("%w: guests must be positive", ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = model.BookingPending
	}
	if status != model.BookingPending && status != model.BookingConfirmed {
		return nil, fmt.Errorf("%w: cannot create a booking as %s", ErrValidation, status)
	}
	if req.UserPhone != "" && !ValidatePhone(req.UserPhone) {
		return nil, fmt.Errorf("%w: phone number is too short", ErrValidation)
	}

	b := &model.Booking{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		Guests:       req.Guests,
		Status:       status,
		CreatedAt:    s.now().UTC(),
		UserName:     req.UserName,
		UserPhone:    req.UserPhone,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}

	s.setTableStatus(ctx, b.RestaurantID, b.TableID, model.TableReserved)
	s.emit(ctx, b, model.EventBookingCreated)
	if b.Status == model.BookingConfirmed {
		s.emit(ctx, b, model.EventBookingConfirmed)
	}
	return b, nil
}

// Get returns one booking by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Booking, error) {
	return s.store.Get(ctx, id)
}

// ListByUser returns the caller's bookings.
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListByRestaurant returns every booking of a restaurant.
func (s *Service) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error) {
	return s.store.ListByRestaurant(ctx, restaurantID)
}

// UpdateStatus moves a booking along its lifecycle.  Transitions outside
// pending→confirmed→completed, or cancelling an active booking, yield
// ErrInvalidTransition.  Confirming reserves the table; cancelling or
// completing frees it.  One event is emitted per transition.
func (s *Service) UpdateStatus(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, next)
	}
	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	b.Status = next

	switch next {
	case model.BookingConfirmed:
		s.setTableStatus(ctx, b.RestaurantID, b.TableID, model.TableReserved)
	case model.BookingCancelled, model.BookingCompleted:
		s.setTableStatus(ctx, b.RestaurantID, b.TableID, model.TableAvailable)
	}
	s.emit(ctx, b, eventTypeFor(next))
	return b, nil
}

// Cancel cancels a booking.  A non-zero userID restricts the operation
// to that user's own bookings; foreign ids report ErrNotFound rather
// than reveal the booking exists.
func (s *Service) Cancel(ctx context.Context, id string, userID uint64) (*model.Booking, error) {
	if userID != 0 {
		b, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.UserID != userID {
			return nil, ErrNotFound
		}
	}
	return s.UpdateStatus(ctx, id, model.BookingCancelled)
}

// SeedEvents warms an empty live feed from a restaurant's stored
// bookings so the dashboard is not blank after a restart.  Each booking
// contributes one event reflecting its current status, stamped with the
// booking's creation time.  Non-empty feeds are left alone and nothing
// is published to the broker.
func (s *Service) SeedEvents(ctx context.Context, restaurantID string) {
	if s.events == nil || s.events.Len(restaurantID) > 0 {
		return
	}
	bookings, err := s.store.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Printf("booking: seed events for %s: %v", restaurantID, err)
		return
	}
	// The store lists newest first; append oldest first so the feed
	// still reads newest first.
	for i := len(bookings) - 1; i >= 0; i-- {
		b := bookings[i]
		typ := eventTypeFor(b.Status)
		s.events.Append(model.AnalyticsEvent{
			RestaurantID: restaurantID,
			Type:         typ,
			Title:        eventTitle(typ),
			Message:      s.eventMessage(ctx, &b),
			BookingID:    b.ID,
			CreatedAt:    b.CreatedAt,
		})
	}
}

func eventTypeFor(status model.BookingStatus) model.EventType {
	switch status {
	case model.BookingConfirmed:
		return model.EventBookingConfirmed
	case model.BookingCancelled:
		return model.EventBookingCancelled
	case model.BookingCompleted:
		return model.EventBookingCompleted
	default:
		return model.EventBookingCreated
	}
}

func eventTitle(t model.EventType) string {
	switch t {
	case model.EventBookingCreated:
		return "Новое бронирование"
	case model.EventBookingConfirmed:
		return "Подтверждено"
	case model.EventBookingCancelled:
		return "Отменено"
	default:
		return "Завершено"
	}
}

// setTableStatus flips one table on the stored floor plan.  The booking
// itself has already been persisted, so failures here are logged and
// swallowed; a missing table is a silent no-op.
func (s *Service) setTableStatus(ctx context.Context, restaurantID, tableID string, status model.TableStatus) {
	if s.floors == nil {
		return
	}
	state, err := s.floors.Load(ctx, restaurantID)
	if err != nil {
		log.Printf("booking: load floor plan for %s: %v", restaurantID, err)
		return
	}
	found := false
	for i := range state.Tables {
		if state.Tables[i].ID == tableID {
			state.Tables[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return
	}
	if err := s.floors.Save(ctx, restaurantID, state); err != nil {
		log.Printf("booking: save floor plan for %s: %v", restaurantID, err)
	}
}

func (s *Service) emit(ctx context.Context, b *model.Booking, typ model.EventType) {
	ev := model.AnalyticsEvent{
		RestaurantID: b.RestaurantID,
		Type:         typ,
		Title:        eventTitle(typ),
		Message:      s.eventMessage(ctx, b),
		BookingID:    b.ID,
	}
	if s.events != nil {
		ev = s.events.Append(ev)
	}
	if s.pub != nil {
		if err := s.pub.PublishBookingEvent(ctx, ev); err != nil {
			log.Printf("booking: publish %s event: %v", typ, err)
		}
	}
}

// eventMessage renders "Name • 19:00 • 2 гостей • Стол 4", falling back
// to the raw table id when the floor plan cannot resolve a number.
func (s *Service) eventMessage(ctx context.Context, b *model.Booking) string {
	name := "Ресторан"
	if s.names != nil {
		if n, err := s.names.RestaurantName(ctx, b.RestaurantID); err == nil && n != "" {
			name = n
		}
	}
	table := "Стол " + b.TableID
	if s.floors != nil {
		if state, err := s.floors.Load(ctx, b.RestaurantID); err == nil {
			for _, t := range state.Tables {
				if t.ID == b.TableID {
					table = "Стол " + strconv.Itoa(t.Number)
					break
				}
			}
		}
	}
	guests := strconv.Itoa(b.Guests) + " гостей"
	if b.Guests == 1 {
		guests = "1 гость"
	}
	return name + " • " + b.Time + " • " + guests + " • " + table
}
