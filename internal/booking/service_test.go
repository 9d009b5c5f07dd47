package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anmarochka/resto-booking/internal/analytics"
	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/model"
)

type memStore struct {
	bookings map[string]*model.Booking
}

func newMemStore() *memStore {
	return &memStore{bookings: make(map[string]*model.Booking)}
}

func (m *memStore) Insert(ctx context.Context, b *model.Booking) error {
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		if b.RestaurantID == restaurantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type capturingPublisher struct {
	published []model.AnalyticsEvent
	fail      bool
}

func (p *capturingPublisher) PublishBookingEvent(ctx context.Context, ev model.AnalyticsEvent) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.published = append(p.published, ev)
	return nil
}

type staticNames map[string]string

func (n staticNames) RestaurantName(ctx context.Context, id string) (string, error) {
	return n[id], nil
}

func newTestService(t *testing.T) (*Service, *memStore, floorplan.Store, *analytics.EventLog, *capturingPublisher) {
	t.Helper()
	store := newMemStore()
	floors := floorplan.NewDocStore(nil)
	events := analytics.NewEventLog()
	pub := &capturingPublisher{}
	svc := NewService(store, floors, events, pub, staticNames{"r1": "Белла Виста"})
	return svc, store, floors, events, pub
}

func tableStatus(t *testing.T, floors floorplan.Store, restaurantID, tableID string) model.TableStatus {
	t.Helper()
	state, err := floors.Load(context.Background(), restaurantID)
	if err != nil {
		t.Fatalf("load floor plan: %v", err)
	}
	for _, tbl := range state.Tables {
		if tbl.ID == tableID {
			return tbl.Status
		}
	}
	t.Fatalf("table %s not found", tableID)
	return ""
}

func TestCreateConfirmedReservesTableAndEmitsTwoEvents(t *testing.T) {
	svc, _, floors, events, pub := newTestService(t)

	b, err := svc.Create(context.Background(), CreateRequest{
		UserID:       7,
		RestaurantID: "r1",
		TableID:      "t1",
		Date:         "2026-03-10",
		Time:         "19:00",
		Guests:       2,
		Status:       model.BookingConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not assigned: %+v", b)
	}
	if got := tableStatus(t, floors, "r1", "t1"); got != model.TableReserved {
		t.Fatalf("table status = %s, want reserved", got)
	}
	feed := events.Recent("r1", 10)
	if len(feed) != 2 {
		t.Fatalf("got %d events, want 2", len(feed))
	}
	if feed[0].Type != model.EventBookingConfirmed || feed[1].Type != model.EventBookingCreated {
		t.Fatalf("event order wrong: %s, %s", feed[0].Type, feed[1].Type)
	}
	if feed[1].Title != "Новое бронирование" {
		t.Fatalf("title = %q", feed[1].Title)
	}
	if len(pub.published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.published))
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateRequest{
		{RestaurantID: "", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 2},
		{RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 0},
		{RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 2, Status: model.BookingCompleted},
		{RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 2, UserPhone: "12"},
	}
	for i, req := range cases {
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc, _, floors, events, _ := newTestService(t)

	b, err := svc.Create(context.Background(), CreateRequest{
		RestaurantID: "r1", TableID: "t2", Date: "2026-03-10", Time: "18:00", Guests: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != model.BookingPending {
		t.Fatalf("status = %s, want pending", b.Status)
	}
	// A pending booking still holds the table.
	if got := tableStatus(t, floors, "r1", "t2"); got != model.TableReserved {
		t.Fatalf("table status = %s, want reserved", got)
	}
	if events.Len("r1") != 1 {
		t.Fatalf("got %d events, want 1", events.Len("r1"))
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	svc, _, floors, events, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{
		RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, b.ID, model.BookingCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending to completed: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.UpdateStatus(ctx, b.ID, model.BookingConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := tableStatus(t, floors, "r1", "t1"); got != model.TableReserved {
		t.Fatalf("after confirm table = %s, want reserved", got)
	}

	done, err := svc.UpdateStatus(ctx, b.ID, model.BookingCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != model.BookingCompleted {
		t.Fatalf("status = %s, want completed", done.Status)
	}
	if got := tableStatus(t, floors, "r1", "t1"); got != model.TableAvailable {
		t.Fatalf("after complete table = %s, want available", got)
	}

	// Terminal bookings are immutable.
	if _, err := svc.UpdateStatus(ctx, b.ID, model.BookingCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed to cancelled: err = %v, want ErrInvalidTransition", err)
	}

	feed := events.Recent("r1", 10)
	if len(feed) != 3 {
		t.Fatalf("got %d events, want 3", len(feed))
	}
	if feed[0].Type != model.EventBookingCompleted {
		t.Fatalf("newest event = %s, want completed", feed[0].Type)
	}
}

func TestCancelOwnership(t *testing.T) {
	svc, _, floors, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{
		UserID:       7,
		RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(ctx, b.ID, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign cancel: err = %v, want ErrNotFound", err)
	}

	got, err := svc.Cancel(ctx, b.ID, 7)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != model.BookingCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if st := tableStatus(t, floors, "r1", "t1"); st != model.TableAvailable {
		t.Fatalf("table = %s, want available", st)
	}
}

func TestEventMessageFormat(t *testing.T) {
	svc, _, _, events, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateRequest{
		RestaurantID: "r1", TableID: "t4", Date: "2026-03-10", Time: "19:30", Guests: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	msg := events.Recent("r1", 1)[0].Message
	if msg != "Белла Виста • 19:30 • 1 гость • Стол 4" {
		t.Fatalf("message = %q", msg)
	}
}

func TestSeedEventsWarmsOnlyEmptyFeed(t *testing.T) {
	svc, store, _, events, pub := newTestService(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	store.bookings["b1"] = &model.Booking{
		ID: "b1", RestaurantID: "r1", TableID: "t4",
		Date: "2026-03-10", Time: "19:30", Guests: 1,
		Status: model.BookingConfirmed, CreatedAt: created,
	}

	svc.SeedEvents(ctx, "r1")
	feed := events.Recent("r1", 10)
	if len(feed) != 1 {
		t.Fatalf("got %d events, want 1", len(feed))
	}
	if feed[0].Type != model.EventBookingConfirmed || feed[0].BookingID != "b1" {
		t.Fatalf("seeded event wrong: %+v", feed[0])
	}
	if !feed[0].CreatedAt.Equal(created) {
		t.Fatalf("seed must keep the booking's timestamp, got %v", feed[0].CreatedAt)
	}
	if len(pub.published) != 0 {
		t.Fatal("seeding must not publish to the broker")
	}

	// A warm feed is left alone.
	svc.SeedEvents(ctx, "r1")
	if events.Len("r1") != 1 {
		t.Fatalf("reseed grew the feed to %d", events.Len("r1"))
	}
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	store := newMemStore()
	events := analytics.NewEventLog()
	svc := NewService(store, floorplan.NewDocStore(nil), events, &capturingPublisher{fail: true}, nil)

	b, err := svc.Create(context.Background(), CreateRequest{
		RestaurantID: "r1", TableID: "t1", Date: "2026-03-10", Time: "19:00", Guests: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Get(context.Background(), b.ID); err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	msg := events.Recent("r1", 1)[0].Message
	if !strings.HasPrefix(msg, "Ресторан • ") {
		t.Fatalf("fallback restaurant name missing: %q", msg)
	}
}
