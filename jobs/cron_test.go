package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookingtour/dto"
	"bookingtour/models"
	"bookingtour/services/notification"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type fakeWarmer struct {
	n   int
	err error
}

func (f *fakeWarmer) RefreshActiveCache(context.Context) (int, error) { return f.n, f.err }

type fakeOverview struct {
	overview *dto.OverviewStatistics
	err      error
}

func (f *fakeOverview) Overview(context.Context) (*dto.OverviewStatistics, error) {
	return f.overview, f.err
}

type fakeStale struct {
	before time.Time
	found  []models.Booking
}

func (f *fakeStale) StalePending(_ context.Context, before time.Time) ([]models.Booking, error) {
	f.before = before
	return f.found, nil
}

type capturePublisher struct {
	events []notification.Event
}

func (p *capturePublisher) Publish(_ context.Context, e notification.Event) error {
	p.events = append(p.events, e)
	return nil
}

var fixedNow = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestDailyDigest(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRunner(Options{
		Stats: &fakeOverview{overview: &dto.OverviewStatistics{
			MonthlyRevenue:       decimal.NewFromInt(12500000),
			MonthlyBookingsCount: 4,
			ActiveToursCount:     7,
			Month:                3,
			Year:                 2024,
		}},
		Publisher: pub,
		Clock:     clock,
	})

	if err := r.DailyDigest(context.Background()); err != nil {
		t.Fatalf("DailyDigest: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	e := pub.events[0]
	want := "📊 Tháng 3/2024: 4 booking, doanh thu 12,500,000 VND, 7 tour đang mở"
	if e.Type != notification.EventDailyDigest || e.Message != want || !e.OccurredAt.Equal(fixedNow) {
		t.Errorf("event = %+v", e)
	}
}

func TestDailyDigestError(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRunner(Options{Stats: &fakeOverview{err: errors.New("db down")}, Publisher: pub})
	if err := r.DailyDigest(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events on error", len(pub.events))
	}
}

func TestWarmVoucherCache(t *testing.T) {
	if err := NewRunner(Options{Vouchers: &fakeWarmer{n: 3}}).WarmVoucherCache(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NewRunner(Options{Vouchers: &fakeWarmer{err: errors.New("redis")}}).WarmVoucherCache(context.Background()); err == nil {
		t.Error("expected error")
	}
	if err := NewRunner(Options{}).WarmVoucherCache(context.Background()); err != nil {
		t.Errorf("nil warmer: %v", err)
	}
}

func TestReportStaleBookings(t *testing.T) {
	finder := &fakeStale{found: []models.Booking{{ID: 1, TourID: 2, BookingDate: fixedNow.Add(-48 * time.Hour)}}}
	r := NewRunner(Options{Bookings: finder, Clock: clock})
	if err := r.ReportStaleBookings(context.Background()); err != nil {
		t.Fatalf("ReportStaleBookings: %v", err)
	}
	if !finder.before.Equal(fixedNow.Add(-24 * time.Hour)) {
		t.Errorf("cutoff = %v, want %v", finder.before, fixedNow.Add(-24*time.Hour))
	}
}

func TestInitCronJobs(t *testing.T) {
	c := cron.New()
	defer c.Stop()
	if err := InitCronJobs(c, NewRunner(Options{})); err != nil {
		t.Fatalf("InitCronJobs: %v", err)
	}
	if got := len(c.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}
}
