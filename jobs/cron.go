package jobs

import (
	"context"
	"fmt"
	"time"

	"bookingtour/dto"
	"bookingtour/models"
	"bookingtour/services"
	"bookingtour/services/logger"
	"bookingtour/services/notification"

	"github.com/robfig/cron/v3"
)

const (
	voucherCacheSpec = "@every 5m"
	dailyDigestSpec  = "0 0 * * *"
	staleReportSpec  = "@hourly"

	staleAfter = 24 * time.Hour
	jobTimeout = time.Minute
)

// VoucherCacheWarmer nạp lại cache voucher đang hiệu lực
type VoucherCacheWarmer interface {
	RefreshActiveCache(ctx context.Context) (int, error)
}

// OverviewProvider số liệu tổng quan cho bản tin hằng ngày
type OverviewProvider interface {
	Overview(ctx context.Context) (*dto.OverviewStatistics, error)
}

// StaleBookingFinder tìm booking Pending quá hạn xử lý
type StaleBookingFinder interface {
	StalePending(ctx context.Context, before time.Time) ([]models.Booking, error)
}

type Options struct {
	Vouchers  VoucherCacheWarmer
	Stats     OverviewProvider
	Bookings  StaleBookingFinder
	Publisher notification.Publisher
	Logger    logger.Logger
	Clock     func() time.Time
}

type Runner struct {
	opts Options
}

func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Publisher == nil {
		opts.Publisher = notification.Multi{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Runner{opts: opts}
}

// InitCronJobs đăng ký các job và khởi động cron
func InitCronJobs(c *cron.Cron, r *Runner) error {
	jobs := []struct {
		spec string
		run  func(ctx context.Context) error
	}{
		{voucherCacheSpec, r.WarmVoucherCache},
		{dailyDigestSpec, r.DailyDigest},
		{staleReportSpec, r.ReportStaleBookings},
	}
	for _, j := range jobs {
		run := j.run
		if _, err := c.AddFunc(j.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := run(ctx); err != nil {
				r.opts.Logger.Error("Cron job lỗi: %v", err)
			}
		}); err != nil {
			return err
		}
	}

	c.Start()
	r.opts.Logger.Info("Cron jobs initialized successfully")
	return nil
}

func (r *Runner) WarmVoucherCache(ctx context.Context) error {
	if r.opts.Vouchers == nil {
		return nil
	}
	n, err := r.opts.Vouchers.RefreshActiveCache(ctx)
	if err != nil {
		return fmt.Errorf("làm mới cache voucher: %w", err)
	}
	r.opts.Logger.Debug("Đã nạp %d voucher vào cache", n)
	return nil
}

// DailyDigest gửi số liệu tháng hiện tại qua websocket và Kafka
func (r *Runner) DailyDigest(ctx context.Context) error {
	if r.opts.Stats == nil {
		return nil
	}
	overview, err := r.opts.Stats.Overview(ctx)
	if err != nil {
		return fmt.Errorf("tổng hợp số liệu: %w", err)
	}
	text := fmt.Sprintf("📊 Tháng %d/%d: %d booking, doanh thu %s VND, %d tour đang mở",
		overview.Month, overview.Year, overview.MonthlyBookingsCount,
		services.FormatVND(overview.MonthlyRevenue), overview.ActiveToursCount)
	event := notification.NewMessageBuilder(notification.EventDailyDigest, 0).
		Text(text).
		WithPayload(overview).
		At(r.opts.Clock()).
		Build()
	return r.opts.Publisher.Publish(ctx, event)
}

// ReportStaleBookings ghi log các booking Pending quá 24 giờ
func (r *Runner) ReportStaleBookings(ctx context.Context) error {
	if r.opts.Bookings == nil {
		return nil
	}
	bookings, err := r.opts.Bookings.StalePending(ctx, r.opts.Clock().Add(-staleAfter))
	if err != nil {
		return fmt.Errorf("tìm booking pending: %w", err)
	}
	for _, b := range bookings {
		r.opts.Logger.Info("Booking #%d (tour %d) còn Pending từ %s", b.ID, b.TourID, b.BookingDate.Format(time.RFC3339))
	}
	if len(bookings) > 0 {
		r.opts.Logger.Info("Có %d booking Pending quá 24 giờ", len(bookings))
	}
	return nil
}
