package services

import (
	"context"
	"time"

	"bookingtour/constants"
	"bookingtour/dto"
	"bookingtour/models"
	"bookingtour/services/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type StatisticsServiceInterface interface {
	MonthlyRevenue(ctx context.Context, year, month int) (*dto.MonthlyRevenueResponse, error)
	MonthlyBookingsCount(ctx context.Context, year, month int) (*dto.MonthlyCountResponse, error)
	MonthlyParticipants(ctx context.Context, year, month int) (*dto.MonthlyCountResponse, error)
	ActiveToursCount(ctx context.Context) (int64, error)
	TopRevenueTours(ctx context.Context, limit int) ([]dto.TourRevenue, error)
	ToursRevenue(ctx context.Context) ([]dto.TourRevenue, error)
	ToursBookingsCount(ctx context.Context) ([]dto.TourBookingsCount, error)
	RecentBookings(ctx context.Context, count int) ([]models.Booking, error)
	Overview(ctx context.Context) (*dto.OverviewStatistics, error)
}

type StatisticsService struct {
	db     *gorm.DB
	logger logger.Logger
	now    func() time.Time
}

type StatisticsServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
	Clock  func() time.Time
}

func NewStatisticsService(opts StatisticsServiceOptions) *StatisticsService {
	s := &StatisticsService{db: opts.DB, logger: opts.Logger, now: opts.Clock}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// monthRange trả về [đầu tháng, đầu tháng sau). year/month = 0 lấy tháng hiện tại.
func (s *StatisticsService) monthRange(year, month int) (int, int, time.Time, time.Time) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	return year, month, start, start.AddDate(0, 1, 0)
}

func (s *StatisticsService) inMonth(ctx context.Context, start, end time.Time) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("created_date >= ? AND created_date < ?", start, end)
}

// MonthlyRevenue tổng tiền booking Confirmed tạo trong tháng
func (s *StatisticsService) MonthlyRevenue(ctx context.Context, year, month int) (*dto.MonthlyRevenueResponse, error) {
	year, month, start, end := s.monthRange(year, month)
	revenue, err := sumDecimal(s.inMonth(ctx, start, end).Where("status = ?", constants.BookingStatusConfirmed), "total_amount")
	if err != nil {
		return nil, err
	}
	return &dto.MonthlyRevenueResponse{Month: month, Year: year, Revenue: revenue}, nil
}

func (s *StatisticsService) MonthlyBookingsCount(ctx context.Context, year, month int) (*dto.MonthlyCountResponse, error) {
	year, month, start, end := s.monthRange(year, month)
	var count int64
	if err := s.inMonth(ctx, start, end).Count(&count).Error; err != nil {
		return nil, dbError(err, "")
	}
	return &dto.MonthlyCountResponse{Month: month, Year: year, Count: count}, nil
}

// MonthlyParticipants tổng số khách của booking Confirmed trong tháng
func (s *StatisticsService) MonthlyParticipants(ctx context.Context, year, month int) (*dto.MonthlyCountResponse, error) {
	year, month, start, end := s.monthRange(year, month)
	var total int64
	err := s.inMonth(ctx, start, end).
		Where("status = ?", constants.BookingStatusConfirmed).
		Select("COALESCE(SUM(number_of_people), 0)").
		Row().Scan(&total)
	if err != nil {
		return nil, dbError(err, "")
	}
	return &dto.MonthlyCountResponse{Month: month, Year: year, Count: total}, nil
}

func (s *StatisticsService) ActiveToursCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Tour{}).
		Where("is_active = ? AND is_delete = ?", true, false).
		Count(&count).Error
	return count, dbError(err, "")
}

type tourRevenueRow struct {
	TourID            uint
	TourName          string
	TotalRevenue      decimal.NullDecimal
	BookingsCount     int64
	TotalParticipants int64
}

func (s *StatisticsService) tourRevenue(ctx context.Context, limit int) ([]dto.TourRevenue, error) {
	query := s.db.WithContext(ctx).Table("bookings AS b").
		Select("b.tour_id, t.tour_name, SUM(b.total_amount) AS total_revenue, COUNT(*) AS bookings_count, SUM(b.number_of_people) AS total_participants").
		Joins("JOIN tours t ON t.id = b.tour_id").
		Where("b.status = ?", constants.BookingStatusConfirmed).
		Group("b.tour_id, t.tour_name").
		Order("total_revenue DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []tourRevenueRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.TourRevenue, 0, len(rows))
	for _, r := range rows {
		item := dto.TourRevenue{
			TourID:            r.TourID,
			TourName:          r.TourName,
			TotalRevenue:      decimal.Zero,
			BookingsCount:     r.BookingsCount,
			TotalParticipants: r.TotalParticipants,
		}
		if r.TotalRevenue.Valid {
			item.TotalRevenue = r.TotalRevenue.Decimal
		}
		out = append(out, item)
	}
	return out, nil
}

// TopRevenueTours các tour có doanh thu Confirmed cao nhất
func (s *StatisticsService) TopRevenueTours(ctx context.Context, limit int) ([]dto.TourRevenue, error) {
	if limit <= 0 {
		limit = 5
	}
	tours, err := s.tourRevenue(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range tours {
		tours[i].TotalParticipants = 0
	}
	return tours, nil
}

func (s *StatisticsService) ToursRevenue(ctx context.Context) ([]dto.TourRevenue, error) {
	return s.tourRevenue(ctx, 0)
}

func (s *StatisticsService) ToursBookingsCount(ctx context.Context) ([]dto.TourBookingsCount, error) {
	rows := []dto.TourBookingsCount{}
	err := s.db.WithContext(ctx).Table("bookings AS b").
		Select(`b.tour_id, t.tour_name, COUNT(*) AS bookings_count,
			COUNT(*) FILTER (WHERE b.status = ?) AS confirmed_bookings,
			COUNT(*) FILTER (WHERE b.status = ?) AS pending_bookings,
			COUNT(*) FILTER (WHERE b.status = ?) AS cancelled_bookings`,
			constants.BookingStatusConfirmed, constants.BookingStatusPending, constants.BookingStatusCancelled).
		Joins("JOIN tours t ON t.id = b.tour_id").
		Group("b.tour_id, t.tour_name").
		Order("bookings_count DESC").
		Scan(&rows).Error
	return rows, dbError(err, "")
}

// RecentBookings các booking mới nhất kèm tour và user
func (s *StatisticsService) RecentBookings(ctx context.Context, count int) ([]models.Booking, error) {
	if count <= 0 {
		count = 5
	}
	if count > constants.MaxPageSize {
		count = constants.MaxPageSize
	}
	bookings := []models.Booking{}
	err := s.db.WithContext(ctx).
		Preload("Tour").
		Preload("User").
		Order("created_date desc").
		Limit(count).
		Find(&bookings).Error
	return bookings, dbError(err, "")
}

// Overview tổng hợp số liệu tháng hiện tại, các truy vấn chạy song song
func (s *StatisticsService) Overview(ctx context.Context) (*dto.OverviewStatistics, error) {
	year, month, _, _ := s.monthRange(0, 0)
	out := &dto.OverviewStatistics{Month: month, Year: year}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.MonthlyRevenue(gctx, year, month)
		if err == nil {
			out.MonthlyRevenue = r.Revenue
		}
		return err
	})
	g.Go(func() error {
		r, err := s.MonthlyBookingsCount(gctx, year, month)
		if err == nil {
			out.MonthlyBookingsCount = r.Count
		}
		return err
	})
	g.Go(func() error {
		r, err := s.MonthlyParticipants(gctx, year, month)
		if err == nil {
			out.MonthlyParticipants = r.Count
		}
		return err
	})
	g.Go(func() error {
		n, err := s.ActiveToursCount(gctx)
		out.ActiveToursCount = n
		return err
	})
	g.Go(func() error {
		total, err := sumDecimal(s.db.WithContext(gctx).Model(&models.Booking{}).
			Where("status = ?", constants.BookingStatusConfirmed), "total_amount")
		out.TotalRevenue = total
		return err
	})
	g.Go(func() error {
		return dbError(s.db.WithContext(gctx).Model(&models.Booking{}).Count(&out.TotalBookings).Error, "")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
