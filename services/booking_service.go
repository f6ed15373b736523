package services

import (
	"context"
	"fmt"
	"time"

	"bookingtour/commands"
	"bookingtour/constants"
	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/services/notification"
	"bookingtour/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingServiceInterface interface {
	List(ctx context.Context, q dto.BookingQuery) ([]models.Booking, int64, error)
	Get(ctx context.Context, id uint) (*models.Booking, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error)
	Update(ctx context.Context, id uint, req dto.UpdateBookingRequest) (*models.Booking, error)
	Delete(ctx context.Context, id uint) error
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string) (*models.Booking, error)
	Options(ctx context.Context, id uint) ([]models.BookingOption, error)
	Payments(ctx context.Context, id uint) ([]models.Payment, error)
	Statistics(ctx context.Context) (*dto.BookingStatisticsResponse, error)
}

type BookingService struct {
	db        *gorm.DB
	facade    *BookingFacade
	publisher notification.Publisher
	logger    logger.Logger
	now       func() time.Time
}

type BookingServiceOptions struct {
	DB        *gorm.DB
	Facade    *BookingFacade
	Publisher notification.Publisher
	Logger    logger.Logger
	Clock     func() time.Time
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	s := &BookingService{
		db:        opts.DB,
		facade:    opts.Facade,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.publisher == nil {
		s.publisher = notification.Multi{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.facade == nil {
		s.facade = NewBookingFacade(BookingFacadeOptions{DB: opts.DB, Publisher: s.publisher, Logger: s.logger, Clock: s.now})
	}
	return s
}

func (s *BookingService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Tour").
		Preload("User").
		Preload("Voucher").
		Preload("BookingOptions.Option").
		Preload("Payments")
}

func (s *BookingService) List(ctx context.Context, q dto.BookingQuery) ([]models.Booking, int64, error) {
	page := Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
	query := s.db.WithContext(ctx).Model(&models.Booking{})
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "")
	}
	bookings := []models.Booking{}
	err := s.preload(query).
		Order("booking_date desc, id desc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&bookings).Error
	return bookings, total, dbError(err, "")
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.preload(s.db.WithContext(ctx)).First(&booking, id).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy booking")
	}
	return &booking, nil
}

func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error) {
	booking, err := s.facade.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, booking.ID)
}

// Update chỉ ghi đè các trường được gửi lên. Đổi trạng thái vẫn phải qua state machine.
func (s *BookingService) Update(ctx context.Context, id uint, req dto.UpdateBookingRequest) (*models.Booking, error) {
	db := s.db.WithContext(ctx)
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy booking")
	}

	updates := map[string]interface{}{}
	if req.NumberOfPeople != nil {
		booking.NumberOfPeople = *req.NumberOfPeople
		updates["number_of_people"] = booking.NumberOfPeople
	}
	if req.TotalAmount != nil {
		booking.TotalAmount = *req.TotalAmount
		updates["total_amount"] = booking.TotalAmount
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
		updates["notes"] = booking.Notes
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = *req.PaymentStatus
		updates["payment_status"] = booking.PaymentStatus
	}
	if req.DiscountAmount != nil {
		discount := *req.DiscountAmount
		booking.DiscountAmount = &discount
		updates["discount_amount"] = discount
	}
	if req.VoucherID != nil {
		if err := checkVoucherExists(db, *req.VoucherID); err != nil {
			return nil, err
		}
		booking.VoucherID = req.VoucherID
		updates["voucher_id"] = *req.VoucherID
	}
	from := booking.Status
	if req.Status != nil && *req.Status != from {
		if err := validator.ValidateBookingStatus(*req.Status); err != nil {
			return nil, err
		}
		if err := booking.TransitionTo(*req.Status); err != nil {
			return nil, errors.NewAppError(errors.ErrCodeInvalidTransition, err.Error(), nil)
		}
		updates["status"] = booking.Status
	}

	if err := validator.ValidateBooking(&booking); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		updates["updated_at"] = s.now()
		res := db.Model(&models.Booking{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return nil, dbError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return nil, errors.NewAppError(errors.ErrCodeInvalidTransition, "Booking đã được cập nhật bởi yêu cầu khác", nil)
		}
	}
	if booking.Status != from {
		s.publish(ctx, notification.NewMessageBuilder(notification.EventBookingStatusChanged, id).
			StatusChanged(from, booking.Status).Build())
	}
	return s.Get(ctx, id)
}

// Delete từ chối xóa booking đã hoàn thành hoặc đã thanh toán
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		return dbError(err, "Không tìm thấy booking")
	}
	if !booking.Deletable() {
		return errors.NewAppError(errors.ErrCodeBookingLocked, "Không thể xóa booking đã hoàn thành hoặc đã thanh toán", nil)
	}
	if err := commands.NewDeleteBookingCommand(id, db).Execute(); err != nil {
		return dbError(err, "")
	}

	s.logger.Info("Xóa booking #%d", id)
	s.publish(ctx, notification.NewMessageBuilder(notification.EventBookingDeleted, id).
		Text(fmt.Sprintf("🔔 Booking #%d đã bị xóa.", id)).Build())
	return nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	if _, err := s.facade.ChangeStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	if status == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Trạng thái thanh toán không được để trống", nil)
	}
	if err := validator.ValidateBookingPaymentStatus(status); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	cmd := commands.NewUpdateBookingCommand(id, map[string]interface{}{
		"payment_status": status,
		"updated_at":     s.now(),
	}, s.db.WithContext(ctx))
	if err := cmd.Execute(); err != nil {
		return nil, dbError(err, "")
	}
	return s.Get(ctx, id)
}

func (s *BookingService) Options(ctx context.Context, id uint) ([]models.BookingOption, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	options := []models.BookingOption{}
	err := s.db.WithContext(ctx).Preload("Option").Where("booking_id = ?", id).Find(&options).Error
	return options, dbError(err, "")
}

func (s *BookingService) Payments(ctx context.Context, id uint) ([]models.Payment, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	payments := []models.Payment{}
	err := s.db.WithContext(ctx).Where("booking_id = ?", id).Order("payment_date desc").Find(&payments).Error
	return payments, dbError(err, "")
}

type statusCount struct {
	Status string
	Count  int64
}

// Statistics số booking theo trạng thái và tổng tiền mọi booking
func (s *BookingService) Statistics(ctx context.Context) (*dto.BookingStatisticsResponse, error) {
	db := s.db.WithContext(ctx)
	var rows []statusCount
	if err := db.Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, dbError(err, "")
	}

	stats := &dto.BookingStatisticsResponse{TotalRevenue: decimal.Zero}
	for _, r := range rows {
		stats.TotalBookings += r.Count
		switch r.Status {
		case constants.BookingStatusPending:
			stats.PendingBookings = r.Count
		case constants.BookingStatusConfirmed:
			stats.ConfirmedBookings = r.Count
		case constants.BookingStatusCompleted:
			stats.CompletedBookings = r.Count
		case constants.BookingStatusCancelled:
			stats.CancelledBookings = r.Count
		}
	}

	revenue, err := sumDecimal(db.Model(&models.Booking{}), "total_amount")
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue
	return stats, nil
}

func (s *BookingService) ensureExists(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count == 0 {
		return bookingNotFound(id)
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, event notification.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("Không gửi được thông báo %s: %v", event.Type, err)
	}
}

// StalePending các booking còn Pending được tạo trước thời điểm before
func (s *BookingService) StalePending(ctx context.Context, before time.Time) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := s.db.WithContext(ctx).
		Where("status = ? AND booking_date < ?", constants.BookingStatusPending, before).
		Order("booking_date asc").
		Find(&bookings).Error
	return bookings, dbError(err, "")
}
