package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookingtour/constants"
	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/services/notification"
	"bookingtour/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentServiceInterface interface {
	List(ctx context.Context) ([]models.Payment, error)
	Get(ctx context.Context, id uint) (*models.Payment, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error)
	Create(ctx context.Context, p *models.Payment) error
	Update(ctx context.Context, id uint, input *models.Payment) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Payment, error)
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*dto.PaymentStatisticsResponse, error)
	ByMethod(ctx context.Context) ([]dto.PaymentGroup, error)
	Recent(ctx context.Context, count int) ([]models.Payment, error)
}

type PaymentService struct {
	db        *gorm.DB
	publisher notification.Publisher
	logger    logger.Logger
	now       func() time.Time
}

type PaymentServiceOptions struct {
	DB        *gorm.DB
	Publisher notification.Publisher
	Logger    logger.Logger
	Clock     func() time.Time
}

func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	s := &PaymentService{
		db:        opts.DB,
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
	return s
}

func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := s.db.WithContext(ctx).Preload("Booking").Order("payment_date desc").Find(&payments).Error
	return payments, dbError(err, "")
}

func (s *PaymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Preload("Booking").First(&p, id).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy payment")
	}
	return &p, nil
}

func (s *PaymentService) ListByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("payment_date desc").
		Find(&payments).Error
	return payments, dbError(err, "")
}

// Create ngày thanh toán mặc định là hiện tại, trạng thái Pending, mã giao dịch sinh bằng uuid nếu trống
func (s *PaymentService) Create(ctx context.Context, p *models.Payment) error {
	p.ID = 0
	if err := validator.ValidatePayment(p); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if err := s.ensureBooking(db, p.BookingID); err != nil {
		return err
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = s.now()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = constants.PaymentStatusPending
	}
	if strings.TrimSpace(p.TransactionID) == "" {
		p.TransactionID = uuid.NewString()
	}
	if err := db.Omit("Booking").Create(p).Error; err != nil {
		return dbError(err, "")
	}
	s.logger.Info("Tạo payment #%d cho booking #%d: %s", p.ID, p.BookingID, p.PaymentAmount.String())
	return nil
}

func (s *PaymentService) Update(ctx context.Context, id uint, input *models.Payment) (*models.Payment, error) {
	if input.ID != 0 && input.ID != id {
		return nil, errors.NewAppError(errors.ErrCodeIDMismatch, "ID payment không khớp", nil)
	}
	if err := validator.ValidatePayment(input); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBooking(db, input.BookingID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"booking_id":     input.BookingID,
		"payment_amount": input.PaymentAmount,
		"payment_method": input.PaymentMethod,
		"transaction_id": input.TransactionID,
	}
	if !input.PaymentDate.IsZero() {
		updates["payment_date"] = input.PaymentDate
	}
	if input.PaymentStatus != "" {
		updates["payment_status"] = input.PaymentStatus
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		updates["transaction_id"] = existing.TransactionID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if input.PaymentStatus != "" && input.PaymentStatus != existing.PaymentStatus {
			return syncBookingPayment(tx, input.BookingID, input.PaymentStatus)
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "")
	}
	return s.Get(ctx, id)
}

// UpdateStatus đổi trạng thái payment. Completed đánh dấu booking Paid, Refunded đánh dấu booking Refunded.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Payment, error) {
	if err := validator.ValidatePaymentStatus(status); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := p.PaymentStatus

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).Update("payment_status", status).Error; err != nil {
			return err
		}
		return syncBookingPayment(tx, p.BookingID, status)
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	if from != status {
		event := notification.NewMessageBuilder(notification.EventPaymentStatusChanged, id).
			StatusChanged(from, status).
			WithPayload(map[string]interface{}{"bookingId": p.BookingID, "paymentStatus": status}).
			Build()
		if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
			s.logger.Error("Không gửi được thông báo payment #%d: %v", id, err)
		}
	}
	return s.Get(ctx, id)
}

func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Không tìm thấy payment")
	}
	s.logger.Info("Xóa payment #%d", id)
	return nil
}

type paymentGroupRow struct {
	GroupKey    string
	Count       int64
	TotalAmount decimal.NullDecimal
}

func (s *PaymentService) groupBy(ctx context.Context, column string) ([]dto.PaymentGroup, error) {
	var rows []paymentGroupRow
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS count, SUM(payment_amount) AS total_amount", column)).
		Group(column).
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "")
	}
	groups := make([]dto.PaymentGroup, 0, len(rows))
	for _, r := range rows {
		g := dto.PaymentGroup{Key: r.GroupKey, Count: r.Count, TotalAmount: decimal.Zero}
		if r.TotalAmount.Valid {
			g.TotalAmount = r.TotalAmount.Decimal
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *PaymentService) Statistics(ctx context.Context) (*dto.PaymentStatisticsResponse, error) {
	breakdown, err := s.groupBy(ctx, "payment_status")
	if err != nil {
		return nil, err
	}
	stats := &dto.PaymentStatisticsResponse{TotalAmount: decimal.Zero, StatusBreakdown: breakdown}
	for _, g := range breakdown {
		stats.TotalPayments += g.Count
		stats.TotalAmount = stats.TotalAmount.Add(g.TotalAmount)
	}
	return stats, nil
}

func (s *PaymentService) ByMethod(ctx context.Context) ([]dto.PaymentGroup, error) {
	return s.groupBy(ctx, "payment_method")
}

func (s *PaymentService) Recent(ctx context.Context, count int) ([]models.Payment, error) {
	if count <= 0 {
		count = 10
	}
	if count > constants.MaxPageSize {
		count = constants.MaxPageSize
	}
	payments := []models.Payment{}
	err := s.db.WithContext(ctx).
		Preload("Booking").
		Order("payment_date desc").
		Limit(count).
		Find(&payments).Error
	return payments, dbError(err, "")
}

func (s *PaymentService) ensureBooking(db *gorm.DB, bookingID uint) error {
	var count int64
	if err := db.Model(&models.Booking{}).Where("id = ?", bookingID).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count == 0 {
		return errors.NotFound("Không tìm thấy booking")
	}
	return nil
}

// syncBookingPayment cập nhật trạng thái thanh toán của booking theo payment
func syncBookingPayment(tx *gorm.DB, bookingID uint, paymentStatus string) error {
	var bookingStatus string
	switch paymentStatus {
	case constants.PaymentStatusCompleted:
		bookingStatus = constants.BookingPaymentPaid
	case constants.PaymentStatusRefunded:
		bookingStatus = constants.BookingPaymentRefunded
	default:
		return nil
	}
	return tx.Model(&models.Booking{}).Where("id = ?", bookingID).Update("payment_status", bookingStatus).Error
}
