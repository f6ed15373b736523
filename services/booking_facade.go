package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookingtour/builders"
	"bookingtour/commands"
	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/metrics"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/services/notification"
	"bookingtour/validator"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// BookingFacade gom các bước tạo booking và đổi trạng thái: kiểm tra tham chiếu,
// trừ lượt voucher, ghi DB trong một transaction rồi gửi thông báo
type BookingFacade struct {
	db        *gorm.DB
	redeemer  VoucherRedeemer
	publisher notification.Publisher
	logger    logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

type BookingFacadeOptions struct {
	DB        *gorm.DB
	Redeemer  VoucherRedeemer
	Publisher notification.Publisher
	Logger    logger.Logger
	Tracer    trace.Tracer
	Clock     func() time.Time
}

// NewBookingFacade tạo instance mới của BookingFacade
func NewBookingFacade(opts BookingFacadeOptions) *BookingFacade {
	f := &BookingFacade{
		db:        opts.DB,
		redeemer:  opts.Redeemer,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		tracer:    defaultTracer(opts.Tracer),
		now:       opts.Clock,
	}
	if f.logger == nil {
		f.logger = logger.Nop()
	}
	if f.publisher == nil {
		f.publisher = notification.Multi{}
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// CreateBooking tạo booking mới
func (f *BookingFacade) CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (booking *models.Booking, err error) {
	ctx, span := f.tracer.Start(ctx, "BookingFacade.CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("booking.user_id", int64(req.UserID)),
		attribute.Int64("booking.tour_id", int64(req.TourID)),
	)
	defer func() { recordSpanError(span, err) }()

	if req.Status != "" {
		if err := validator.ValidateBookingStatus(req.Status); err != nil {
			return nil, err
		}
	}
	code := strings.TrimSpace(req.VoucherCode)
	if code != "" && req.VoucherID != nil {
		return nil, errors.Validation("Chỉ truyền voucherId hoặc voucherCode")
	}

	builder := builders.NewBookingBuilder().
		WithUser(req.UserID).
		WithTour(req.TourID, req.NumberOfPeople).
		WithStatus(req.Status).
		WithNotes(req.Notes).
		WithTotalAmount(req.TotalAmount).
		WithVoucher(req.VoucherID, req.DiscountAmount).
		BookedAt(f.now())
	for _, o := range req.BookingOptions {
		builder.WithOption(o.OptionID, o.Quantity, o.UnitPrice, o.TotalPrice)
	}
	booking = builder.Build()
	if err := validator.ValidateBooking(booking); err != nil {
		return nil, err
	}

	db := f.db.WithContext(ctx)
	tour, err := f.checkReferences(db, booking)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if code != "" {
			if f.redeemer == nil {
				return errors.Internal("Chưa cấu hình dịch vụ voucher", nil)
			}
			quote, err := f.redeemer.Redeem(ctx, tx, code, booking.TotalAmount)
			if err != nil {
				return err
			}
			discount := quote.DiscountAmount
			booking.VoucherID = &quote.Voucher.ID
			booking.DiscountAmount = &discount
		}
		return commands.NewCreateBookingCommand(booking, tx).Execute()
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	metrics.BookingsCreated.Inc()
	f.logger.Info("Tạo booking #%d cho tour %d (user %d)", booking.ID, booking.TourID, booking.UserID)
	f.publish(ctx, notification.NewMessageBuilder(notification.EventBookingCreated, booking.ID).
		BookingCreated(tour.TourName, booking.NumberOfPeople, booking.TotalAmount).
		WithPayload(dto.NewBookingResponse(*booking)).
		At(f.now()).
		Build())
	return booking, nil
}

// ChangeStatus chuyển trạng thái qua state machine. Câu UPDATE kèm điều kiện trạng thái cũ
// nên hai yêu cầu đồng thời không thể cùng thắng.
func (f *BookingFacade) ChangeStatus(ctx context.Context, id uint, target string) (*models.Booking, error) {
	if err := validator.ValidateBookingStatus(target); err != nil {
		return nil, err
	}
	db := f.db.WithContext(ctx)
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy booking")
	}
	from := booking.Status
	if err := booking.TransitionTo(target); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition, err.Error(), nil)
	}
	if from == booking.Status {
		return &booking, nil
	}

	res := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": booking.Status, "updated_at": f.now()})
	if res.Error != nil {
		return nil, dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidTransition, "Booking đã được cập nhật bởi yêu cầu khác", nil)
	}

	f.logger.Info("Booking #%d: %s -> %s", id, from, booking.Status)
	f.publish(ctx, notification.NewMessageBuilder(notification.EventBookingStatusChanged, id).
		StatusChanged(from, booking.Status).
		At(f.now()).
		Build())
	return &booking, nil
}

// checkReferences tour, user và voucher (nếu có) phải tồn tại
func (f *BookingFacade) checkReferences(db *gorm.DB, b *models.Booking) (*models.Tour, error) {
	var tour models.Tour
	if err := db.Where("id = ? AND is_delete = ?", b.TourID, false).First(&tour).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy tour")
	}
	var count int64
	if err := db.Model(&models.User{}).Where("id = ? AND is_delete = ?", b.UserID, false).Count(&count).Error; err != nil {
		return nil, dbError(err, "")
	}
	if count == 0 {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy người dùng", nil)
	}
	if b.VoucherID != nil {
		if err := checkVoucherExists(db, *b.VoucherID); err != nil {
			return nil, err
		}
	}
	if len(b.BookingOptions) > 0 {
		ids := make([]uint, 0, len(b.BookingOptions))
		seen := make(map[uint]bool)
		for _, o := range b.BookingOptions {
			if !seen[o.OptionID] {
				seen[o.OptionID] = true
				ids = append(ids, o.OptionID)
			}
		}
		if err := db.Model(&models.TourOption{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return nil, dbError(err, "")
		}
		if int(count) != len(ids) {
			return nil, errors.NotFound("Tùy chọn không tồn tại")
		}
	}
	return &tour, nil
}

func checkVoucherExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Voucher{}).Where("id = ? AND status <> ?", id, models.VoucherStatusDeleted).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count == 0 {
		return errors.ErrVoucherNotFound
	}
	return nil
}

func (f *BookingFacade) publish(ctx context.Context, event notification.Event) {
	if err := f.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		f.logger.Error("Không gửi được thông báo %s: %v", event.Type, err)
	}
}

func bookingNotFound(id uint) error {
	return errors.NotFound(fmt.Sprintf("Không tìm thấy booking #%d", id))
}
