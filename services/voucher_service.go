package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookingtour/constants"
	"bookingtour/errors"
	"bookingtour/metrics"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/services/notification"
	"bookingtour/validator"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type VoucherServiceInterface interface {
	List(ctx context.Context) ([]models.Voucher, error)
	Get(ctx context.Context, id uint) (*models.Voucher, error)
	GetByCode(ctx context.Context, code string) (*models.Voucher, error)
	ListActive(ctx context.Context) ([]models.Voucher, error)
	Create(ctx context.Context, v *models.Voucher) error
	Update(ctx context.Context, id uint, input *models.Voucher) (*models.Voucher, error)
	Delete(ctx context.Context, id uint) error
	Apply(ctx context.Context, code string, orderAmount decimal.Decimal) (*VoucherQuote, error)
	Use(ctx context.Context, id uint, idempotencyKey string) (*models.Voucher, error)
}

// VoucherRedeemer tính giảm giá và tiêu thụ một lượt voucher trong transaction của caller
type VoucherRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, code string, orderAmount decimal.Decimal) (*VoucherQuote, error)
}

type VoucherService struct {
	db        *gorm.DB
	redis     *redis.Client
	logger    logger.Logger
	publisher notification.Publisher
	tracer    trace.Tracer
	now       func() time.Time
}

type VoucherServiceOptions struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Logger    logger.Logger
	Publisher notification.Publisher
	Tracer    trace.Tracer
	Clock     func() time.Time
}

func NewVoucherService(opts VoucherServiceOptions) *VoucherService {
	s := &VoucherService{
		db:        opts.DB,
		redis:     opts.Redis,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		tracer:    defaultTracer(opts.Tracer),
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

func (s *VoucherService) List(ctx context.Context) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := s.db.WithContext(ctx).
		Where("status <> ?", models.VoucherStatusDeleted).
		Order("created_date desc").
		Find(&vouchers).Error
	return vouchers, dbError(err, "Không tìm thấy voucher")
}

func (s *VoucherService) Get(ctx context.Context, id uint) (*models.Voucher, error) {
	var v models.Voucher
	err := s.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, models.VoucherStatusDeleted).
		First(&v).Error
	if err != nil {
		return nil, dbError(err, "Không tìm thấy voucher")
	}
	return &v, nil
}

// GetByCode trả về voucher đang Active, còn hạn và còn lượt
func (s *VoucherService) GetByCode(ctx context.Context, code string) (*models.Voucher, error) {
	v, err := s.findActiveByCode(s.db.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	if err := CheckVoucherAvailability(v, s.now()); err != nil {
		return nil, err
	}
	return v, nil
}

// ListActive danh sách voucher dùng được ngay, sắp theo hạn dùng gần nhất. Có cache Redis.
func (s *VoucherService) ListActive(ctx context.Context) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	if hit, err := GetFromRedis(ctx, s.redis, constants.CacheKeyActiveVouchers, &vouchers); err != nil {
		s.logger.Error("Lỗi đọc cache voucher: %v", err)
	} else if hit {
		return usableAt(vouchers, s.now()), nil
	}

	vouchers, err := s.loadActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := SetToRedis(ctx, s.redis, constants.CacheKeyActiveVouchers, vouchers, constants.ActiveVouchersTTL); err != nil {
		s.logger.Error("Lỗi ghi cache voucher: %v", err)
	}
	return vouchers, nil
}

// RefreshActiveCache nạp lại cache danh sách voucher đang hiệu lực
func (s *VoucherService) RefreshActiveCache(ctx context.Context) (int, error) {
	vouchers, err := s.loadActive(ctx)
	if err != nil {
		return 0, err
	}
	if err := SetToRedis(ctx, s.redis, constants.CacheKeyActiveVouchers, vouchers, constants.ActiveVouchersTTL); err != nil {
		return 0, err
	}
	return len(vouchers), nil
}

func (s *VoucherService) loadActive(ctx context.Context) ([]models.Voucher, error) {
	now := s.now()
	vouchers := []models.Voucher{}
	err := s.db.WithContext(ctx).
		Where("status = ? AND valid_from <= ? AND valid_to >= ?", models.VoucherStatusActive, now, now).
		Where("(usage_limit IS NULL OR used_count < usage_limit)").
		Order("valid_to asc").
		Find(&vouchers).Error
	return vouchers, dbError(err, "Không tìm thấy voucher")
}

// usableAt bỏ các voucher trong cache đã hết hạn hoặc hết lượt tại thời điểm now
func usableAt(vouchers []models.Voucher, now time.Time) []models.Voucher {
	out := make([]models.Voucher, 0, len(vouchers))
	for i := range vouchers {
		if vouchers[i].InWindow(now) && !vouchers[i].Exhausted() {
			out = append(out, vouchers[i])
		}
	}
	return out
}

func (s *VoucherService) Create(ctx context.Context, v *models.Voucher) error {
	v.ID = 0
	v.VoucherCode = strings.TrimSpace(v.VoucherCode)
	v.UsedCount = 0
	if v.Status == "" {
		v.Status = models.VoucherStatusActive
	}
	if err := validator.ValidateVoucher(v); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureCodeFree(db, v.VoucherCode, 0); err != nil {
		return err
	}
	if err := db.Create(v).Error; err != nil {
		if errors.HasCode(dbError(err, ""), errors.ErrCodeDBDuplicate) {
			return errors.ErrVoucherCodeExists
		}
		return dbError(err, "")
	}

	s.logger.Info("Tạo voucher %s (id=%d)", v.VoucherCode, v.ID)
	s.afterChange(ctx, v, "Tạo voucher "+v.VoucherCode)
	return nil
}

// Update cập nhật voucher. UsedCount không bị ghi đè từ input, voucher đã xóa coi như không tồn tại.
func (s *VoucherService) Update(ctx context.Context, id uint, input *models.Voucher) (*models.Voucher, error) {
	if input.ID != 0 && input.ID != id {
		return nil, errors.NewAppError(errors.ErrCodeIDMismatch, "ID không khớp", nil)
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = existing.Status
	}
	if err := existing.Status.CanTransitionTo(status); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}

	existing.VoucherCode = strings.TrimSpace(input.VoucherCode)
	existing.VoucherName = input.VoucherName
	existing.Description = input.Description
	existing.DiscountType = input.DiscountType
	existing.DiscountValue = input.DiscountValue
	existing.MinOrderAmount = input.MinOrderAmount
	existing.MaxDiscountAmount = input.MaxDiscountAmount
	existing.UsageLimit = input.UsageLimit
	existing.ValidFrom = input.ValidFrom
	existing.ValidTo = input.ValidTo
	existing.Status = status
	if err := validator.ValidateVoucher(existing); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureCodeFree(db, existing.VoucherCode, id); err != nil {
		return nil, err
	}

	res := db.Model(&models.Voucher{}).
		Where("id = ? AND status <> ?", id, models.VoucherStatusDeleted).
		Updates(map[string]interface{}{
			"voucher_code":        existing.VoucherCode,
			"voucher_name":        existing.VoucherName,
			"description":         existing.Description,
			"discount_type":       existing.DiscountType,
			"discount_value":      existing.DiscountValue,
			"min_order_amount":    nullableDecimal(existing.MinOrderAmount),
			"max_discount_amount": nullableDecimal(existing.MaxDiscountAmount),
			"usage_limit":         existing.UsageLimit,
			"valid_from":          existing.ValidFrom,
			"valid_to":            existing.ValidTo,
			"status":              existing.Status,
			"updated_at":          s.now(),
		})
	if res.Error != nil {
		if errors.HasCode(dbError(res.Error, ""), errors.ErrCodeDBDuplicate) {
			return nil, errors.ErrVoucherCodeExists
		}
		return nil, dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NotFound("Không tìm thấy voucher")
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, updated, "Cập nhật voucher "+updated.VoucherCode)
	return updated, nil
}

// Delete xóa mềm voucher (chuyển sang Deleted, không quay lại được)
func (s *VoucherService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND status <> ?", id, models.VoucherStatusDeleted).
		Updates(map[string]interface{}{"status": models.VoucherStatusDeleted, "updated_at": s.now()})
	if res.Error != nil {
		return dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Không tìm thấy voucher")
	}

	s.logger.Info("Xóa voucher id=%d", id)
	s.afterChange(ctx, &models.Voucher{ID: id, Status: models.VoucherStatusDeleted}, fmt.Sprintf("Xóa voucher #%d", id))
	return nil
}

// Apply tính thử giảm giá, không tiêu thụ lượt dùng
func (s *VoucherService) Apply(ctx context.Context, code string, orderAmount decimal.Decimal) (quote *VoucherQuote, err error) {
	ctx, span := s.tracer.Start(ctx, "VoucherService.Apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("voucher.code", code),
		attribute.String("order.amount", orderAmount.String()),
	)
	defer func() {
		metrics.ObserveVoucher("apply", voucherOutcome(err, metrics.VoucherApplied))
		recordSpanError(span, err)
	}()

	if err := validator.ValidateOrderAmount(orderAmount); err != nil {
		return nil, err
	}

	v, err := s.findActiveByCode(s.db.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	quote, err = QuoteVoucher(v, orderAmount, s.now())
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("voucher.discount", quote.DiscountAmount.String()))
	return quote, nil
}

// Use tiêu thụ một lượt voucher bằng một câu UPDATE có điều kiện.
// idempotencyKey khác rỗng: lần gọi lặp lại với cùng key không tiêu thụ thêm lượt.
func (s *VoucherService) Use(ctx context.Context, id uint, idempotencyKey string) (v *models.Voucher, err error) {
	ctx, span := s.tracer.Start(ctx, "VoucherService.Use")
	defer span.End()
	span.SetAttributes(attribute.Int64("voucher.id", int64(id)))
	defer func() {
		recordSpanError(span, err)
	}()

	var key string
	if idempotencyKey != "" {
		key = useKey(id, idempotencyKey)
		first, claimErr := ClaimKey(ctx, s.redis, key, constants.IdempotencyTTL)
		if claimErr != nil {
			return nil, errors.NewAppError(errors.ErrCodeUpstream, "Không kiểm tra được idempotency key", claimErr)
		}
		if !first {
			metrics.ObserveVoucher("use", metrics.VoucherReplayed)
			span.SetAttributes(attribute.Bool("voucher.replayed", true))
			return s.Get(ctx, id)
		}
	}

	db := s.db.WithContext(ctx)
	now := s.now()
	if err = s.consume(db, id, now); err != nil {
		metrics.ObserveVoucher("use", voucherOutcome(err, ""))
		// chỉ nhả key khi chưa tiêu thụ lượt nào
		if key != "" {
			if delErr := DeleteFromRedis(context.WithoutCancel(ctx), s.redis, key); delErr != nil {
				s.logger.Error("Không xóa được idempotency key %s: %v", key, delErr)
			}
		}
		return nil, err
	}
	metrics.ObserveVoucher("use", metrics.VoucherUsed)

	v, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, notification.NewMessageBuilder(notification.EventVoucherUsed, v.ID).
		VoucherUsed(v.VoucherCode, v.UsedCount, v.UsageLimit).
		WithPayload(v).
		Build())
	return v, nil
}

// Redeem kiểm tra, tính giảm giá và tiêu thụ một lượt voucher trong transaction tx
func (s *VoucherService) Redeem(ctx context.Context, tx *gorm.DB, code string, orderAmount decimal.Decimal) (quote *VoucherQuote, err error) {
	ctx, span := s.tracer.Start(ctx, "VoucherService.Redeem")
	defer span.End()
	span.SetAttributes(attribute.String("voucher.code", code))
	defer func() {
		metrics.ObserveVoucher("redeem", voucherOutcome(err, metrics.VoucherUsed))
		recordSpanError(span, err)
	}()

	if err := validator.ValidateOrderAmount(orderAmount); err != nil {
		return nil, err
	}

	tx = tx.WithContext(ctx)
	v, err := s.findActiveByCode(tx, code)
	if err != nil {
		return nil, err
	}
	now := s.now()
	quote, err = QuoteVoucher(v, orderAmount, now)
	if err != nil {
		return nil, err
	}
	if err := s.consume(tx, v.ID, now); err != nil {
		return nil, err
	}
	v.UsedCount++
	return quote, nil
}

// consume tăng used_count khi và chỉ khi voucher còn Active, còn hạn và còn lượt, trong cùng một câu lệnh
func (s *VoucherService) consume(db *gorm.DB, id uint, now time.Time) error {
	res := db.Model(&models.Voucher{}).
		Where("id = ? AND status = ?", id, models.VoucherStatusActive).
		Where("valid_from <= ? AND valid_to >= ?", now, now).
		Where("(usage_limit IS NULL OR used_count < usage_limit)").
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return dbError(res.Error, "Không tìm thấy voucher")
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return s.diagnose(db, id, now)
}

// diagnose xác định vì sao UPDATE có điều kiện không tác động dòng nào
func (s *VoucherService) diagnose(db *gorm.DB, id uint, now time.Time) error {
	var v models.Voucher
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrVoucherNotFound
		}
		return dbError(err, "")
	}
	if err := CheckVoucherAvailability(&v, now); err != nil {
		return err
	}
	// đã hết lượt giữa lúc đọc và lúc cập nhật
	return errors.ErrVoucherUsageExhausted
}

func (s *VoucherService) findActiveByCode(db *gorm.DB, code string) (*models.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.ErrVoucherNotFound
	}
	var v models.Voucher
	err := db.Where("voucher_code = ? AND status = ?", code, models.VoucherStatusActive).First(&v).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrVoucherNotFound
		}
		return nil, dbError(err, "")
	}
	return &v, nil
}

func (s *VoucherService) ensureCodeFree(db *gorm.DB, code string, exceptID uint) error {
	var count int64
	q := db.Model(&models.Voucher{}).Where("voucher_code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count > 0 {
		return errors.ErrVoucherCodeExists
	}
	return nil
}

func (s *VoucherService) afterChange(ctx context.Context, v *models.Voucher, message string) {
	s.invalidate(ctx)
	s.publish(ctx, notification.NewMessageBuilder(notification.EventVoucherChanged, v.ID).
		Text(message).
		WithPayload(v).
		Build())
}

func (s *VoucherService) invalidate(ctx context.Context) {
	if err := DeleteFromRedis(ctx, s.redis, constants.CacheKeyActiveVouchers); err != nil {
		s.logger.Error("Lỗi xóa cache voucher: %v", err)
	}
}

func (s *VoucherService) publish(ctx context.Context, event notification.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Không gửi được sự kiện %s: %v", event.Type, err)
	}
}

func useKey(id uint, idempotencyKey string) string {
	return fmt.Sprintf("%s%d:%s", constants.CacheKeyVoucherUse, id, idempotencyKey)
}

func voucherOutcome(err error, success string) string {
	if err == nil {
		return success
	}
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return "error"
	}
	switch appErr.Code {
	case errors.ErrCodeVoucherNotFound:
		return metrics.VoucherNotFound
	case errors.ErrCodeVoucherExpired:
		return metrics.VoucherExpired
	case errors.ErrCodeVoucherUsageExhausted:
		return metrics.VoucherExhausted
	case errors.ErrCodeVoucherBelowMinimum:
		return metrics.VoucherBelowMinimum
	}
	return "invalid"
}
