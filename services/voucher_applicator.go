package services

import (
	"strings"
	"time"

	"bookingtour/errors"
	"bookingtour/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VoucherQuote kết quả tính giảm giá cho một đơn hàng
type VoucherQuote struct {
	Voucher        *models.Voucher
	OriginalAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// CheckVoucherAvailability kiểm tra voucher đang Active, còn trong thời hạn và còn lượt dùng.
// Thứ tự kiểm tra: NotFound -> Expired -> UsageExhausted.
func CheckVoucherAvailability(v *models.Voucher, now time.Time) error {
	if v == nil || v.Status != models.VoucherStatusActive {
		return errors.ErrVoucherNotFound
	}
	if !v.InWindow(now) {
		return errors.ErrVoucherExpired
	}
	if v.Exhausted() {
		return errors.ErrVoucherUsageExhausted
	}
	return nil
}

// CheckVoucherEligibility như CheckVoucherAvailability, thêm điều kiện giá trị đơn tối thiểu
func CheckVoucherEligibility(v *models.Voucher, orderAmount decimal.Decimal, now time.Time) error {
	if err := CheckVoucherAvailability(v, now); err != nil {
		return err
	}
	if v.MinOrderAmount != nil && orderAmount.LessThan(*v.MinOrderAmount) {
		return errors.BelowMinimum(FormatVND(*v.MinOrderAmount))
	}
	return nil
}

// CalculateDiscount tính số tiền giảm và số tiền còn lại.
// percentage: orderAmount*value/100, chặn trên bởi MaxDiscountAmount.
// fixed: value, chặn trên bởi orderAmount.
func CalculateDiscount(v *models.Voucher, orderAmount decimal.Decimal) (discount, final decimal.Decimal) {
	switch v.DiscountType.Normalize() {
	case models.DiscountTypePercentage:
		discount = orderAmount.Mul(v.DiscountValue).Div(hundred)
		if v.MaxDiscountAmount != nil && discount.GreaterThan(*v.MaxDiscountAmount) {
			discount = *v.MaxDiscountAmount
		}
	case models.DiscountTypeFixed:
		discount = v.DiscountValue
	default:
		discount = decimal.Zero
	}

	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	discount = discount.Round(2)
	return discount, orderAmount.Sub(discount)
}

// QuoteVoucher kiểm tra điều kiện rồi tính giảm giá
func QuoteVoucher(v *models.Voucher, orderAmount decimal.Decimal, now time.Time) (*VoucherQuote, error) {
	if err := CheckVoucherEligibility(v, orderAmount, now); err != nil {
		return nil, err
	}
	discount, final := CalculateDiscount(v, orderAmount)
	return &VoucherQuote{
		Voucher:        v,
		OriginalAmount: orderAmount,
		DiscountAmount: discount,
		FinalAmount:    final,
	}, nil
}

// FormatVND định dạng số tiền kiểu 1,000,000
func FormatVND(amount decimal.Decimal) string {
	s := amount.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
