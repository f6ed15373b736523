package services

import (
	"testing"
	"time"

	"bookingtour/errors"
	"bookingtour/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int {
	return &n
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func activeVoucher() *models.Voucher {
	return &models.Voucher{
		ID:            1,
		VoucherCode:   "SUMMER",
		VoucherName:   "Khuyến mãi hè",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: dec("20"),
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidTo:       testNow.AddDate(0, 1, 0),
		Status:        models.VoucherStatusActive,
	}
}

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(v *models.Voucher)
		amount       string
		wantDiscount string
		wantFinal    string
	}{
		{
			name: "percentage capped by max discount",
			modify: func(v *models.Voucher) {
				v.MaxDiscountAmount = decPtr("100000")
			},
			amount:       "1000000",
			wantDiscount: "100000",
			wantFinal:    "900000",
		},
		{
			name:         "percentage without cap",
			amount:       "1000000",
			wantDiscount: "200000",
			wantFinal:    "800000",
		},
		{
			name: "percentage below cap",
			modify: func(v *models.Voucher) {
				v.MaxDiscountAmount = decPtr("500000")
			},
			amount:       "1000000",
			wantDiscount: "200000",
			wantFinal:    "800000",
		},
		{
			name: "fixed larger than order is clamped",
			modify: func(v *models.Voucher) {
				v.DiscountType = models.DiscountTypeFixed
				v.DiscountValue = dec("50000")
			},
			amount:       "30000",
			wantDiscount: "30000",
			wantFinal:    "0",
		},
		{
			name: "fixed smaller than order",
			modify: func(v *models.Voucher) {
				v.DiscountType = models.DiscountTypeFixed
				v.DiscountValue = dec("50000")
			},
			amount:       "200000",
			wantDiscount: "50000",
			wantFinal:    "150000",
		},
		{
			name: "fixed stored with upper case type",
			modify: func(v *models.Voucher) {
				v.DiscountType = "FIXED"
				v.DiscountValue = dec("50000")
			},
			amount:       "200000",
			wantDiscount: "50000",
			wantFinal:    "150000",
		},
		{
			name: "percentage rounded to two decimals",
			modify: func(v *models.Voucher) {
				v.DiscountValue = dec("33")
			},
			amount:       "10.01",
			wantDiscount: "3.3",
			wantFinal:    "6.71",
		},
		{
			name: "one hundred percent",
			modify: func(v *models.Voucher) {
				v.DiscountValue = dec("100")
			},
			amount:       "250000",
			wantDiscount: "250000",
			wantFinal:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := activeVoucher()
			if tt.modify != nil {
				tt.modify(v)
			}
			discount, final := CalculateDiscount(v, dec(tt.amount))
			if !discount.Equal(dec(tt.wantDiscount)) {
				t.Errorf("discount = %s, want %s", discount, tt.wantDiscount)
			}
			if !final.Equal(dec(tt.wantFinal)) {
				t.Errorf("final = %s, want %s", final, tt.wantFinal)
			}
			if !discount.Add(final).Equal(dec(tt.amount)) {
				t.Errorf("discount + final = %s, want %s", discount.Add(final), tt.amount)
			}
		})
	}
}

func TestQuoteVoucherRejections(t *testing.T) {
	tests := []struct {
		name     string
		voucher  func() *models.Voucher
		amount   string
		wantCode errors.ErrorCode
	}{
		{
			name:     "nil voucher",
			voucher:  func() *models.Voucher { return nil },
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherNotFound,
		},
		{
			name: "inactive voucher",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.Status = models.VoucherStatusInactive
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherNotFound,
		},
		{
			name: "deleted voucher",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.Status = models.VoucherStatusDeleted
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherNotFound,
		},
		{
			name: "expired",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.ValidTo = testNow.Add(-time.Second)
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name: "not yet valid",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.ValidFrom = testNow.Add(time.Hour)
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name: "usage exhausted",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.UsageLimit = intPtr(10)
				v.UsedCount = 10
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherUsageExhausted,
		},
		{
			name: "below minimum order",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.MinOrderAmount = decPtr("500000")
				return v
			},
			amount:   "499999",
			wantCode: errors.ErrCodeVoucherBelowMinimum,
		},
		{
			name: "expired wins over exhausted",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.ValidTo = testNow.Add(-time.Hour)
				v.UsageLimit = intPtr(1)
				v.UsedCount = 1
				return v
			},
			amount:   "100000",
			wantCode: errors.ErrCodeVoucherExpired,
		},
		{
			name: "exhausted wins over below minimum",
			voucher: func() *models.Voucher {
				v := activeVoucher()
				v.UsageLimit = intPtr(1)
				v.UsedCount = 1
				v.MinOrderAmount = decPtr("500000")
				return v
			},
			amount:   "100",
			wantCode: errors.ErrCodeVoucherUsageExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := QuoteVoucher(tt.voucher(), dec(tt.amount), testNow)
			if quote != nil {
				t.Fatalf("expected no quote, got %+v", quote)
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("err = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestQuoteVoucherBoundaries(t *testing.T) {
	v := activeVoucher()
	v.MinOrderAmount = decPtr("500000")
	v.UsageLimit = intPtr(5)
	v.UsedCount = 4

	// đúng bằng giá trị tối thiểu và đúng thời điểm hết hạn vẫn hợp lệ
	v.ValidTo = testNow
	quote, err := QuoteVoucher(v, dec("500000"), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.DiscountAmount.Equal(dec("100000")) || !quote.FinalAmount.Equal(dec("400000")) {
		t.Errorf("quote = %s/%s, want 100000/400000", quote.DiscountAmount, quote.FinalAmount)
	}
	if !quote.OriginalAmount.Equal(dec("500000")) {
		t.Errorf("original = %s, want 500000", quote.OriginalAmount)
	}

	v.ValidFrom = testNow
	if _, err := QuoteVoucher(v, dec("500000"), testNow); err != nil {
		t.Errorf("valid from now should pass, got %v", err)
	}
}

func TestBelowMinimumMessage(t *testing.T) {
	v := activeVoucher()
	v.MinOrderAmount = decPtr("1500000")
	err := CheckVoucherEligibility(v, dec("1000"), testNow)
	appErr := errors.GetAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %v", err)
	}
	want := "Đơn hàng phải có giá trị tối thiểu 1,500,000 VND"
	if appErr.Message != want {
		t.Errorf("message = %q, want %q", appErr.Message, want)
	}
}

func TestFormatVND(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"100000", "100,000"},
		{"1000000", "1,000,000"},
		{"1234567.89", "1,234,568"},
		{"-2500000", "-2,500,000"},
	}
	for _, tt := range tests {
		if got := FormatVND(dec(tt.in)); got != tt.want {
			t.Errorf("FormatVND(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
