package dto

import (
	"time"

	"bookingtour/models"

	"github.com/shopspring/decimal"
)

func init() {
	// số tiền trả về dạng number thay vì string
	decimal.MarshalJSONWithoutQuotes = true
}

// VoucherRequest là DTO cho yêu cầu tạo / cập nhật voucher
type VoucherRequest struct {
	VoucherID         uint             `json:"voucherId"`
	VoucherCode       string           `json:"voucherCode" binding:"required,vouchercode"`
	VoucherName       string           `json:"voucherName" binding:"required,max=100"`
	Description       string           `json:"description" binding:"max=300"`
	DiscountType      string           `json:"discountType" binding:"required"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MinOrderAmount    *decimal.Decimal `json:"minOrderAmount"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount"`
	UsageLimit        *int             `json:"usageLimit"`
	ValidFrom         time.Time        `json:"validFrom"`
	ValidTo           time.Time        `json:"validTo"`
	Status            string           `json:"status"`
}

// ToModel chuyển request thành model
func (r VoucherRequest) ToModel() *models.Voucher {
	return &models.Voucher{
		ID:                r.VoucherID,
		VoucherCode:       r.VoucherCode,
		VoucherName:       r.VoucherName,
		Description:       r.Description,
		DiscountType:      models.DiscountType(r.DiscountType).Normalize(),
		DiscountValue:     r.DiscountValue,
		MinOrderAmount:    r.MinOrderAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		UsageLimit:        r.UsageLimit,
		ValidFrom:         r.ValidFrom,
		ValidTo:           r.ValidTo,
		Status:            models.VoucherStatus(r.Status),
	}
}

// ApplyVoucherRequest là DTO cho yêu cầu áp dụng voucher
type ApplyVoucherRequest struct {
	VoucherCode string          `json:"voucherCode" binding:"required"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// ApplyVoucherResponse kết quả áp dụng voucher
type ApplyVoucherResponse struct {
	VoucherID      uint            `json:"voucherId"`
	VoucherCode    string          `json:"voucherCode"`
	VoucherName    string          `json:"voucherName"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	Message        string          `json:"message"`
}
