package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType loại giảm giá của voucher
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Normalize đưa về chữ thường, "Percentage" và "FIXED" vẫn hợp lệ
func (t DiscountType) Normalize() DiscountType {
	return DiscountType(strings.ToLower(strings.TrimSpace(string(t))))
}

// Valid kiểm tra loại giảm giá hợp lệ
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// VoucherStatus trạng thái voucher. Deleted là trạng thái cuối, không thể quay lại.
type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "Active"
	VoucherStatusInactive VoucherStatus = "Inactive"
	VoucherStatusDeleted  VoucherStatus = "Deleted"
)

// IsTerminal voucher đã bị xóa mềm
func (s VoucherStatus) IsTerminal() bool {
	return s == VoucherStatusDeleted
}

// CanTransitionTo kiểm tra chuyển trạng thái
func (s VoucherStatus) CanTransitionTo(next VoucherStatus) error {
	if s.IsTerminal() {
		return fmt.Errorf("voucher đã bị xóa, không thể chuyển sang %s", next)
	}
	switch next {
	case VoucherStatusActive, VoucherStatusInactive, VoucherStatusDeleted:
		return nil
	}
	return fmt.Errorf("trạng thái voucher không hợp lệ: %s", next)
}

type Voucher struct {
	ID                uint             `json:"voucherId" gorm:"primaryKey"`
	VoucherCode       string           `json:"voucherCode" gorm:"size:20;uniqueIndex;not null"`
	VoucherName       string           `json:"voucherName" gorm:"size:100;not null"`
	Description       string           `json:"description" gorm:"size:300"`
	DiscountType      DiscountType     `json:"discountType" gorm:"size:20;not null"`
	DiscountValue     decimal.Decimal  `json:"discountValue" gorm:"type:decimal(12,2);not null"`
	MinOrderAmount    *decimal.Decimal `json:"minOrderAmount" gorm:"type:decimal(12,2)"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount" gorm:"type:decimal(12,2)"`
	UsageLimit        *int             `json:"usageLimit"`
	UsedCount         int              `json:"usedCount" gorm:"not null;default:0"`
	ValidFrom         time.Time        `json:"validFrom" gorm:"not null"`
	ValidTo           time.Time        `json:"validTo" gorm:"not null;index"`
	Status            VoucherStatus    `json:"status" gorm:"size:20;not null;default:'Active';index"`
	CreatedDate       time.Time        `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt         time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`
}

// InWindow thời điểm now nằm trong [ValidFrom, ValidTo]
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.ValidFrom) && !now.After(v.ValidTo)
}

// Exhausted voucher đã dùng hết lượt
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit
}
