package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID             uint             `json:"bookingId" gorm:"primaryKey"`
	UserID         uint             `json:"userId" gorm:"index;not null"`
	User           *User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TourID         uint             `json:"tourId" gorm:"index;not null"`
	Tour           *Tour            `json:"tour,omitempty" gorm:"foreignKey:TourID"`
	BookingDate    time.Time        `json:"bookingDate"`
	NumberOfPeople int              `json:"numberOfPeople" gorm:"not null"`
	TotalAmount    decimal.Decimal  `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	Status         string           `json:"status" gorm:"size:20;default:'Pending';index"`
	PaymentStatus  string           `json:"paymentStatus" gorm:"size:20;default:'Pending'"`
	Notes          string           `json:"notes"`
	VoucherID      *uint            `json:"voucherId" gorm:"index"`
	Voucher        *Voucher         `json:"voucher,omitempty" gorm:"foreignKey:VoucherID"`
	DiscountAmount *decimal.Decimal `json:"discountAmount" gorm:"type:decimal(12,2)"`
	CreatedDate    time.Time        `json:"createdDate" gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`
	BookingOptions []BookingOption  `json:"bookingOptions,omitempty" gorm:"foreignKey:BookingID"`
	Payments       []Payment        `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
}

type BookingOption struct {
	ID         uint            `json:"bookingOptionId" gorm:"primaryKey"`
	BookingID  uint            `json:"bookingId" gorm:"index;not null"`
	OptionID   uint            `json:"optionId" gorm:"not null"`
	Option     *TourOption     `json:"option,omitempty" gorm:"foreignKey:OptionID"`
	Quantity   *int            `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
}
