package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            uint            `json:"paymentId" gorm:"primaryKey"`
	BookingID     uint            `json:"bookingId" gorm:"index;not null"`
	Booking       *Booking        `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	PaymentAmount decimal.Decimal `json:"paymentAmount" gorm:"type:decimal(12,2);not null"`
	PaymentDate   time.Time       `json:"paymentDate" gorm:"index"`
	PaymentMethod string          `json:"paymentMethod" gorm:"size:50"`
	PaymentStatus string          `json:"paymentStatus" gorm:"size:20;default:'Pending';index"`
	TransactionID string          `json:"transactionId" gorm:"size:100"`
}
