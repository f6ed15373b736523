package dto

import (
	"time"

	"bookingtour/models"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	PaymentID     uint            `json:"paymentId"`
	BookingID     uint            `json:"bookingId"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod" binding:"max=50"`
	PaymentStatus string          `json:"paymentStatus"`
	TransactionID string          `json:"transactionId" binding:"max=100"`
}

func (r PaymentRequest) ToModel() *models.Payment {
	p := &models.Payment{
		ID:            r.PaymentID,
		BookingID:     r.BookingID,
		PaymentAmount: r.PaymentAmount,
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: r.PaymentStatus,
		TransactionID: r.TransactionID,
	}
	if r.PaymentDate != nil {
		p.PaymentDate = *r.PaymentDate
	}
	return p
}

type PaymentResponse struct {
	PaymentID     uint            `json:"paymentId"`
	BookingID     uint            `json:"bookingId"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	TransactionID string          `json:"transactionId"`
}

func NewPaymentResponse(p models.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		PaymentAmount: p.PaymentAmount,
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.PaymentMethod,
		PaymentStatus: p.PaymentStatus,
		TransactionID: p.TransactionID,
	}
}

func NewPaymentResponses(payments []models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}

// PaymentGroup tổng hợp payment theo một khóa (trạng thái hoặc phương thức)
type PaymentGroup struct {
	Key         string          `json:"key"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type PaymentStatisticsResponse struct {
	TotalPayments   int64           `json:"totalPayments"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	StatusBreakdown []PaymentGroup  `json:"statusBreakdown"`
}
