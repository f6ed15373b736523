package dto

import (
	"time"

	"bookingtour/models"

	"github.com/shopspring/decimal"
)

// BookingQuery bộ lọc danh sách booking
type BookingQuery struct {
	UserID   *uint  `form:"userId"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

type CreateBookingOptionRequest struct {
	OptionID   uint            `json:"optionId" binding:"required"`
	Quantity   *int            `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CreateBookingRequest là DTO cho yêu cầu tạo booking.
// VoucherCode: voucher được kiểm tra và trừ lượt ngay trong transaction tạo booking.
type CreateBookingRequest struct {
	UserID         uint                         `json:"userId" binding:"required"`
	TourID         uint                         `json:"tourId" binding:"required"`
	NumberOfPeople int                          `json:"numberOfPeople" binding:"required,min=1"`
	TotalAmount    decimal.Decimal              `json:"totalAmount"`
	Status         string                       `json:"status"`
	Notes          string                       `json:"notes"`
	VoucherID      *uint                        `json:"voucherId"`
	VoucherCode    string                       `json:"voucherCode"`
	DiscountAmount *decimal.Decimal             `json:"discountAmount"`
	BookingOptions []CreateBookingOptionRequest `json:"bookingOptions" binding:"dive"`
}

// UpdateBookingRequest chỉ cập nhật các trường được gửi lên
type UpdateBookingRequest struct {
	NumberOfPeople *int             `json:"numberOfPeople" binding:"omitempty,min=1"`
	TotalAmount    *decimal.Decimal `json:"totalAmount"`
	Status         *string          `json:"status"`
	PaymentStatus  *string          `json:"paymentStatus"`
	Notes          *string          `json:"notes"`
	VoucherID      *uint            `json:"voucherId"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type BookingOptionResponse struct {
	BookingOptionID uint            `json:"bookingOptionId"`
	BookingID       uint            `json:"bookingId"`
	OptionID        uint            `json:"optionId"`
	OptionName      string          `json:"optionName,omitempty"`
	Quantity        *int            `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type BookingResponse struct {
	BookingID      uint                    `json:"bookingId"`
	UserID         uint                    `json:"userId"`
	UserName       string                  `json:"userName,omitempty"`
	TourID         uint                    `json:"tourId"`
	TourName       string                  `json:"tourName,omitempty"`
	BookingDate    time.Time               `json:"bookingDate"`
	NumberOfPeople int                     `json:"numberOfPeople"`
	TotalAmount    decimal.Decimal         `json:"totalAmount"`
	Status         string                  `json:"status"`
	PaymentStatus  string                  `json:"paymentStatus"`
	Notes          string                  `json:"notes"`
	VoucherID      *uint                   `json:"voucherId"`
	VoucherCode    string                  `json:"voucherCode,omitempty"`
	DiscountAmount *decimal.Decimal        `json:"discountAmount"`
	CreatedDate    time.Time               `json:"createdDate"`
	BookingOptions []BookingOptionResponse `json:"bookingOptions"`
	Payments       []PaymentResponse       `json:"payments"`
}

// BookingStatisticsResponse thống kê booking theo trạng thái
type BookingStatisticsResponse struct {
	TotalBookings     int64           `json:"totalBookings"`
	PendingBookings   int64           `json:"pendingBookings"`
	ConfirmedBookings int64           `json:"confirmedBookings"`
	CompletedBookings int64           `json:"completedBookings"`
	CancelledBookings int64           `json:"cancelledBookings"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
}

func NewBookingOptionResponse(o models.BookingOption) BookingOptionResponse {
	resp := BookingOptionResponse{
		BookingOptionID: o.ID,
		BookingID:       o.BookingID,
		OptionID:        o.OptionID,
		Quantity:        o.Quantity,
		UnitPrice:       o.UnitPrice,
		TotalPrice:      o.TotalPrice,
	}
	if o.Option != nil {
		resp.OptionName = o.Option.OptionName
	}
	return resp
}

func NewBookingResponse(b models.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:      b.ID,
		UserID:         b.UserID,
		TourID:         b.TourID,
		BookingDate:    b.BookingDate,
		NumberOfPeople: b.NumberOfPeople,
		TotalAmount:    b.TotalAmount,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		Notes:          b.Notes,
		VoucherID:      b.VoucherID,
		DiscountAmount: b.DiscountAmount,
		CreatedDate:    b.CreatedDate,
		BookingOptions: make([]BookingOptionResponse, 0, len(b.BookingOptions)),
		Payments:       make([]PaymentResponse, 0, len(b.Payments)),
	}
	if b.User != nil {
		resp.UserName = b.User.Username
	}
	if b.Tour != nil {
		resp.TourName = b.Tour.TourName
	}
	if b.Voucher != nil {
		resp.VoucherCode = b.Voucher.VoucherCode
	}
	for _, o := range b.BookingOptions {
		resp.BookingOptions = append(resp.BookingOptions, NewBookingOptionResponse(o))
	}
	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, NewPaymentResponse(p))
	}
	return resp
}

func NewBookingResponses(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
