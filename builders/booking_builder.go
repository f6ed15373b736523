package builders

import (
	"time"

	"bookingtour/constants"
	"bookingtour/models"

	"github.com/shopspring/decimal"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder với trạng thái mặc định
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{
			Status:        constants.BookingStatusPending,
			PaymentStatus: constants.BookingPaymentPending,
		},
	}
}

// WithUser thêm thông tin user
func (b *BookingBuilder) WithUser(userID uint) *BookingBuilder {
	b.booking.UserID = userID
	return b
}

// WithTour thêm tour và số khách
func (b *BookingBuilder) WithTour(tourID uint, people int) *BookingBuilder {
	b.booking.TourID = tourID
	b.booking.NumberOfPeople = people
	return b
}

// WithStatus trạng thái rỗng giữ mặc định Pending
func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	if status != "" {
		b.booking.Status = status
	}
	return b
}

func (b *BookingBuilder) WithNotes(notes string) *BookingBuilder {
	b.booking.Notes = notes
	return b
}

// WithTotalAmount thêm tổng tiền
func (b *BookingBuilder) WithTotalAmount(total decimal.Decimal) *BookingBuilder {
	b.booking.TotalAmount = total
	return b
}

// WithVoucher gắn voucher và số tiền giảm đã tính
func (b *BookingBuilder) WithVoucher(voucherID *uint, discount *decimal.Decimal) *BookingBuilder {
	b.booking.VoucherID = voucherID
	b.booking.DiscountAmount = discount
	return b
}

// WithOption thêm một tùy chọn dịch vụ
func (b *BookingBuilder) WithOption(optionID uint, quantity *int, unitPrice, totalPrice decimal.Decimal) *BookingBuilder {
	b.booking.BookingOptions = append(b.booking.BookingOptions, models.BookingOption{
		OptionID:   optionID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	})
	return b
}

// BookedAt thời điểm đặt
func (b *BookingBuilder) BookedAt(t time.Time) *BookingBuilder {
	b.booking.BookingDate = t
	return b
}

// Build tạo booking hoàn chỉnh
func (b *BookingBuilder) Build() *models.Booking {
	if b.booking.BookingDate.IsZero() {
		b.booking.BookingDate = time.Now()
	}
	return b.booking
}
