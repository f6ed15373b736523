package builders

import (
	"testing"
	"time"

	"bookingtour/constants"

	"github.com/shopspring/decimal"
)

func TestBookingBuilderDefaults(t *testing.T) {
	b := NewBookingBuilder().WithUser(3).WithTour(9, 2).WithStatus("").Build()
	if b.Status != constants.BookingStatusPending || b.PaymentStatus != constants.BookingPaymentPending {
		t.Errorf("status = %s/%s, want Pending/Pending", b.Status, b.PaymentStatus)
	}
	if b.UserID != 3 || b.TourID != 9 || b.NumberOfPeople != 2 {
		t.Errorf("booking = %+v", b)
	}
	if b.BookingDate.IsZero() {
		t.Error("BookingDate should default to now")
	}
}

func TestBookingBuilderFull(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	voucherID := uint(5)
	discount := decimal.NewFromInt(100000)
	qty := 2

	b := NewBookingBuilder().
		WithUser(1).
		WithTour(2, 4).
		WithStatus(constants.BookingStatusConfirmed).
		WithNotes("ăn chay").
		WithTotalAmount(decimal.NewFromInt(900000)).
		WithVoucher(&voucherID, &discount).
		WithOption(7, &qty, decimal.NewFromInt(50000), decimal.NewFromInt(100000)).
		BookedAt(at).
		Build()

	if b.Status != constants.BookingStatusConfirmed || b.Notes != "ăn chay" {
		t.Errorf("booking = %+v", b)
	}
	if !b.BookingDate.Equal(at) {
		t.Errorf("BookingDate = %v, want %v", b.BookingDate, at)
	}
	if b.VoucherID == nil || *b.VoucherID != 5 || !b.DiscountAmount.Equal(discount) {
		t.Errorf("voucher = %v / %v", b.VoucherID, b.DiscountAmount)
	}
	if !b.TotalAmount.Equal(decimal.NewFromInt(900000)) {
		t.Errorf("TotalAmount = %s", b.TotalAmount)
	}
	if len(b.BookingOptions) != 1 || b.BookingOptions[0].OptionID != 7 || *b.BookingOptions[0].Quantity != 2 {
		t.Errorf("options = %+v", b.BookingOptions)
	}
}
