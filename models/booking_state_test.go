package models

import (
	"testing"

	"bookingtour/constants"
)

func TestBookingTransitionTo(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		wantErr bool
	}{
		{constants.BookingStatusPending, constants.BookingStatusConfirmed, false},
		{constants.BookingStatusPending, constants.BookingStatusCancelled, false},
		{constants.BookingStatusPending, constants.BookingStatusCompleted, true},
		{constants.BookingStatusConfirmed, constants.BookingStatusCompleted, false},
		{constants.BookingStatusConfirmed, constants.BookingStatusCancelled, false},
		{constants.BookingStatusConfirmed, constants.BookingStatusPending, true},
		{constants.BookingStatusCompleted, constants.BookingStatusCancelled, true},
		{constants.BookingStatusCompleted, constants.BookingStatusConfirmed, true},
		{constants.BookingStatusCancelled, constants.BookingStatusConfirmed, true},
		{constants.BookingStatusCancelled, constants.BookingStatusCompleted, true},
		{constants.BookingStatusConfirmed, constants.BookingStatusConfirmed, false},
		{constants.BookingStatusPending, "Archived", true},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			err := b.TransitionTo(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TransitionTo err = %v, wantErr %v", err, tt.wantErr)
			}
			want := tt.to
			if tt.wantErr {
				want = tt.from
			}
			if b.Status != want {
				t.Errorf("status = %s, want %s", b.Status, want)
			}
		})
	}
}

func TestBookingDeletable(t *testing.T) {
	tests := []struct {
		status, payment string
		want            bool
	}{
		{constants.BookingStatusPending, constants.BookingPaymentPending, true},
		{constants.BookingStatusCancelled, constants.BookingPaymentRefunded, true},
		{constants.BookingStatusCompleted, constants.BookingPaymentPending, false},
		{constants.BookingStatusConfirmed, constants.BookingPaymentPaid, false},
	}
	for _, tt := range tests {
		b := &Booking{Status: tt.status, PaymentStatus: tt.payment}
		if got := b.Deletable(); got != tt.want {
			t.Errorf("Deletable(%s, %s) = %v, want %v", tt.status, tt.payment, got, tt.want)
		}
	}
}

func TestVoucherStatusTransition(t *testing.T) {
	if err := VoucherStatusActive.CanTransitionTo(VoucherStatusInactive); err != nil {
		t.Errorf("Active -> Inactive: %v", err)
	}
	if err := VoucherStatusInactive.CanTransitionTo(VoucherStatusDeleted); err != nil {
		t.Errorf("Inactive -> Deleted: %v", err)
	}
	if err := VoucherStatusDeleted.CanTransitionTo(VoucherStatusActive); err == nil {
		t.Error("Deleted must be terminal")
	}
	if err := VoucherStatusActive.CanTransitionTo("Paused"); err == nil {
		t.Error("unknown status accepted")
	}
}
