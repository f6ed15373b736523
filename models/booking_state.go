package models

import (
	"errors"

	"bookingtour/constants"
)

// BookingState định nghĩa interface cho các trạng thái booking
type BookingState interface {
	Confirm(booking *Booking) error
	Cancel(booking *Booking) error
	Complete(booking *Booking) error
}

// PendingState trạng thái chờ xác nhận
type PendingState struct{}

func (s *PendingState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *PendingState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

func (s *PendingState) Complete(booking *Booking) error {
	return errors.New("không thể hoàn thành booking chưa được xác nhận")
}

// ConfirmedState trạng thái đã xác nhận
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(booking *Booking) error {
	return errors.New("booking đã được xác nhận")
}

func (s *ConfirmedState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

func (s *ConfirmedState) Complete(booking *Booking) error {
	booking.Status = constants.BookingStatusCompleted
	return nil
}

// CompletedState trạng thái hoàn thành
type CompletedState struct{}

func (s *CompletedState) Confirm(booking *Booking) error {
	return errors.New("booking đã hoàn thành")
}

func (s *CompletedState) Cancel(booking *Booking) error {
	return errors.New("không thể hủy booking đã hoàn thành")
}

func (s *CompletedState) Complete(booking *Booking) error {
	return errors.New("booking đã hoàn thành")
}

// CancelledState trạng thái đã hủy
type CancelledState struct{}

func (s *CancelledState) Confirm(booking *Booking) error {
	return errors.New("không thể xác nhận booking đã hủy")
}

func (s *CancelledState) Cancel(booking *Booking) error {
	return errors.New("booking đã bị hủy")
}

func (s *CancelledState) Complete(booking *Booking) error {
	return errors.New("không thể hoàn thành booking đã hủy")
}

// GetBookingState trả về state tương ứng với trạng thái booking
func GetBookingState(status string) BookingState {
	switch status {
	case constants.BookingStatusConfirmed:
		return &ConfirmedState{}
	case constants.BookingStatusCompleted:
		return &CompletedState{}
	case constants.BookingStatusCancelled:
		return &CancelledState{}
	default:
		return &PendingState{}
	}
}

// TransitionTo chuyển booking sang trạng thái target thông qua state hiện tại.
// Chuyển sang chính trạng thái hiện tại không làm gì.
func (b *Booking) TransitionTo(target string) error {
	if b.Status == target {
		return nil
	}
	state := GetBookingState(b.Status)
	switch target {
	case constants.BookingStatusConfirmed:
		return state.Confirm(b)
	case constants.BookingStatusCancelled:
		return state.Cancel(b)
	case constants.BookingStatusCompleted:
		return state.Complete(b)
	case constants.BookingStatusPending:
		return errors.New("không thể chuyển booking về trạng thái chờ xác nhận")
	}
	return errors.New("trạng thái booking không hợp lệ: " + target)
}

// Deletable booking chưa hoàn thành và chưa thanh toán
func (b *Booking) Deletable() bool {
	return b.Status != constants.BookingStatusCompleted && b.PaymentStatus != constants.BookingPaymentPaid
}
