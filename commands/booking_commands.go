package commands

import (
	"bookingtour/models"

	"gorm.io/gorm"
)

// BookingCommand định nghĩa interface cho các command
type BookingCommand interface {
	Execute() error
}

// CreateBookingCommand tạo booking cùng các tùy chọn
type CreateBookingCommand struct {
	booking *models.Booking
	db      *gorm.DB
}

func NewCreateBookingCommand(booking *models.Booking, db *gorm.DB) *CreateBookingCommand {
	return &CreateBookingCommand{
		booking: booking,
		db:      db,
	}
}

func (c *CreateBookingCommand) Execute() error {
	return c.db.Omit("User", "Tour", "Voucher", "Payments").Create(c.booking).Error
}

// UpdateBookingCommand cập nhật các cột được chỉ định của booking
type UpdateBookingCommand struct {
	bookingID uint
	updates   map[string]interface{}
	db        *gorm.DB
}

func NewUpdateBookingCommand(bookingID uint, updates map[string]interface{}, db *gorm.DB) *UpdateBookingCommand {
	return &UpdateBookingCommand{
		bookingID: bookingID,
		updates:   updates,
		db:        db,
	}
}

func (c *UpdateBookingCommand) Execute() error {
	if len(c.updates) == 0 {
		return nil
	}
	return c.db.Model(&models.Booking{}).Where("id = ?", c.bookingID).Updates(c.updates).Error
}

// DeleteBookingCommand xóa booking cùng tùy chọn và thanh toán
type DeleteBookingCommand struct {
	bookingID uint
	db        *gorm.DB
}

func NewDeleteBookingCommand(bookingID uint, db *gorm.DB) *DeleteBookingCommand {
	return &DeleteBookingCommand{
		bookingID: bookingID,
		db:        db,
	}
}

func (c *DeleteBookingCommand) Execute() error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", c.bookingID).Delete(&models.BookingOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", c.bookingID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Booking{}, c.bookingID).Error
	})
}
