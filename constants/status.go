package constants

import "time"

// Booking status
const (
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCompleted = "Completed"
	BookingStatusCancelled = "Cancelled"
)

// Booking payment status
const (
	BookingPaymentPending  = "Pending"
	BookingPaymentPaid     = "Paid"
	BookingPaymentRefunded = "Refunded"
	BookingPaymentFailed   = "Failed"
)

// Payment status
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
	PaymentStatusCancelled = "Cancelled"
	PaymentStatusRefunded  = "Refunded"
)

// Tour option
const (
	PriceTypePerPerson  = "PerPerson"
	PriceTypePerBooking = "PerBooking"
	OptionStatusActive  = "Active"
)

// Roles
const (
	RoleAdmin    = "Admin"
	RoleStaff    = "Staff"
	RoleCustomer = "Customer"
)

// Pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Cache keys
const (
	CacheKeyActiveVouchers = "vouchers:active"
	CacheKeyToursPrefix    = "tours:"
	CacheKeyVoucherUse     = "voucher:use:"
	CacheKeyLastFilters    = "last_filters:"
)

// Cache TTL
const (
	ActiveVouchersTTL = 5 * time.Minute
	ToursTTL          = 10 * time.Minute
	IdempotencyTTL    = 24 * time.Hour
	LastFiltersTTL    = 30 * time.Minute
)

var BookingPaymentStatuses = []string{BookingPaymentPending, BookingPaymentPaid, BookingPaymentRefunded, BookingPaymentFailed}

var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded}

var BookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled}
