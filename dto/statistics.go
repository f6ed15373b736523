package dto

import (
	"github.com/shopspring/decimal"
)

// MonthlyRevenueResponse doanh thu tháng hiện tại
type MonthlyRevenueResponse struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyCountResponse số lượng trong tháng hiện tại
type MonthlyCountResponse struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type TourRevenue struct {
	TourID            uint            `json:"tourId"`
	TourName          string          `json:"tourName"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	BookingsCount     int64           `json:"bookingsCount"`
	TotalParticipants int64           `json:"totalParticipants,omitempty"`
}

// MonthQuery tháng cần thống kê, mặc định tháng hiện tại
type MonthQuery struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

type TourBookingsCount struct {
	TourID            uint   `json:"tourId"`
	TourName          string `json:"tourName"`
	BookingsCount     int64  `json:"bookingsCount"`
	ConfirmedBookings int64  `json:"confirmedBookings"`
	PendingBookings   int64  `json:"pendingBookings"`
	CancelledBookings int64  `json:"cancelledBookings"`
}

type OverviewStatistics struct {
	MonthlyRevenue       decimal.Decimal `json:"monthlyRevenue"`
	MonthlyBookingsCount int64           `json:"monthlyBookingsCount"`
	MonthlyParticipants  int64           `json:"monthlyParticipants"`
	ActiveToursCount     int64           `json:"activeToursCount"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	TotalBookings        int64           `json:"totalBookings"`
	Month                int             `json:"month"`
	Year                 int             `json:"year"`
}
