package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

// StatisticsController số liệu cho trang dashboard.
// Các API theo tháng nhận year/month tùy chọn, mặc định tháng hiện tại.
type StatisticsController struct {
	service services.StatisticsServiceInterface
}

func NewStatisticsController(service services.StatisticsServiceInterface) *StatisticsController {
	return &StatisticsController{service: service}
}

func (sc *StatisticsController) MonthlyRevenue(c *gin.Context) {
	var q dto.MonthQuery
	if !bindQuery(c, &q) {
		return
	}
	out, err := sc.service.MonthlyRevenue(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

func (sc *StatisticsController) MonthlyBookingsCount(c *gin.Context) {
	var q dto.MonthQuery
	if !bindQuery(c, &q) {
		return
	}
	out, err := sc.service.MonthlyBookingsCount(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

func (sc *StatisticsController) MonthlyParticipants(c *gin.Context) {
	var q dto.MonthQuery
	if !bindQuery(c, &q) {
		return
	}
	out, err := sc.service.MonthlyParticipants(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

func (sc *StatisticsController) ActiveToursCount(c *gin.Context) {
	count, err := sc.service.ActiveToursCount(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"activeToursCount": count})
}

func (sc *StatisticsController) TopRevenueTours(c *gin.Context) {
	tours, err := sc.service.TopRevenueTours(c.Request.Context(), 5)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tours)
}

func (sc *StatisticsController) ToursRevenue(c *gin.Context) {
	tours, err := sc.service.ToursRevenue(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tours)
}

func (sc *StatisticsController) ToursBookingsCount(c *gin.Context) {
	tours, err := sc.service.ToursBookingsCount(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tours)
}

func (sc *StatisticsController) RecentBookings(c *gin.Context) {
	bookings, err := sc.service.RecentBookings(c.Request.Context(), queryInt(c, "count", 5))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewBookingResponses(bookings))
}

func (sc *StatisticsController) Overview(c *gin.Context) {
	out, err := sc.service.Overview(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}
