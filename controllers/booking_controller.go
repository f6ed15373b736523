package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	service services.BookingServiceInterface
}

func NewBookingController(service services.BookingServiceInterface) *BookingController {
	return &BookingController{service: service}
}

func (bc *BookingController) GetBookings(c *gin.Context) {
	var q dto.BookingQuery
	if !bindQuery(c, &q) {
		return
	}
	bookings, total, err := bc.service.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	page := services.Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
	response.SuccessWithPagination(c, dto.NewBookingResponses(bookings), page.Page, page.PageSize, int(total))
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewBookingResponse(*booking))
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, dto.NewBookingResponse(*booking))
}

func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewBookingResponse(*booking))
}

func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bc.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Xóa booking thành công", nil)
}

func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewBookingResponse(*booking))
}

func (bc *BookingController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.service.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewBookingResponse(*booking))
}

func (bc *BookingController) GetBookingOptions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	options, err := bc.service.Options(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]dto.BookingOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, dto.NewBookingOptionResponse(o))
	}
	response.Success(c, out)
}

func (bc *BookingController) GetBookingPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payments, err := bc.service.Payments(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponses(payments))
}

func (bc *BookingController) GetBookingStatistics(c *gin.Context) {
	stats, err := bc.service.Statistics(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, stats)
}
