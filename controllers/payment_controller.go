package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	service services.PaymentServiceInterface
}

func NewPaymentController(service services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{service: service}
}

func (pc *PaymentController) GetPayments(c *gin.Context) {
	payments, err := pc.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponses(payments))
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := pc.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponse(*p))
}

func (pc *PaymentController) GetPaymentsByBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId")
	if !ok {
		return
	}
	payments, err := pc.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponses(payments))
}

func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	p := req.ToModel()
	if err := pc.service.Create(c.Request.Context(), p); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, dto.NewPaymentResponse(*p))
}

func (pc *PaymentController) UpdatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := pc.service.Update(c.Request.Context(), id, req.ToModel())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponse(*p))
}

func (pc *PaymentController) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := pc.service.UpdateStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponse(*p))
}

func (pc *PaymentController) DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Xóa payment thành công", nil)
}

func (pc *PaymentController) GetPaymentStatistics(c *gin.Context) {
	stats, err := pc.service.Statistics(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, stats)
}

func (pc *PaymentController) GetPaymentsByMethod(c *gin.Context) {
	groups, err := pc.service.ByMethod(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, groups)
}

func (pc *PaymentController) GetRecentPayments(c *gin.Context) {
	payments, err := pc.service.Recent(c.Request.Context(), queryInt(c, "count", 10))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewPaymentResponses(payments))
}
