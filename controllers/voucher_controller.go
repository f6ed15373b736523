package controllers

import (
	"strings"

	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader header chống trừ lượt voucher hai lần khi client gửi lại
const IdempotencyHeader = "Idempotency-Key"

type VoucherController struct {
	service services.VoucherServiceInterface
}

func NewVoucherController(service services.VoucherServiceInterface) *VoucherController {
	return &VoucherController{service: service}
}

func (vc *VoucherController) GetVouchers(c *gin.Context) {
	vouchers, err := vc.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, vouchers)
}

func (vc *VoucherController) GetVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, err := vc.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, v)
}

// GetVoucherByCode chỉ trả về voucher còn dùng được
func (vc *VoucherController) GetVoucherByCode(c *gin.Context) {
	v, err := vc.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, v)
}

func (vc *VoucherController) GetActiveVouchers(c *gin.Context) {
	vouchers, err := vc.service.ListActive(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, vouchers)
}

func (vc *VoucherController) CreateVoucher(c *gin.Context) {
	var req dto.VoucherRequest
	if !bindJSON(c, &req) {
		return
	}
	v := req.ToModel()
	if err := vc.service.Create(c.Request.Context(), v); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, v)
}

func (vc *VoucherController) UpdateVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VoucherRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := vc.service.Update(c.Request.Context(), id, req.ToModel())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Cập nhật voucher thành công", v)
}

func (vc *VoucherController) DeleteVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := vc.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Xóa voucher thành công", nil)
}

// ApplyVoucher tính thử số tiền giảm, không trừ lượt dùng
func (vc *VoucherController) ApplyVoucher(c *gin.Context) {
	var req dto.ApplyVoucherRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := vc.service.Apply(c.Request.Context(), req.VoucherCode, req.OrderAmount)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.ApplyVoucherResponse{
		VoucherID:      quote.Voucher.ID,
		VoucherCode:    quote.Voucher.VoucherCode,
		VoucherName:    quote.Voucher.VoucherName,
		OriginalAmount: quote.OriginalAmount,
		DiscountAmount: quote.DiscountAmount,
		FinalAmount:    quote.FinalAmount,
		Message:        "Áp dụng voucher thành công",
	})
}

func (vc *VoucherController) UseVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	v, err := vc.service.Use(c.Request.Context(), id, key)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Đã cập nhật lượt sử dụng voucher", v)
}
