package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

type TourController struct {
	service services.TourServiceInterface
}

func NewTourController(service services.TourServiceInterface) *TourController {
	return &TourController{service: service}
}

func (tc *TourController) GetTours(c *gin.Context) {
	var q dto.TourQuery
	if !bindQuery(c, &q) {
		return
	}
	tours, total, err := tc.service.List(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	page := services.Page{Page: q.Page, PageSize: q.Limit}.Normalize()
	response.SuccessWithPagination(c, tours, page.Page, page.PageSize, int(total))
}

func (tc *TourController) GetTour(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tour, err := tc.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tour)
}

// SearchTours tìm gần đúng, bộ lọc được nhớ theo X-Session-ID
func (tc *TourController) SearchTours(c *gin.Context) {
	var filters dto.TourSearchFilters
	if !bindQuery(c, &filters) {
		return
	}
	results, merged, err := tc.service.Search(c.Request.Context(), c.GetString("sessionId"), &filters)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"tours":   results,
		"filters": merged,
	})
}

func (tc *TourController) ResetSearch(c *gin.Context) {
	if err := tc.service.ResetSearch(c.Request.Context(), c.GetString("sessionId")); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Đã xóa bộ lọc tìm kiếm", nil)
}

func (tc *TourController) CreateTour(c *gin.Context) {
	var req dto.TourRequest
	if !bindJSON(c, &req) {
		return
	}
	tour, err := tc.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, tour)
}

func (tc *TourController) UpdateTour(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TourRequest
	if !bindJSON(c, &req) {
		return
	}
	tour, err := tc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tour)
}

func (tc *TourController) DeleteTour(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := tc.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Xóa tour thành công", nil)
}

// UploadTourImage nhận multipart field "file" và "caption"
func (tc *TourController) UploadTourImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Không có file")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Lỗi khi mở file")
		return
	}
	defer src.Close()

	image, err := tc.service.AddImage(c.Request.Context(), id, src, c.PostForm("caption"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, image)
}

func (tc *TourController) GetTourOptions(c *gin.Context) {
	options, err := tc.service.ListOptions(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, options)
}

func (tc *TourController) CreateTourOption(c *gin.Context) {
	var req dto.TourOptionRequest
	if !bindJSON(c, &req) {
		return
	}
	option := req.ToModel()
	if err := tc.service.CreateOption(c.Request.Context(), option); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, option)
}
