package dto

// PageQuery tham số phân trang trên query string
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
