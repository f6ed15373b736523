package dto

import (
	"time"

	"bookingtour/models"

	"github.com/shopspring/decimal"
)

type TourRequest struct {
	TourName         string          `json:"tourName" binding:"required,max=200"`
	Destination      string          `json:"destination" binding:"required,max=200"`
	Description      string          `json:"description"`
	Duration         int             `json:"duration" binding:"min=0"`
	Price            decimal.Decimal `json:"price"`
	MaxParticipants  int             `json:"maxParticipants" binding:"min=0"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Status           string          `json:"status" binding:"max=50"`
	Transport        string          `json:"transport" binding:"max=100"`
	Thumbnail        string          `json:"thumbnail"`
	Tags             []string        `json:"tags"`
	IsActive         *bool           `json:"isActive"`
	Conditions       []string        `json:"conditions"`
	OptionIDs        []uint          `json:"optionIds"`
	DefaultOptionIDs []uint          `json:"defaultOptionIds"`
}

func (r TourRequest) ToModel() *models.Tour {
	t := &models.Tour{
		TourName:        r.TourName,
		Destination:     r.Destination,
		Description:     r.Description,
		Duration:        r.Duration,
		Price:           r.Price,
		MaxParticipants: r.MaxParticipants,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Status:          r.Status,
		Transport:       r.Transport,
		Thumbnail:       r.Thumbnail,
		Tags:            r.Tags,
		IsActive:        true,
	}
	if r.IsActive != nil {
		t.IsActive = *r.IsActive
	}
	for _, c := range r.Conditions {
		t.Conditions = append(t.Conditions, models.TourCondition{Condition: c})
	}
	return t
}

// TourQuery tham số lọc danh sách tour
type TourQuery struct {
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	Destination string `form:"destination"`
	Status      string `form:"status"`
	Active      *bool  `form:"active"`
}

// TourSearchFilters bộ lọc tìm kiếm tour, được nhớ theo phiên
type TourSearchFilters struct {
	Query       string           `json:"q" form:"q"`
	Destination string           `json:"destination" form:"destination"`
	Tags        []string         `json:"tags" form:"tags"`
	PriceMin    *decimal.Decimal `json:"priceMin" form:"priceMin"`
	PriceMax    *decimal.Decimal `json:"priceMax" form:"priceMax"`
	MaxDuration *int             `json:"maxDuration" form:"maxDuration"`
	FromDate    *time.Time       `json:"fromDate" form:"fromDate" time_format:"2006-01-02"`
	Limit       int              `json:"limit" form:"limit"`
}

type TourSearchResult struct {
	models.Tour
	Score float64 `json:"score"`
}

type TourOptionRequest struct {
	OptionName  string          `json:"optionName" binding:"required,max=100"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required,max=50"`
	Price       decimal.Decimal `json:"price"`
	PriceType   string          `json:"priceType"`
	Status      string          `json:"status"`
}

func (r TourOptionRequest) ToModel() *models.TourOption {
	return &models.TourOption{
		OptionName:  r.OptionName,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		PriceType:   r.PriceType,
		Status:      r.Status,
	}
}
