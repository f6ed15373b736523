package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Tour struct {
	ID              uint            `json:"tourId" gorm:"primaryKey"`
	TourName        string          `json:"tourName" gorm:"size:200;not null"`
	Destination     string          `json:"destination" gorm:"size:200;not null;index"`
	Description     string          `json:"description"`
	Duration        int             `json:"duration"` // số ngày
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	MaxParticipants int             `json:"maxParticipants"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Status          string          `json:"status" gorm:"size:50"`
	Transport       string          `json:"transport" gorm:"size:100"`
	Thumbnail       string          `json:"thumbnail"`
	Tags            pq.StringArray  `json:"tags" gorm:"type:text[]"`
	IsActive        bool            `json:"isActive" gorm:"default:true"`
	IsDelete        bool            `json:"isDelete" gorm:"default:false"`
	CreatedDate     time.Time       `json:"createdDate" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
	Images          []TourImage     `json:"images,omitempty" gorm:"foreignKey:TourID"`
	Conditions      []TourCondition `json:"conditions,omitempty" gorm:"foreignKey:TourID"`
	Options         []TourOption    `json:"options,omitempty" gorm:"many2many:tour_option_availables;joinForeignKey:TourID;joinReferences:OptionID"`
}

type TourImage struct {
	ID        uint      `json:"imageId" gorm:"primaryKey"`
	TourID    uint      `json:"tourId" gorm:"index;not null"`
	ImageURL  string    `json:"imageUrl" gorm:"not null"`
	PublicID  string    `json:"publicId"`
	Caption   string    `json:"caption" gorm:"size:200"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type TourCondition struct {
	ID        uint   `json:"conditionId" gorm:"primaryKey"`
	TourID    uint   `json:"tourId" gorm:"index;not null"`
	Condition string `json:"condition" gorm:"not null"`
}

type TourOption struct {
	ID          uint            `json:"optionId" gorm:"primaryKey"`
	OptionName  string          `json:"optionName" gorm:"size:100;not null"`
	Description string          `json:"description"`
	Category    string          `json:"category" gorm:"size:50;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	PriceType   string          `json:"priceType" gorm:"size:20;default:'PerPerson'"`
	Status      string          `json:"status" gorm:"size:20;default:'Active'"`
	CreatedDate time.Time       `json:"createdDate" gorm:"autoCreateTime"`
}

// TourOptionAvailable bảng nối tour - option
type TourOptionAvailable struct {
	TourID    uint `json:"tourId" gorm:"primaryKey"`
	OptionID  uint `json:"optionId" gorm:"primaryKey"`
	IsDefault bool `json:"isDefault" gorm:"default:false"`
}
