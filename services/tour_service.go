package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bookingtour/constants"
	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/validator"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type TourServiceInterface interface {
	List(ctx context.Context, q dto.TourQuery) ([]models.Tour, int64, error)
	Get(ctx context.Context, id uint) (*models.Tour, error)
	Search(ctx context.Context, sessionID string, filters *dto.TourSearchFilters) ([]dto.TourSearchResult, *dto.TourSearchFilters, error)
	ResetSearch(ctx context.Context, sessionID string) error
	Create(ctx context.Context, req dto.TourRequest) (*models.Tour, error)
	Update(ctx context.Context, id uint, req dto.TourRequest) (*models.Tour, error)
	Delete(ctx context.Context, id uint) error
	AddImage(ctx context.Context, id uint, file io.Reader, caption string) (*models.TourImage, error)
	ListOptions(ctx context.Context) ([]models.TourOption, error)
	CreateOption(ctx context.Context, o *models.TourOption) error
}

type TourService struct {
	db       *gorm.DB
	redis    *redis.Client
	logger   logger.Logger
	uploader ImageUploader
}

type TourServiceOptions struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   logger.Logger
	Uploader ImageUploader
}

func NewTourService(opts TourServiceOptions) *TourService {
	s := &TourService{
		db:       opts.DB,
		redis:    opts.Redis,
		logger:   opts.Logger,
		uploader: opts.Uploader,
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

type cachedTourPage struct {
	Tours []models.Tour `json:"tours"`
	Total int64         `json:"total"`
}

func tourListCacheKey(q dto.TourQuery) string {
	active := "all"
	if q.Active != nil {
		active = fmt.Sprintf("%t", *q.Active)
	}
	return fmt.Sprintf("%slist:%d:%d:%s:%s:%s", constants.CacheKeyToursPrefix,
		q.Page, q.Limit, strings.ToLower(q.Destination), strings.ToLower(q.Status), active)
}

// List danh sách tour chưa xóa, cache theo từng bộ tham số
func (s *TourService) List(ctx context.Context, q dto.TourQuery) ([]models.Tour, int64, error) {
	page := Page{Page: q.Page, PageSize: q.Limit}.Normalize()
	q.Page, q.Limit = page.Page, page.PageSize
	cacheKey := tourListCacheKey(q)

	var cached cachedTourPage
	if hit, err := GetFromRedis(ctx, s.redis, cacheKey, &cached); err != nil {
		s.logger.Error("Lỗi đọc cache tour: %v", err)
	} else if hit {
		return cached.Tours, cached.Total, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Tour{}).Where("is_delete = ?", false)
	if q.Destination != "" {
		query = query.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(q.Destination)+"%")
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Active != nil {
		query = query.Where("is_active = ?", *q.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "")
	}
	tours := []models.Tour{}
	if err := query.Preload("Images").
		Order("start_date asc, id asc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&tours).Error; err != nil {
		return nil, 0, dbError(err, "")
	}

	if err := SetToRedis(ctx, s.redis, cacheKey, cachedTourPage{Tours: tours, Total: total}, constants.ToursTTL); err != nil {
		s.logger.Error("Lỗi ghi cache tour: %v", err)
	}
	return tours, total, nil
}

func (s *TourService) Get(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Conditions").
		Preload("Options").
		Where("id = ? AND is_delete = ?", id, false).
		First(&tour).Error
	if err != nil {
		return nil, dbError(err, "Không tìm thấy tour")
	}
	return &tour, nil
}

// Search tìm tour gần đúng. Bộ lọc được gộp với bộ lọc trước đó của phiên (sessionID).
func (s *TourService) Search(ctx context.Context, sessionID string, filters *dto.TourSearchFilters) ([]dto.TourSearchResult, *dto.TourSearchFilters, error) {
	if sessionID != "" {
		last, err := GetLastFilters(ctx, s.redis, sessionID)
		if err != nil {
			s.logger.Error("Lỗi đọc bộ lọc phiên %s: %v", sessionID, err)
		}
		filters = MergeFilters(last, filters)
	}
	if filters.Limit <= 0 || filters.Limit > constants.MaxPageSize {
		filters.Limit = constants.DefaultPageSize
	}

	var tours []models.Tour
	err := s.db.WithContext(ctx).
		Where("is_delete = ? AND is_active = ?", false, true).
		Find(&tours).Error
	if err != nil {
		return nil, nil, dbError(err, "")
	}

	results := RankTours(tours, filters)
	if sessionID != "" {
		if err := SaveLastFilters(ctx, s.redis, sessionID, filters); err != nil {
			s.logger.Error("Lỗi lưu bộ lọc phiên %s: %v", sessionID, err)
		}
	}
	return results, filters, nil
}

// ResetSearch quên bộ lọc đã nhớ của phiên
func (s *TourService) ResetSearch(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := ClearLastFilters(ctx, s.redis, sessionID); err != nil {
		return errors.NewAppError(errors.ErrCodeUpstream, "Không xóa được bộ lọc tìm kiếm", err)
	}
	return nil
}

func (s *TourService) Create(ctx context.Context, req dto.TourRequest) (*models.Tour, error) {
	tour := req.ToModel()
	if err := validator.ValidateTour(tour); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Create(tour).Error; err != nil {
			return err
		}
		return s.replaceOptions(tx, tour.ID, req.OptionIDs, req.DefaultOptionIDs)
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	s.logger.Info("Tạo tour %s (id=%d)", tour.TourName, tour.ID)
	s.invalidate(ctx)
	return s.Get(ctx, tour.ID)
}

// Update ghi đè thông tin tour, điều kiện và danh sách option
func (s *TourService) Update(ctx context.Context, id uint, req dto.TourRequest) (*models.Tour, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tour := req.ToModel()
	tour.ID = id
	if req.IsActive == nil {
		tour.IsActive = existing.IsActive
	}
	if tour.Thumbnail == "" {
		tour.Thumbnail = existing.Thumbnail
	}
	if err := validator.ValidateTour(tour); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tour{}).Where("id = ?", id).Updates(map[string]interface{}{
			"tour_name":        tour.TourName,
			"destination":      tour.Destination,
			"description":      tour.Description,
			"duration":         tour.Duration,
			"price":            tour.Price,
			"max_participants": tour.MaxParticipants,
			"start_date":       tour.StartDate,
			"end_date":         tour.EndDate,
			"status":           tour.Status,
			"transport":        tour.Transport,
			"thumbnail":        tour.Thumbnail,
			"tags":             tour.Tags,
			"is_active":        tour.IsActive,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("tour_id = ?", id).Delete(&models.TourCondition{}).Error; err != nil {
			return err
		}
		for i := range tour.Conditions {
			tour.Conditions[i].TourID = id
		}
		if len(tour.Conditions) > 0 {
			if err := tx.Create(&tour.Conditions).Error; err != nil {
				return err
			}
		}
		return s.replaceOptions(tx, id, req.OptionIDs, req.DefaultOptionIDs)
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete xóa mềm tour
func (s *TourService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Tour{}).
		Where("id = ? AND is_delete = ?", id, false).
		Updates(map[string]interface{}{"is_delete": true, "is_active": false})
	if res.Error != nil {
		return dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Không tìm thấy tour")
	}
	s.logger.Info("Xóa tour id=%d", id)
	s.invalidate(ctx)
	return nil
}

// AddImage upload ảnh và gắn vào tour, ảnh đầu tiên làm thumbnail nếu tour chưa có
func (s *TourService) AddImage(ctx context.Context, id uint, file io.Reader, caption string) (*models.TourImage, error) {
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.NewAppError(errors.ErrCodeUpstream, "Chưa cấu hình dịch vụ lưu trữ ảnh", nil)
	}
	uploaded, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return nil, err
	}

	image := models.TourImage{
		TourID:   id,
		ImageURL: uploaded.URL,
		PublicID: uploaded.PublicID,
		Caption:  caption,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
		if tour.Thumbnail == "" {
			return tx.Model(&models.Tour{}).Where("id = ?", id).Update("thumbnail", image.ImageURL).Error
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "")
	}
	s.invalidate(ctx)
	return &image, nil
}

func (s *TourService) ListOptions(ctx context.Context) ([]models.TourOption, error) {
	options := []models.TourOption{}
	err := s.db.WithContext(ctx).Order("category asc, option_name asc").Find(&options).Error
	return options, dbError(err, "")
}

func (s *TourService) CreateOption(ctx context.Context, o *models.TourOption) error {
	o.ID = 0
	if o.PriceType == "" {
		o.PriceType = constants.PriceTypePerPerson
	}
	if o.Status == "" {
		o.Status = constants.OptionStatusActive
	}
	if err := validator.ValidateTourOption(o); err != nil {
		return err
	}
	return dbError(s.db.WithContext(ctx).Create(o).Error, "")
}

func (s *TourService) replaceOptions(tx *gorm.DB, tourID uint, optionIDs, defaultIDs []uint) error {
	if err := tx.Where("tour_id = ?", tourID).Delete(&models.TourOptionAvailable{}).Error; err != nil {
		return err
	}
	if len(optionIDs) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.TourOption{}).Where("id IN ?", optionIDs).Count(&count).Error; err != nil {
		return err
	}
	unique := make(map[uint]bool, len(optionIDs))
	for _, id := range optionIDs {
		unique[id] = true
	}
	if int(count) != len(unique) {
		return errors.NotFound("Option không tồn tại")
	}

	isDefault := make(map[uint]bool, len(defaultIDs))
	for _, id := range defaultIDs {
		isDefault[id] = true
	}
	rows := make([]models.TourOptionAvailable, 0, len(unique))
	for id := range unique {
		rows = append(rows, models.TourOptionAvailable{TourID: tourID, OptionID: id, IsDefault: isDefault[id]})
	}
	return tx.Create(&rows).Error
}

func (s *TourService) invalidate(ctx context.Context) {
	if err := DeleteKeysByPattern(ctx, s.redis, constants.CacheKeyToursPrefix+"*"); err != nil {
		s.logger.Error("Lỗi xóa cache tour: %v", err)
	}
}
