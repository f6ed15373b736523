package services

import (
	"bookingtour/constants"
	"bookingtour/errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const tracerName = "bookingtour/services"

func defaultTracer(t trace.Tracer) trace.Tracer {
	if t != nil {
		return t
	}
	return otel.Tracer(tracerName)
}

// recordSpanError ghi lỗi vào span, lỗi nghiệp vụ (4xx) không đánh dấu span lỗi
func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	if appErr := errors.GetAppError(err); appErr != nil && errors.HTTPStatus(appErr.Code) < 500 {
		return
	}
	span.SetStatus(codes.Error, err.Error())
}

// dbError chuyển lỗi gorm thành AppError
func dbError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound(notFoundMessage)
	}
	if pkgerrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.NewAppError(errors.ErrCodeDBDuplicate, "Dữ liệu đã tồn tại", err)
	}
	return errors.Internal("Lỗi truy vấn dữ liệu", pkgerrors.WithStack(err))
}

// Page tham số phân trang, Page bắt đầu từ 1
type Page struct {
	Page     int
	PageSize int
}

// Normalize áp giá trị mặc định và giới hạn
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = constants.DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = constants.DefaultPageSize
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func nullableDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

// sumDecimal tính SUM(column) trên query, không có dòng nào trả về 0
func sumDecimal(query *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(" + column + ")").Row().Scan(&total); err != nil {
		return decimal.Zero, dbError(err, "")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
