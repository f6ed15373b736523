package validator

import (
	"regexp"
	"strings"

	"bookingtour/constants"
	"bookingtour/errors"
	"bookingtour/models"

	"github.com/shopspring/decimal"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,50}$`)
)

// ValidateVoucher validate thông tin voucher khi tạo / cập nhật
func ValidateVoucher(v *models.Voucher) error {
	if strings.TrimSpace(v.VoucherCode) == "" {
		return errors.NewAppError(errors.ErrCodeValidation, "Mã voucher không được để trống", nil)
	}
	if len(v.VoucherCode) > 20 {
		return errors.NewAppError(errors.ErrCodeValidation, "Mã voucher tối đa 20 ký tự", nil)
	}
	if strings.TrimSpace(v.VoucherName) == "" {
		return errors.NewAppError(errors.ErrCodeValidation, "Tên voucher không được để trống", nil)
	}
	v.DiscountType = v.DiscountType.Normalize()
	if v.DiscountType == "" {
		return errors.NewAppError(errors.ErrCodeValidation, "Loại giảm giá không được để trống", nil)
	}
	if !v.DiscountType.Valid() {
		return errors.NewAppError(errors.ErrCodeValidation, "Loại giảm giá chỉ có thể là 'percentage' hoặc 'fixed'", nil)
	}
	if !v.DiscountValue.IsPositive() {
		return errors.NewAppError(errors.ErrCodeValidation, "Giá trị giảm giá phải lớn hơn 0", nil)
	}
	if v.DiscountType == models.DiscountTypePercentage && v.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return errors.NewAppError(errors.ErrCodeValidation, "Phần trăm giảm giá không thể lớn hơn 100", nil)
	}
	if !v.ValidFrom.Before(v.ValidTo) {
		return errors.NewAppError(errors.ErrCodeValidation, "Ngày bắt đầu phải nhỏ hơn ngày kết thúc", nil)
	}
	if v.UsageLimit != nil && *v.UsageLimit <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Giới hạn sử dụng phải lớn hơn 0", nil)
	}
	if v.MinOrderAmount != nil && v.MinOrderAmount.IsNegative() {
		return errors.NewAppError(errors.ErrCodeValidation, "Giá trị đơn tối thiểu không được âm", nil)
	}
	if v.MaxDiscountAmount != nil && !v.MaxDiscountAmount.IsPositive() {
		return errors.NewAppError(errors.ErrCodeValidation, "Mức giảm tối đa phải lớn hơn 0", nil)
	}
	switch v.Status {
	case models.VoucherStatusActive, models.VoucherStatusInactive:
	default:
		return errors.NewAppError(errors.ErrCodeInvalidStatus, "Trạng thái voucher chỉ có thể là 'Active' hoặc 'Inactive'", nil)
	}
	return nil
}

// ValidateOrderAmount giá trị đơn hàng phải lớn hơn 0
func ValidateOrderAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá trị đơn hàng phải lớn hơn 0", nil)
	}
	return nil
}

// ValidateTour validate thông tin tour
func ValidateTour(t *models.Tour) error {
	if strings.TrimSpace(t.TourName) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên tour không được để trống", nil)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Điểm đến không được để trống", nil)
	}
	if t.Duration <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Số ngày tour phải lớn hơn 0", nil)
	}
	if t.Price.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá tour không được âm", nil)
	}
	if t.MaxParticipants <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Số khách tối đa phải lớn hơn 0", nil)
	}
	if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return errors.NewAppError(errors.ErrCodeValidation, "Ngày kết thúc phải sau ngày bắt đầu", nil)
	}
	return nil
}

// ValidateTourOption validate tùy chọn tour
func ValidateTourOption(o *models.TourOption) error {
	if strings.TrimSpace(o.OptionName) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên tùy chọn không được để trống", nil)
	}
	if strings.TrimSpace(o.Category) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Danh mục không được để trống", nil)
	}
	if o.Price.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá tùy chọn không được âm", nil)
	}
	switch o.PriceType {
	case "", constants.PriceTypePerPerson, constants.PriceTypePerBooking:
	default:
		return errors.NewAppError(errors.ErrCodeValidation, "Loại giá không hợp lệ", nil)
	}
	return nil
}

// ValidateBooking validate booking trước khi lưu
func ValidateBooking(b *models.Booking) error {
	if b.UserID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID người dùng không được để trống", nil)
	}
	if b.TourID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID tour không được để trống", nil)
	}
	if b.NumberOfPeople <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Số người phải lớn hơn 0", nil)
	}
	if b.TotalAmount.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Tổng tiền không được âm", nil)
	}
	if b.DiscountAmount != nil && b.DiscountAmount.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền giảm không được âm", nil)
	}
	for _, opt := range b.BookingOptions {
		if opt.OptionID == 0 {
			return errors.NewAppError(errors.ErrCodeRequiredField, "ID tùy chọn không được để trống", nil)
		}
		if opt.UnitPrice.IsNegative() || opt.TotalPrice.IsNegative() {
			return errors.NewAppError(errors.ErrCodeInvalidAmount, "Giá tùy chọn không được âm", nil)
		}
	}
	return ValidateBookingPaymentStatus(b.PaymentStatus)
}

// ValidateBookingStatus trạng thái booking
func ValidateBookingStatus(status string) error {
	if contains(constants.BookingStatuses, status) {
		return nil
	}
	return errors.NewAppError(errors.ErrCodeInvalidStatus, "Trạng thái booking không hợp lệ. Giá trị hợp lệ: "+strings.Join(constants.BookingStatuses, ", "), nil)
}

// ValidateBookingPaymentStatus trạng thái thanh toán của booking
func ValidateBookingPaymentStatus(status string) error {
	if status == "" || contains(constants.BookingPaymentStatuses, status) {
		return nil
	}
	return errors.NewAppError(errors.ErrCodeInvalidStatus, "Trạng thái thanh toán không hợp lệ", nil)
}

// ValidatePayment validate payment
func ValidatePayment(p *models.Payment) error {
	if p.BookingID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "BookingId là bắt buộc", nil)
	}
	if !p.PaymentAmount.IsPositive() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền thanh toán phải lớn hơn 0", nil)
	}
	if len(p.TransactionID) > 100 {
		return errors.NewAppError(errors.ErrCodeValidation, "Mã giao dịch tối đa 100 ký tự", nil)
	}
	if p.PaymentStatus != "" {
		return ValidatePaymentStatus(p.PaymentStatus)
	}
	return nil
}

// ValidatePaymentStatus trạng thái payment
func ValidatePaymentStatus(status string) error {
	if contains(constants.PaymentStatuses, status) {
		return nil
	}
	return errors.NewAppError(errors.ErrCodeInvalidStatus, "Trạng thái thanh toán không hợp lệ. Giá trị hợp lệ: "+strings.Join(constants.PaymentStatuses, ", "), nil)
}

// ValidateUser validate thông tin user
func ValidateUser(u *models.User) error {
	if !usernameRegex.MatchString(u.Username) {
		return errors.NewAppError(errors.ErrCodeValidation, "Tên đăng nhập 3-50 ký tự, chỉ gồm chữ, số, '_' và '.'", nil)
	}
	if u.Email != nil && *u.Email != "" {
		if err := ValidateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Phone != "" {
		if err := ValidatePhone(u.Phone); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRole validate role
func ValidateRole(r *models.Role) error {
	if strings.TrimSpace(r.RoleName) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên role không được để trống", nil)
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên hiển thị không được để trống", nil)
	}
	return nil
}

// ValidateEmail kiểm tra email hợp lệ
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Email không hợp lệ", nil)
	}
	return nil
}

// ValidatePhone kiểm tra số điện thoại hợp lệ
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return errors.NewAppError(errors.ErrCodeInvalidPhone, "Số điện thoại không hợp lệ", nil)
	}
	return nil
}

// ValidatePassword kiểm tra mật khẩu hợp lệ
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.NewAppError(errors.ErrCodeValidation, "Mật khẩu phải có ít nhất 8 ký tự", nil)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
