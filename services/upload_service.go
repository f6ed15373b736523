package services

import (
	"context"
	"io"

	"bookingtour/errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadedImage kết quả upload ảnh
type UploadedImage struct {
	URL      string
	PublicID string
}

type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader) (*UploadedImage, error)
}

// CloudinaryUploader upload ảnh lên Cloudinary vào một folder cố định
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader trả về nil khi chưa cấu hình Cloudinary
func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	if cld == nil {
		return nil
	}
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader) (*UploadedImage, error) {
	if u == nil || u.cld == nil {
		return nil, errors.NewAppError(errors.ErrCodeUpstream, "Chưa cấu hình dịch vụ lưu trữ ảnh", nil)
	}
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeUpstream, "Upload thất bại", err)
	}
	if resp.Error.Message != "" {
		return nil, errors.NewAppError(errors.ErrCodeUpstream, "Upload thất bại: "+resp.Error.Message, nil)
	}
	return &UploadedImage{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
