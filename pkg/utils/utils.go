package utils

import (
	"crypto/rand"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/response"
	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile          = response.NewError(http.StatusBadRequest, "no file uploaded")
	ErrFileTooLarge    = response.NewError(http.StatusRequestEntityTooLarge, "file size exceeds limit")
	ErrInvalidFileType = response.NewError(http.StatusBadRequest, "invalid file type")
)

var (
	imageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".bmp":  true,
		".webp": true,
	}
	videoExtensions = map[string]bool{
		".mp4":  true,
		".avi":  true,
		".mov":  true,
		".mkv":  true,
		".webm": true,
	}
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ValidateVideoFile(file *multipart.FileHeader) error
	ReadUpload(file *multipart.FileHeader) (*entity.Upload, error)
}

type utils struct {
	maxImageSize int64
	maxVideoSize int64
}

// New returns the upload helpers. maxUploadBytes bounds videos; images keep
// the smaller fixed limit used for reference photos.
func New(maxUploadBytes int64) IUtils {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 50 * 1024 * 1024
	}
	maxImage := int64(15 * 1024 * 1024)
	if maxImage > maxUploadBytes {
		maxImage = maxUploadBytes
	}
	return &utils{
		maxImageSize: maxImage,
		maxVideoSize: maxUploadBytes,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	return validate(file, u.maxImageSize, "image/", imageExtensions)
}

func (u *utils) ValidateVideoFile(file *multipart.FileHeader) error {
	return validate(file, u.maxVideoSize, "video/", videoExtensions)
}

func (u *utils) ReadUpload(file *multipart.FileHeader) (*entity.Upload, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	return &entity.Upload{
		FileName:    filepath.Base(file.Filename),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// validate accepts a file when either its declared content type or its
// extension belongs to the expected family.
func validate(file *multipart.FileHeader, maxSize int64, typePrefix string, extensions map[string]bool) error {
	if file == nil || file.Filename == "" {
		return ErrNoFile
	}

	if file.Size > maxSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !strings.HasPrefix(contentType, typePrefix) && !extensions[ext] {
		return ErrInvalidFileType
	}

	return nil
}
