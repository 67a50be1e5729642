package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SpreadsheetContentTypes is the allow-list for roster uploads. Browsers and
// curl often send octet-stream for spreadsheets, so it is accepted as well.
var SpreadsheetContentTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"text/csv",
	"application/csv",
	"text/plain",
	"application/octet-stream",
}

var ErrInvalidFileType = errors.New("invalid file type")

func InArray[T comparable](val T, array []T) bool {
	for _, v := range array {
		if val == v {
			return true
		}
	}
	return false
}

// Uploader stores uploaded files below a base directory.
type Uploader struct {
	baseDir string
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewUploader(baseDir string, log *zap.SugaredLogger) *Uploader {
	return &Uploader{baseDir: baseDir, log: log, now: time.Now}
}

// Upload copies file into folder and returns the stored path. The extension
// and the declared content type must both be allowed.
func (u *Uploader) Upload(file *multipart.FileHeader, folder string, extensions, contentTypes []string) (string, error) {
	if file == nil {
		return "", errors.Wrap(ErrInvalidFileType, "no file")
	}

	name := filepath.Base(file.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !InArray(ext, extensions) {
		return "", errors.Wrapf(ErrInvalidFileType, "expected one of %v, got %q", extensions, ext)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, _ := strings.Cut(contentType, ";")
		if !InArray(strings.TrimSpace(mediaType), contentTypes) {
			return "", errors.Wrapf(ErrInvalidFileType, "unexpected content type %q", contentType)
		}
	}

	targetPath := filepath.Join(u.baseDir, folder)
	if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating upload folder")
	}

	path := filepath.Join(targetPath, fmt.Sprintf("%s-%s", u.now().Format("20060102T150405.000"), name))

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			u.log.Warnw("file upload src.Close()", "error", closeErr)
		}
	}()

	out, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating upload")
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			u.log.Warnw("file upload out.Close()", "error", closeErr)
		}
	}()

	if _, err := io.Copy(out, src); err != nil {
		return "", errors.Wrap(err, "storing upload")
	}

	return path, nil
}
