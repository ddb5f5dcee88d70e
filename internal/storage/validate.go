package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jobportal/jobportal/internal/domain"
)

// Upload ceilings.
const (
	MaxResumeSize = 2 << 20 // 2 MiB
	MaxImageSize  = 5 << 20 // 5 MiB
)

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateResume checks a resume upload before anything is persisted. The
// error names the rule that failed so callers can report format vs size.
func ValidateResume(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedResumeExtensions[ext] {
		return &domain.ValidationError{
			Field:   "resume",
			Message: "invalid file format: only PDF, DOC, and DOCX files are allowed",
		}
	}
	if size > MaxResumeSize {
		return &domain.ValidationError{
			Field:   "resume",
			Message: fmt.Sprintf("file too large: maximum size is %d MB", MaxResumeSize>>20),
		}
	}
	return nil
}

// ValidateImage checks a profile image upload.
func ValidateImage(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return &domain.ValidationError{
			Field:   "image",
			Message: "invalid file format: only JPG and PNG images are allowed",
		}
	}
	if size > MaxImageSize {
		return &domain.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("file too large: maximum size is %d MB", MaxImageSize>>20),
		}
	}
	return nil
}
