package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/jobportal/jobportal/internal/domain"
)

func TestValidateResume(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{"pdf under limit", "resume.pdf", 1 << 20, ""},
		{"doc at limit", "resume.doc", MaxResumeSize, ""},
		{"docx", "resume.docx", 1024, ""},
		{"uppercase extension", "RESUME.PDF", 1024, ""},
		{"executable rejected", "resume.exe", 1024, "invalid file format"},
		{"text rejected", "resume.txt", 1024, "invalid file format"},
		{"no extension", "resume", 1024, "invalid file format"},
		{"pdf over limit", "resume.pdf", 3 << 20, "file too large"},
		{"one byte over", "resume.pdf", MaxResumeSize + 1, "file too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResume(tt.filename, tt.size)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected a validation error, got %T", err)
			}
		})
	}
}

func TestValidateResumeDistinguishesFormatFromSize(t *testing.T) {
	formatErr := ValidateResume("resume.exe", 1024)
	sizeErr := ValidateResume("resume.pdf", 3<<20)

	if formatErr == nil || sizeErr == nil {
		t.Fatal("expected both validations to fail")
	}
	if formatErr.Error() == sizeErr.Error() {
		t.Error("format and size failures should carry distinct messages")
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage("avatar.png", 1<<20); err != nil {
		t.Errorf("expected png to pass, got %v", err)
	}
	if err := ValidateImage("avatar.jpeg", 1<<20); err != nil {
		t.Errorf("expected jpeg to pass, got %v", err)
	}
	if err := ValidateImage("avatar.gif", 1024); err == nil {
		t.Error("expected gif to be rejected")
	}
	if err := ValidateImage("avatar.png", MaxImageSize+1); err == nil {
		t.Error("expected oversized image to be rejected")
	}
}
