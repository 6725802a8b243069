package upload

import (
	"errors"
	"testing"

	"github.com/wealthboard/wealthboard/internal/shared"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name         string
		declaredType string
		data         []byte
		wantErr      bool
	}{
		{name: "jpeg ok", declaredType: "image/jpeg", data: make([]byte, 100)},
		{name: "png ok", declaredType: "image/png", data: make([]byte, 100)},
		{name: "webp ok", declaredType: "image/webp", data: make([]byte, 100)},
		{name: "gif rejected", declaredType: "image/gif", data: make([]byte, 100), wantErr: true},
		{name: "pdf rejected", declaredType: "application/pdf", data: make([]byte, 100), wantErr: true},
		{name: "type with parameters", declaredType: "image/jpeg; charset=binary", data: make([]byte, 100)},
		{name: "uppercase declared type", declaredType: "IMAGE/PNG", data: make([]byte, 100)},
		{name: "at size limit", declaredType: "image/jpeg", data: make([]byte, MaxImageSize)},
		{name: "over size limit", declaredType: "image/jpeg", data: make([]byte, MaxImageSize+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.declaredType, tt.data)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateImage_SniffsWhenUndeclared(t *testing.T) {
	// PNG magic bytes; http.DetectContentType needs no full decode.
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	if err := ValidateImage("", pngHeader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateImage("", []byte("plain text payload")); err == nil {
		t.Fatalf("expected error for non-image payload")
	}
}

func TestValidateImage_ErrorIsValidationSentinel(t *testing.T) {
	err := ValidateImage("image/gif", make([]byte, 10))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, shared.ErrorValidation) {
		t.Fatalf("expected validation sentinel, got %v", err)
	}
}
