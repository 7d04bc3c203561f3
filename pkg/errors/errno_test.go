package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{20, 1, 0, 2001000},
		{20, 4, 0, 2004000},
		{90, 10, 0, 9010000},
		{91, 8, 0, 9108000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			if got != tt.expected {
				t.Errorf("MakeCode(%d, %d, %d) = %d, want %d",
					tt.service, tt.category, tt.sequence, got, tt.expected)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		code             int
		expectedService  int
		expectedCategory int
		expectedSequence int
	}{
		{0, 0, 0, 0},
		{1001, 0, 1, 1},
		{2001000, 20, 1, 0},
		{9010001, 90, 10, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			service, category, sequence := ParseCode(tt.code)
			if service != tt.expectedService || category != tt.expectedCategory || sequence != tt.expectedSequence {
				t.Errorf("ParseCode(%d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.code, service, category, sequence,
					tt.expectedService, tt.expectedCategory, tt.expectedSequence)
			}
		})
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(ErrEmptyDocument.Code) {
		t.Error("ErrEmptyDocument should be a client error")
	}
	if !IsClientError(ErrDocumentNotFound.Code) {
		t.Error("ErrDocumentNotFound should be a client error")
	}
	if IsClientError(ErrStorage.Code) {
		t.Error("ErrStorage should not be a client error")
	}
}

func TestIsServerError(t *testing.T) {
	if !IsServerError(ErrStorage.Code) {
		t.Error("ErrStorage should be a server error")
	}
	if !IsServerError(ErrEmbedding.Code) {
		t.Error("ErrEmbedding should be a server error")
	}
	if IsServerError(ErrEmptyDocument.Code) {
		t.Error("ErrEmptyDocument should not be a server error")
	}
}

func TestErrnoHTTPMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Errno
		http int
		grpc codes.Code
	}{
		{"empty document", ErrEmptyDocument, http.StatusBadRequest, codes.InvalidArgument},
		{"embedding", ErrEmbedding, http.StatusBadGateway, codes.Unavailable},
		{"storage", ErrStorage, http.StatusInternalServerError, codes.Internal},
		{"document not found", ErrDocumentNotFound, http.StatusNotFound, codes.NotFound},
		{"file too large", ErrFileTooLarge, http.StatusRequestEntityTooLarge, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.http {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.http)
			}
			if got := tt.err.GRPCStatus(); got != tt.grpc {
				t.Errorf("GRPCStatus() = %s, want %s", got, tt.grpc)
			}
		})
	}
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrStorage.WithCause(cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("WithCause should match the base errno via errors.Is")
	}
	if !errors.Is(err, cause) {
		t.Error("WithCause should unwrap to the cause")
	}
	if err == ErrStorage {
		t.Error("WithCause must not mutate the registered errno")
	}
}

func TestWithMessage(t *testing.T) {
	err := ErrInvalidParam.WithMessage("limit must be positive")
	if err.Message != "limit must be positive" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != ErrInvalidParam.Code {
		t.Error("WithMessage must keep the code")
	}
	if ErrInvalidParam.Message == "limit must be positive" {
		t.Error("WithMessage must not mutate the registered errno")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}

	if e := FromError(ErrEmbedding); e != ErrEmbedding {
		t.Error("FromError should return the errno unchanged")
	}

	plain := fmt.Errorf("boom")
	e := FromError(plain)
	if e.Code != ErrInternal.Code {
		t.Errorf("FromError(plain) code = %d, want ErrInternal", e.Code)
	}
	if !errors.Is(e, plain) {
		t.Error("FromError should keep the cause")
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(ErrEmptyDocument.Code)
	if !ok || e != ErrEmptyDocument {
		t.Error("Lookup should find registered errnos")
	}

	if _, ok := Lookup(9999999); ok {
		t.Error("Lookup should miss unregistered codes")
	}
}
