package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code    Code
		status  int
		errType Type
	}{
		{code: CodeMissing, status: http.StatusBadRequest, errType: TypeInvalidRequest},
		{code: CodeInvalid, status: http.StatusBadRequest, errType: TypeInvalidRequest},
		{code: CodeNotFound, status: http.StatusNotFound, errType: TypeInvalidRequest},
		{code: CodeRequestNotAllowed, status: http.StatusMethodNotAllowed, errType: TypeInvalidRequest},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, errType: TypeInvalidRequest},
		{code: CodePaymentDeclined, status: http.StatusBadRequest, errType: TypePaymentError},
		{code: CodeRequires3DS, status: http.StatusBadRequest, errType: TypePaymentError},
		{code: CodeProcessingError, status: http.StatusInternalServerError, errType: TypeInvalidRequest},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.Type != tt.errType {
			t.Fatalf("code %s expected type %s got %s", tt.code, tt.errType, meta.Type)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToProcessing(t *testing.T) {
	meta := MetadataFor("something_unknown")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected processing status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeMissing, "items missing").WithParam("items")
	if base.Code() != CodeMissing {
		t.Fatalf("expected missing code, got %s", base.Code())
	}
	if base.Message() != "items missing" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Param() != "items" {
		t.Fatalf("unexpected param %q", base.Param())
	}

	cause := fmt.Errorf("boom")
	wrapped := Wrap(CodeProcessingError, cause, "charge failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped cause to unwrap")
	}
	if wrapped.Error() != "processing_error: charge failed" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsRecoversTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no such session"))
	typed := As(err)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not_found error, got %v", typed)
	}
	if As(fmt.Errorf("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
