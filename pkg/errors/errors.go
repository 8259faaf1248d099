package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code is the stable machine-readable identifier agents branch on.
type Code string

const (
	CodeMissing           Code = "missing"
	CodeInvalid           Code = "invalid"
	CodeNotFound          Code = "not_found"
	CodeRequestNotAllowed Code = "request_not_allowed"
	CodeUnauthorized      Code = "unauthorized"
	CodePaymentDeclined   Code = "payment_declined"
	CodeRequires3DS       Code = "requires_3ds"
	CodeProcessingError   Code = "processing_error"
)

// Type partitions errors between client-caused failures and payment outcomes.
type Type string

const (
	TypeInvalidRequest Type = "invalid_request"
	TypePaymentError   Type = "error"
)

type Metadata struct {
	HTTPStatus    int
	Type          Type
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeMissing: {
		HTTPStatus:    http.StatusBadRequest,
		Type:          TypeInvalidRequest,
		PublicMessage: "required parameter missing",
	},
	CodeInvalid: {
		HTTPStatus:    http.StatusBadRequest,
		Type:          TypeInvalidRequest,
		PublicMessage: "request is invalid",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		Type:          TypeInvalidRequest,
		PublicMessage: "resource not found",
	},
	CodeRequestNotAllowed: {
		HTTPStatus:    http.StatusMethodNotAllowed,
		Type:          TypeInvalidRequest,
		PublicMessage: "request not allowed",
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		Type:          TypeInvalidRequest,
		PublicMessage: "authentication required",
	},
	CodePaymentDeclined: {
		HTTPStatus:    http.StatusBadRequest,
		Type:          TypePaymentError,
		PublicMessage: "payment was declined",
	},
	CodeRequires3DS: {
		HTTPStatus:    http.StatusBadRequest,
		Type:          TypePaymentError,
		PublicMessage: "payment requires additional authentication",
	},
	CodeProcessingError: {
		HTTPStatus:    http.StatusInternalServerError,
		Type:          TypeInvalidRequest,
		PublicMessage: "internal processing error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeProcessingError]
}

// Error carries a protocol code, a human message, and an optional param
// pointer naming the offending request field.
type Error struct {
	code    Code
	message string
	param   string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeProcessingError
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Param() string {
	if e == nil {
		return ""
	}
	return e.param
}

func (e *Error) WithParam(param string) *Error {
	if e == nil {
		return nil
	}
	e.param = param
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
