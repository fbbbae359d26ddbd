package transportutil

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/formlytics/formlytics-api/internal/api/apierrors"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
}

func (e Error) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.Message)), nil
}

func (e Error) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *Error `json:"error,omitempty"`
}

func makeError(code int, e error) *Error {
	return &Error{
		HTTPCode: code,
		Message:  e.Error(),
	}
}

func MakeError(e error) *Error {
	srcErr := errors.Cause(e)
	switch srcErr {
	case apierrors.ErrNotFound:
		return makeError(http.StatusNotFound, e)
	case apierrors.ErrBadRequest:
		return makeError(http.StatusBadRequest, e)
	case apierrors.ErrNotAuthorized:
		return makeError(http.StatusForbidden, e)
	case paymentprovider.ErrMissingSignature:
		// The provider distinguishes rejected deliveries (no retry) from
		// failed ones (retried) by status code, and only an absent
		// signature is a permanent rejection.
		return makeError(http.StatusBadRequest, srcErr)
	case apierrors.ErrInternal:
		return makeError(http.StatusInternalServerError, errors.New("Internal server error"))
	}

	return makeError(http.StatusInternalServerError, errors.New("Internal server error"))
}

func HandleErrorLikeResult(ctx context.Context, w http.ResponseWriter, e error) error {
	switch err := e.(type) {
	case *apierrors.RedirectError:
		r := getHTTPRequestFromContext(ctx)
		code := http.StatusPermanentRedirect
		if err.Temporary {
			code = http.StatusTemporaryRedirect
		}
		http.Redirect(w, r, err.URL, code)
		return nil
	}

	return fmt.Errorf("unknown error like result type: %#v", e)
}
