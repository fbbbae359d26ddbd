package transportutil

import (
	"context"
	"encoding/json"
	"net/http"
)

// Response is what every endpoint returns to the transport layer:
// either data to serialize, a mapped error, or an error-like result
// (e.g. a redirect) that encodes itself.
type Response struct {
	Data      interface{}
	Err       *Error
	ErrorLike error
}

func MakeOKResponse(data interface{}) *Response {
	return &Response{Data: data}
}

func MakeErrorResponse(err *Error) *Response {
	return &Response{Err: err}
}

func MakeErrorLikeResponse(err error) *Response {
	return &Response{ErrorLike: err}
}

func EncodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if err := GetContextError(ctx); err != nil {
		writeError(w, MakeError(err))
		return nil
	}

	resp := response.(*Response)
	if resp.ErrorLike != nil {
		return HandleErrorLikeResult(ctx, w, resp.ErrorLike)
	}
	if resp.Err != nil {
		writeError(w, resp.Err)
		return nil
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp.Data)
}

// EncodeError handles errors returned by the transport itself, e.g.
// request decoding failures.
func EncodeError(ctx context.Context, err error, w http.ResponseWriter) {
	writeError(w, MakeError(err))
}

func writeError(w http.ResponseWriter, herr *Error) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(herr.HTTPCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: herr})
}
