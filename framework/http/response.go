package http

import (
	"encoding/json"
	"net/http"
)

// Response writes JSON bodies for the graph endpoints.
type Response struct {
	w http.ResponseWriter
}

func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// JSON encodes data with the given status. Encoding errors are dropped once
// the header is out.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success wraps v as {"data": v}.
//
//	res.Success(map[string]any{"root": root.String()})
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error wraps message as {"message": message}.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound reports an unbound qualifier or unknown route.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, orDefault(message, "Not Found."))
}

// ServerError reports a failed resolution.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, orDefault(message, "Server Error."))
}

type envelope map[string]any

func orDefault(message []string, fallback string) string {
	if len(message) == 0 || message[0] == "" {
		return fallback
	}
	return message[0]
}
