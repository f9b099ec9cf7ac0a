package response

import "net/http"

// Response is the envelope shared by every JSON endpoint. Data is set on
// success and Error on failure; StatusCode mirrors the HTTP status so clients
// reading only the body can still branch on the outcome.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps an error message in an error envelope
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// List wraps one page of a collection, keyed by the resource name, together
// with the paging window that produced it.
func List(key string, items interface{}, total int64, page, limit int) Response {
	return Success(http.StatusOK, map[string]interface{}{
		key:     items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
