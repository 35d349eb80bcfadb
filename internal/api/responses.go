package api

// Every JSON body carries a "code" mirroring the HTTP status.

type ErrorResponse struct {
	Code    int               `json:"code" example:"400"`
	Message map[string]string `json:"message"`
}

func NewError(code int, msg string) ErrorResponse {
	return ErrorResponse{Code: code, Message: map[string]string{"error": msg}}
}

// NewFieldErrors reports per-field validation failures keyed by field name.
func NewFieldErrors(code int, fields map[string]string) ErrorResponse {
	return ErrorResponse{Code: code, Message: fields}
}

type CodeResponse struct {
	Code int `json:"code" example:"200"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type MessageResponse struct {
	Code    int    `json:"code" example:"200"`
	Message string `json:"message"`
}
