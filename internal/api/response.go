package api

// Response is the envelope every endpoint answers with.
type Response struct {
	Status     string `json:"status"` // "success" or "error"
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data,omitempty"`
	Meta       *Meta  `json:"meta,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Meta describes one page of a list response.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func Success(statusCode int, data any) Response {
	return Response{Status: "success", StatusCode: statusCode, Data: data}
}

func SuccessWithPagination(statusCode int, data any, p Params, total int) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta:       &Meta{Page: p.Page, Limit: p.Limit, Total: total},
	}
}

func Error(statusCode int, err string) Response {
	return Response{Status: "error", StatusCode: statusCode, Error: err}
}
