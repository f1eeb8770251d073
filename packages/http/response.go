package http

import "strings"

// Response is the normalized result of one exchange. SizeBytes always equals
// len(Body).
type Response struct {
	Status    int               `json:"status"`
	TimeMs    int64             `json:"time_ms"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
	SizeBytes int               `json:"size_bytes"`
}

// Header looks up a header case-insensitively.
func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "json")
}

func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Response) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

func (r *Response) IsClientError() bool {
	return r.Status >= 400 && r.Status < 500
}

func (r *Response) IsServerError() bool {
	return r.Status >= 500
}
