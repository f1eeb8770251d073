package http

import (
	"strings"
	"time"
)

// Supported methods. Anything else is rejected before any network activity.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

var supportedMethods = map[string]struct{}{
	MethodGet:    {},
	MethodPost:   {},
	MethodPut:    {},
	MethodDelete: {},
	MethodPatch:  {},
}

// SupportedMethods lists the accepted methods in display order.
func SupportedMethods() []string {
	return []string{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch}
}

type Request struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    *string           `json:"body,omitempty"`

	// Timeout bounds the whole exchange including the body read. Zero means no
	// per-call deadline.
	Timeout time.Duration `json:"-"`
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = &body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// ResolveMethod uppercases method and checks it against the allow-list.
// Surrounding whitespace is not trimmed: "get " is rejected.
func ResolveMethod(method string) (string, error) {
	upper := strings.ToUpper(method)
	if _, ok := supportedMethods[upper]; !ok {
		return "", &Error{Kind: KindValidation, Method: method}
	}
	return upper, nil
}
