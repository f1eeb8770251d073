package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_Header(t *testing.T) {
	resp := &Response{Headers: map[string]string{"Content-Type": "application/problem+json"}}

	assert.Equal(t, "application/problem+json", resp.Header("content-type"))
	assert.Equal(t, "application/problem+json", resp.ContentType())
	assert.Equal(t, "", resp.Header("X-Missing"))
	assert.True(t, resp.IsJSON())

	resp.Headers["Content-Type"] = "text/html"
	assert.False(t, resp.IsJSON())
}

func TestResponse_StatusClasses(t *testing.T) {
	tests := []struct {
		status                                    int
		success, redirect, clientError, serverErr bool
	}{
		{status: 101},
		{status: 200, success: true},
		{status: 204, success: true},
		{status: 301, redirect: true},
		{status: 404, clientError: true},
		{status: 503, serverErr: true},
	}

	for _, tt := range tests {
		resp := &Response{Status: tt.status}
		assert.Equal(t, tt.success, resp.IsSuccess(), tt.status)
		assert.Equal(t, tt.redirect, resp.IsRedirect(), tt.status)
		assert.Equal(t, tt.clientError, resp.IsClientError(), tt.status)
		assert.Equal(t, tt.serverErr, resp.IsServerError(), tt.status)
	}
}
