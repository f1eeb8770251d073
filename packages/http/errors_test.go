package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMethod(t *testing.T) {
	for _, m := range SupportedMethods() {
		got, err := ResolveMethod(m)
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ResolveMethod("head")
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "Unsupported method: head")
}

func TestError_Kinds(t *testing.T) {
	cause := errors.New("no such host")
	err := fmt.Errorf("send: %w", transportError("GET", "http://x.test", cause))

	assert.Equal(t, KindTransport, KindOf(err))
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "send: no such host", err.Error())

	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
