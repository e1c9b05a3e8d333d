package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataForMapsTaxonomyToStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:          http.StatusNotFound,
		CodeInvalidCredential: http.StatusBadRequest,
		CodeValidation:        http.StatusBadRequest,
		CodeInvalidArgument:   http.StatusBadRequest,
		CodeUnauthenticated:   http.StatusUnauthorized,
		CodeConflict:          http.StatusConflict,
		CodeUpstream:          http.StatusInternalServerError,
		Code("SOMETHING_ELSE"): http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, MetadataFor(code).HTTPStatus, code)
	}
}

func TestAsFindsWrappedError(t *testing.T) {
	base := NotFound("user not found")
	wrapped := fmt.Errorf("loading profile: %w", base)

	got := As(wrapped)
	assert.Same(t, base, got)
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeConflict))
}

func TestCodeOfUnclassifiedIsUpstream(t *testing.T) {
	assert.Equal(t, CodeUpstream, CodeOf(errors.New("connection refused")))
	assert.Nil(t, As(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Upstream(cause, "query failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_FAILURE")
	assert.Contains(t, err.Error(), "dial tcp")
}

func TestWithDetails(t *testing.T) {
	err := Validation("validation failed").WithDetails(map[string]string{"email": "is required"})
	assert.Equal(t, map[string]string{"email": "is required"}, err.Details())

	var nilErr *Error
	assert.Nil(t, nilErr.WithDetails("x"))
	assert.Equal(t, CodeUpstream, nilErr.Code())
}
