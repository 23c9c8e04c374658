package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/digizeph/go-asrank/apierror"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := apierror.New(errors.New("test error"), 0)
	require.Equal(t, "test error", err.Error())

	err = apierror.New(nil, http.StatusNotFound)
	require.Equal(t, fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)), err.Error())

	err = apierror.New(nil, 0)
	require.Equal(t, "", err.Error())

	err = apierror.New(nil, 999)
	require.Equal(t, "999", err.Error())
}

func TestFromResponse(t *testing.T) {
	err := apierror.FromResponse(0, []byte(" hello world\n"))
	require.Equal(t, "hello world", err.Error())
	require.Zero(t, apierror.StatusOf(err))

	err = apierror.FromResponse(http.StatusBadRequest, []byte(" syntax error\n"))
	require.Equal(t, "400 Bad Request: syntax error", err.Error())

	ae, ok := err.(*apierror.Error)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, ae.Status())
	require.False(t, ae.Retryable())
	require.Equal(t, "syntax error", errors.Unwrap(ae).Error())

	err = apierror.FromResponse(http.StatusBadGateway, nil)
	require.Equal(t, fmt.Sprintf("%d %s", http.StatusBadGateway, http.StatusText(http.StatusBadGateway)), err.Error())

	wrapped := fmt.Errorf("query failed: %w", err)
	require.Equal(t, http.StatusBadGateway, apierror.StatusOf(wrapped))
}

func TestRetryable(t *testing.T) {
	for _, status := range []int{500, 502, 503, 504} {
		require.True(t, apierror.Retryable(status), status)
	}
	for _, status := range []int{200, 400, 404, 429, 501, 505} {
		require.False(t, apierror.Retryable(status), status)
	}
}
