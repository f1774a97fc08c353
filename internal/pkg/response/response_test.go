package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styledeco/internal/domain"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: not yours", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: booking x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: already assigned", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrPaymentIncomplete, http.StatusPaymentRequired, "PAYMENT_INCOMPLETE"},
		{domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestFromError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, fmt.Errorf("%w: processor timeout", domain.ErrUpstreamUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, RetryAfterSeconds, w.Header().Get("Retry-After"))

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, "Upstream unavailable: processor timeout", body.Error.Message)
}

func TestFromError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Len(t, c.Errors, 1)
}
