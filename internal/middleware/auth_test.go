package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitledger/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("app-secret")

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/programs",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "Options",
			path:               "/nutrition/goals",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MissingToken",
			path:               "/progression",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "InvalidToken",
			path:               "/progression",
			method:             "GET",
			token:              "guess",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/nutrition/logs/2024-01-01/entries",
			method:             "POST",
			token:              "app-secret",
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.token != "" {
				req.Header.Add(middleware.AppTokenHeader, tc.token)
			}

			called := false
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, called)
		})
	}
}

func TestAuthMiddlewareHandler_NoSecret(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("")
	req := httptest.NewRequest(http.MethodDelete, "/progression", nil)
	rr := httptest.NewRecorder()
	authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
