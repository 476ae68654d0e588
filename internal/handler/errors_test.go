package handler

import (
	"net/http"
	"testing"

	"github.com/hitoshi/dashapi/internal/model"
)

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *model.APIError
		want int
	}{
		{model.NewBadRequestError("x"), http.StatusBadRequest},
		{model.NewValidationError("x"), http.StatusBadRequest},
		{model.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{model.NewUnauthorizedError(), http.StatusUnauthorized},
		{model.NewForbiddenError(), http.StatusForbidden},
		{model.NewCORSViolationError(), http.StatusForbidden},
		{model.NewNotFoundError("/x"), http.StatusNotFound},
		{model.NewMethodNotAllowedError("PUT"), http.StatusMethodNotAllowed},
		{model.NewStoreError("x"), http.StatusInternalServerError},
		{model.NewInternalError(), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Code, func(t *testing.T) {
			if got := mapAPIErrorToHTTPStatus(tc.err); got != tc.want {
				t.Errorf("mapAPIErrorToHTTPStatus(%s) = %d, want %d", tc.err.Code, got, tc.want)
			}
		})
	}
}
