package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/grid"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("%w: offset cannot be negative", grid.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantBody:   "grid: invalid argument: offset cannot be negative",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: asset PJM_G404", grid.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "grid: not found: asset PJM_G404",
		},
		{
			name:       "no snapshot yet",
			err:        grid.ErrUpstreamUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "grid: upstream unavailable",
		},
		{
			name:       "corrupt data is not echoed to clients",
			err:        fmt.Errorf("%w: outage O1 ends before it starts", grid.ErrDataIntegrity),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal data error",
		},
		{
			name:       "unclassified",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := MapError(context.Background(), tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, errorBody{Error: tc.wantBody}, body)
		})
	}
}

func TestBadRequestWrapsParseFailures(t *testing.T) {
	err := badRequest(errors.New(`field "limit" is not set`))
	require.ErrorIs(t, err, grid.ErrValidation)

	status, _ := MapError(context.Background(), err)
	require.Equal(t, http.StatusBadRequest, status)
}
