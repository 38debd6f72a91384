package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/grid"
)

type errorBody struct {
	Error string `json:"error"`
}

// badRequest tags request binding failures so MapError renders them as 400s.
func badRequest(err error) error {
	return fmt.Errorf("%w: %s", grid.ErrValidation, err.Error())
}

// MapError translates domain errors into HTTP statuses. Wire it into the
// rest server with httpx.SetErrorHandlerCtx before Start.
func MapError(ctx context.Context, err error) (int, any) {
	switch {
	case errors.Is(err, grid.ErrValidation):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	case errors.Is(err, grid.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}
	case errors.Is(err, grid.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, errorBody{Error: err.Error()}
	case errors.Is(err, grid.ErrDataIntegrity):
		logx.WithContext(ctx).Errorf("data integrity failure: %v", err)
		return http.StatusInternalServerError, errorBody{Error: "internal data error"}
	default:
		logx.WithContext(ctx).Errorf("unhandled error: %v", err)
		return http.StatusInternalServerError, errorBody{Error: "internal server error"}
	}
}
