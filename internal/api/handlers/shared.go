// Package handlers contains the HTTP handlers of the API. Handlers parse and
// validate requests, call one service and translate errors to status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
)

// maxBodyBytes bounds request bodies; the largest valid request is a
// comparison of five scenarios of five items each.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields are rejected
// so that typos in optional fields are not silently ignored.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is required")
		}
		return req, err
	}
	return req, nil
}

// respondServiceError maps a service error onto a status code. message is
// used for errors that have no more specific mapping.
//
//   - ValidationError: 400 with the failing fields as details
//   - data gap: 422
//   - unknown ETF or symbol: 404
//   - price provider failure: 502
//   - timeout: 504
//   - anything else: 500
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var (
		vErr  *apperrors.ValidationError
		scErr *apperrors.ScenarioError
	)

	switch {
	case errors.As(err, &vErr):
		fields := vErr.Fields
		if errors.As(err, &scErr) {
			fields = make(map[string]string, len(vErr.Fields))
			for k, v := range vErr.Fields {
				fields[fmt.Sprintf("scenarios[%d].%s", scErr.Index, k)] = v
			}
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", fields)
	case errors.Is(err, apperrors.ErrDataGap):
		response.RespondError(w, http.StatusUnprocessableEntity, "insufficient price data", err.Error())
	case errors.Is(err, apperrors.ErrETFNotFound), errors.Is(err, apperrors.ErrSymbolNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrETFNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPriceProviderUnavailable):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrPriceProviderUnavailable.Error(), err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		response.RespondError(w, http.StatusGatewayTimeout, "request timed out", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}

// respondValidationError writes a 400 for an input error raised in the
// handler itself.
func respondValidationError(w http.ResponseWriter, err error) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

func upperTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
