package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
)

var (
	errRatingRange       = errors.New("rating must be between 1 and 5")
	errNegativeQuantity  = errors.New("quantity must not be negative")
	errInsufficientStock = errors.New("insufficient stock")
)

// storeErr maps storage sentinels onto API errors and wraps anything else with op.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, store.ErrInvariant):
		return apierr.New(http.StatusBadRequest, "invariant_violation", err)
	case errors.Is(err, store.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...any) error {
	return apierr.BadRequest("invalid_request", format, args...)
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apierr.New(http.StatusBadRequest, "missing_session", errors.New("session required"))
	}
	return nil
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}
