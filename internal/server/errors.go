package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/base-14/examples/go/parking-allocator/internal/logging"
	"github.com/base-14/examples/go/parking-allocator/internal/parking"
	"github.com/base-14/examples/go/parking-allocator/internal/session"
)

const (
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeNotCreated           = "parking_lot_not_created"
	codeAlreadyCreated       = "parking_lot_already_created"
	codeVehicleNotFound      = "vehicle_not_found"
	codeInternalError        = "internal_error"
)

// writeLotError maps allocator and session failures onto HTTP statuses.
func writeLotError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotCreated):
		WriteError(ctx, w, http.StatusBadRequest, codeNotCreated, "Parking lot not created. Create parking lot first")
	case errors.Is(err, session.ErrAlreadyCreated):
		WriteError(ctx, w, http.StatusConflict, codeAlreadyCreated, "Parking lot already created")
	case errors.Is(err, parking.ErrInvalidCapacity),
		errors.Is(err, parking.ErrInvalidVehicle):
		WriteError(ctx, w, http.StatusBadRequest, parking.ErrorKind(err), err.Error())
	case errors.Is(err, parking.ErrSlotOutOfRange):
		WriteError(ctx, w, http.StatusNotFound, parking.ErrorKind(err), err.Error())
	case errors.Is(err, parking.ErrLotFull),
		errors.Is(err, parking.ErrDuplicateVehicle),
		errors.Is(err, parking.ErrSlotNotOccupied):
		WriteError(ctx, w, http.StatusConflict, parking.ErrorKind(err), err.Error())
	default:
		logging.Error(ctx, "unexpected error", "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, codeInternalError, "Internal server error")
	}
}
