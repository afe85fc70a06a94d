package parking

import "errors"

var (
	ErrInvalidCapacity  = errors.New("invalid capacity")
	ErrLotFull          = errors.New("parking lot is full")
	ErrDuplicateVehicle = errors.New("vehicle already parked")
	ErrSlotOutOfRange   = errors.New("slot number out of range")
	ErrSlotNotOccupied  = errors.New("slot is not occupied")
	ErrInvalidVehicle   = errors.New("invalid vehicle")
)

// ErrorKind names the failure class of err for metrics labels and API error
// codes. Unknown errors map to "internal_error".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCapacity):
		return "invalid_capacity"
	case errors.Is(err, ErrLotFull):
		return "lot_full"
	case errors.Is(err, ErrDuplicateVehicle):
		return "duplicate_vehicle"
	case errors.Is(err, ErrSlotOutOfRange):
		return "slot_out_of_range"
	case errors.Is(err, ErrSlotNotOccupied):
		return "slot_not_occupied"
	case errors.Is(err, ErrInvalidVehicle):
		return "invalid_vehicle"
	default:
		return "internal_error"
	}
}
