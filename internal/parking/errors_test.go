package parking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		nil:                                         "",
		ErrInvalidCapacity:                          "invalid_capacity",
		ErrLotFull:                                  "lot_full",
		fmt.Errorf("%w: KA01", ErrDuplicateVehicle): "duplicate_vehicle",
		fmt.Errorf("%w: 10", ErrSlotOutOfRange):     "slot_out_of_range",
		ErrSlotNotOccupied:                          "slot_not_occupied",
		ErrInvalidVehicle:                           "invalid_vehicle",
		errors.New("boom"):                          "internal_error",
	}
	for err, want := range cases {
		assert.Equal(t, want, ErrorKind(err))
	}
}
