package parking

import (
	"fmt"
	"strings"
)

type Vehicle struct {
	RegistrationNumber string
	Color              string
}

func NewVehicle(registrationNumber, color string) (*Vehicle, error) {
	registrationNumber = strings.TrimSpace(registrationNumber)
	color = strings.TrimSpace(color)

	if registrationNumber == "" {
		return nil, fmt.Errorf("%w: registration number is required", ErrInvalidVehicle)
	}
	if color == "" {
		return nil, fmt.Errorf("%w: color is required", ErrInvalidVehicle)
	}

	return &Vehicle{
		RegistrationNumber: registrationNumber,
		Color:              color,
	}, nil
}

// key normalizes registration numbers and colors so that every comparison
// in the lot is case-insensitive.
func key(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (v *Vehicle) registrationKey() string {
	return key(v.RegistrationNumber)
}

func (v *Vehicle) colorKey() string {
	return key(v.Color)
}
