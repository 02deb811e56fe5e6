// Package validate parses and range-checks the raw values a user supplies
// during the estimation dialogue.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
)

var (
	ErrFormat     = errors.New("malformed value")
	ErrRange      = errors.New("value out of range")
	ErrUnknown    = errors.New("unknown value")
	ErrConstraint = errors.New("constraint violated")
)

const (
	FieldDistrict      = "district"
	FieldArea          = "area"
	FieldApartmentType = "apartment_type"
	FieldCurrentFloor  = "current_floor"
	FieldTotalFloors   = "total_floors"
)

// Error is a recoverable input problem. Reason is shown to the user as is.
type Error struct {
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(field string, kind error, reason string) *Error {
	return &Error{Field: field, Reason: reason, Err: kind}
}

// District resolves an exact district label to its code.
func District(d *catalog.Dictionary, input string) (int, error) {
	code, ok := d.Code(input)
	if !ok {
		return 0, fail(FieldDistrict, ErrUnknown, "❌ Неверный выбор района. Попробуйте ещё раз.")
	}
	return code, nil
}

// Area parses a strictly positive area. Both "54.5" and "54,5" are accepted.
func Area(input string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fail(FieldArea, ErrFormat, "⚠️ Введите положительное число для площади.")
	}
	if v <= 0 {
		return 0, fail(FieldArea, ErrRange, "⚠️ Введите положительное число для площади.")
	}
	return v, nil
}

// ApartmentType resolves an exact apartment-type label to its code.
func ApartmentType(d *catalog.Dictionary, input string) (int, error) {
	code, ok := d.Code(input)
	if !ok {
		return 0, fail(FieldApartmentType, ErrUnknown, "❌ Неверный тип. Попробуйте снова.")
	}
	return code, nil
}

// CurrentFloor parses the floor the apartment is on.
func CurrentFloor(input string) (int, error) {
	v, err := positiveInt(input)
	if err != nil {
		return 0, fail(FieldCurrentFloor, err, "⚠️ Введите положительное целое число для этажа.")
	}
	return v, nil
}

// TotalFloors parses the building height; it may not be below currentFloor.
func TotalFloors(input string, currentFloor int) (int, error) {
	v, err := positiveInt(input)
	if err != nil {
		return 0, fail(FieldTotalFloors, err, "⚠️ Введите положительное целое число для этажности.")
	}
	if v < currentFloor {
		return 0, fail(FieldTotalFloors, ErrConstraint, "⚠️ Общее количество этажей должно быть больше или равно текущему.")
	}
	return v, nil
}

func positiveInt(input string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrFormat
	}
	if v <= 0 {
		return 0, ErrRange
	}
	return v, nil
}

// Apartment checks a record that arrived already in numeric form, e.g. over
// the HTTP API.
func Apartment(apt models.Apartment, districts, types *catalog.Dictionary) error {
	if _, ok := districts.Label(apt.DistrictCode); !ok {
		return fail(FieldDistrict, ErrUnknown, fmt.Sprintf("unknown district code %d", apt.DistrictCode))
	}
	if _, ok := types.Label(apt.ApartmentTypeCode); !ok {
		return fail(FieldApartmentType, ErrUnknown, fmt.Sprintf("unknown apartment type code %d", apt.ApartmentTypeCode))
	}
	if math.IsNaN(apt.Area) || math.IsInf(apt.Area, 0) || apt.Area <= 0 {
		return fail(FieldArea, ErrRange, "area must be a positive number")
	}
	if apt.CurrentFloor <= 0 {
		return fail(FieldCurrentFloor, ErrRange, "current_floor must be a positive integer")
	}
	if apt.TotalFloors <= 0 {
		return fail(FieldTotalFloors, ErrRange, "total_floors must be a positive integer")
	}
	if apt.TotalFloors < apt.CurrentFloor {
		return fail(FieldTotalFloors, ErrConstraint, "total_floors must be greater than or equal to current_floor")
	}
	return nil
}
