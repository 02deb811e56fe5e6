package validate

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
)

func TestDistrict(t *testing.T) {
	code, err := District(catalog.Districts(), "Центр 🏙️")
	require.NoError(t, err)
	assert.Equal(t, 36, code)

	_, err = District(catalog.Districts(), "Центр")
	assert.ErrorIs(t, err, ErrUnknown)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldDistrict, verr.Field)
	assert.NotEmpty(t, verr.Reason)
}

func TestAreaDecimalComma(t *testing.T) {
	for _, pair := range [][2]string{{"54,5", "54.5"}, {"65", "65.0"}, {" 0,75 ", "0.75"}} {
		comma, err := Area(pair[0])
		require.NoError(t, err, pair[0])
		point, err := Area(pair[1])
		require.NoError(t, err, pair[1])
		assert.Equal(t, point, comma)
	}
}

func TestAreaRejects(t *testing.T) {
	cases := map[string]error{
		"":       ErrFormat,
		"abc":    ErrFormat,
		"NaN":    ErrFormat,
		"inf":    ErrFormat,
		"1,2,3":  ErrFormat,
		"0":      ErrRange,
		"-12,5":  ErrRange,
		"-0.001": ErrRange,
	}
	for in, want := range cases {
		_, err := Area(in)
		assert.ErrorIs(t, err, want, in)
	}
}

func TestApartmentType(t *testing.T) {
	code, err := ApartmentType(catalog.ApartmentTypes(), "🏢 Студия")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, err = ApartmentType(catalog.ApartmentTypes(), "студия")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestCurrentFloor(t *testing.T) {
	v, err := CurrentFloor(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = CurrentFloor("5.5")
	assert.ErrorIs(t, err, ErrFormat)
	_, err = CurrentFloor("0")
	assert.ErrorIs(t, err, ErrRange)
	_, err = CurrentFloor("-3")
	assert.ErrorIs(t, err, ErrRange)
}

func TestTotalFloors(t *testing.T) {
	v, err := TotalFloors("10", 5)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = TotalFloors("5", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = TotalFloors("3", 7)
	assert.ErrorIs(t, err, ErrConstraint)

	_, err = TotalFloors("x", 1)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = TotalFloors("0", 1)
	assert.ErrorIs(t, err, ErrRange)
}

func TestTotalFloorsBelowCurrentAlwaysRejected(t *testing.T) {
	for cf := 2; cf <= 30; cf++ {
		for tf := 1; tf < cf; tf++ {
			_, err := TotalFloors(strconv.Itoa(tf), cf)
			assert.ErrorIs(t, err, ErrConstraint)
		}
	}
}

func TestApartment(t *testing.T) {
	ok := models.Apartment{DistrictCode: 36, ApartmentTypeCode: 2, Area: 65, CurrentFloor: 5, TotalFloors: 10}
	require.NoError(t, Apartment(ok, catalog.Districts(), catalog.ApartmentTypes()))

	bad := ok
	bad.DistrictCode = 99
	assert.ErrorIs(t, Apartment(bad, catalog.Districts(), catalog.ApartmentTypes()), ErrUnknown)

	bad = ok
	bad.ApartmentTypeCode = 7
	assert.ErrorIs(t, Apartment(bad, catalog.Districts(), catalog.ApartmentTypes()), ErrUnknown)

	bad = ok
	bad.Area = 0
	assert.ErrorIs(t, Apartment(bad, catalog.Districts(), catalog.ApartmentTypes()), ErrRange)

	bad = ok
	bad.CurrentFloor, bad.TotalFloors = 7, 3
	assert.ErrorIs(t, Apartment(bad, catalog.Districts(), catalog.ApartmentTypes()), ErrConstraint)
}
