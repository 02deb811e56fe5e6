package pricing

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const DefaultDeviationFraction = 0.08

// Quote is a formatted price estimate.
type Quote struct {
	Price     int64
	Deviation int64
}

func (q Quote) PriceText() string     { return groupThousands(q.Price) }
func (q Quote) DeviationText() string { return groupThousands(q.Deviation) }

func groupThousands(v int64) string {
	return strings.ReplaceAll(humanize.Comma(v), ",", " ")
}

// Formatter rounds a raw estimate and derives the deviation band.
type Formatter struct {
	basisPoints int64
}

func NewFormatter(fraction float64) Formatter {
	if fraction <= 0 {
		fraction = DefaultDeviationFraction
	}
	return Formatter{basisPoints: int64(math.Round(fraction * 10000))}
}

func (f Formatter) Format(raw float64) Quote {
	price := int64(math.Round(raw))
	return Quote{
		Price:     price,
		Deviation: price * f.basisPoints / 10000,
	}
}
