package pricing

import (
	"fmt"

	"github.com/xaenox/flatprice-bot/internal/models"
)

// Column names the model was trained with.
const (
	ColumnFloorRatio    = "monster"
	ColumnArea          = "Area"
	ColumnApartmentType = "ApartmentType"
	ColumnCurrentFloor  = "CurrentFloor"
	ColumnTotalFloors   = "TotalFloors"
	ColumnKeyRate       = "KeyRate"

	DistrictFeature = "DistrictDesc"
)

// BaseColumns lists the numeric columns built before one-hot encoding.
func BaseColumns() []string {
	return []string{
		ColumnFloorRatio,
		ColumnArea,
		ColumnApartmentType,
		ColumnCurrentFloor,
		ColumnTotalFloors,
		ColumnKeyRate,
	}
}

// FeatureRecord is one row of named numeric features in model order.
type FeatureRecord struct {
	columns []string
	values  []float64
}

func (r FeatureRecord) Len() int { return len(r.values) }

func (r FeatureRecord) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

func (r FeatureRecord) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

func (r FeatureRecord) Value(column string) (float64, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return 0, false
}

// Builder turns validated apartment attributes into the feature row the
// artifact's model expects.
type Builder struct {
	artifact *Artifact
	keyRate  float64
}

func NewBuilder(artifact *Artifact, keyRate float64) *Builder {
	return &Builder{artifact: artifact, keyRate: keyRate}
}

// FloorRatio is the floor position indicator, current/total in percent.
func FloorRatio(currentFloor, totalFloors int) float64 {
	return float64(currentFloor) / float64(totalFloors) * 100
}

func (b *Builder) Build(apt models.Apartment) (FeatureRecord, error) {
	label, ok := b.artifact.Districts[apt.DistrictCode]
	if !ok {
		return FeatureRecord{}, fmt.Errorf("%w: district code %d has no model label", ErrSchema, apt.DistrictCode)
	}
	if apt.TotalFloors <= 0 {
		return FeatureRecord{}, fmt.Errorf("%w: total floors %d", ErrSchema, apt.TotalFloors)
	}

	onehot, err := b.artifact.Encoder.Transform(label)
	if err != nil {
		return FeatureRecord{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	built := map[string]float64{
		ColumnFloorRatio:    FloorRatio(apt.CurrentFloor, apt.TotalFloors),
		ColumnArea:          apt.Area,
		ColumnApartmentType: float64(apt.ApartmentTypeCode),
		ColumnCurrentFloor:  float64(apt.CurrentFloor),
		ColumnTotalFloors:   float64(apt.TotalFloors),
		ColumnKeyRate:       b.keyRate,
	}
	for i, name := range b.artifact.Encoder.FeatureNamesOut() {
		built[name] = onehot[i]
	}

	order := b.artifact.FeaturesOrder
	rec := FeatureRecord{
		columns: make([]string, len(order)),
		values:  make([]float64, len(order)),
	}
	for i, col := range order {
		v, ok := built[col]
		if !ok {
			return FeatureRecord{}, fmt.Errorf("%w: column %q is not built", ErrSchema, col)
		}
		rec.columns[i] = col
		rec.values[i] = v
	}
	return rec, nil
}
