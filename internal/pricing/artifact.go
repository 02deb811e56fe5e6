package pricing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed artifact.schema.json
var artifactSchema string

// Artifact is the trained model bundle: scoring function, district encoder,
// district code → training label table and the canonical column order.
// It is never modified after loading.
type Artifact struct {
	Version       string
	FeaturesOrder []string
	Districts     map[int]string
	Encoder       *OneHotEncoder
	Scorer        Scorer
	MAPE          *float64
}

type artifactDoc struct {
	Version       string         `json:"version"`
	FeaturesOrder []string       `json:"features_order"`
	Districts     map[int]string `json:"districts"`
	Encoder       struct {
		Feature       string        `json:"feature"`
		Categories    []string      `json:"categories"`
		HandleUnknown UnknownPolicy `json:"handle_unknown"`
	} `json:"encoder"`
	Model   json.RawMessage `json:"model"`
	Metrics struct {
		MAPE *float64 `json:"mape"`
	} `json:"metrics"`
}

// LoadArtifact reads and checks the artifact at path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifact, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact decodes an artifact and verifies that every member is present
// and that the members agree with each other.
func ParseArtifact(data []byte) (*Artifact, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifact, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrArtifact, strings.Join(msgs, "; "))
	}

	var doc artifactDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifact, err)
	}

	if doc.Encoder.Feature != DistrictFeature {
		return nil, fmt.Errorf("%w: encoder feature %q, want %q", ErrArtifact, doc.Encoder.Feature, DistrictFeature)
	}
	enc, err := NewOneHotEncoder(doc.Encoder.Feature, doc.Encoder.Categories, doc.Encoder.HandleUnknown)
	if err != nil {
		return nil, fmt.Errorf("%w: encoder: %v", ErrArtifact, err)
	}

	producible := make(map[string]bool)
	for _, c := range BaseColumns() {
		producible[c] = true
	}
	for _, c := range enc.FeatureNamesOut() {
		producible[c] = true
	}
	for _, c := range doc.FeaturesOrder {
		if !producible[c] {
			return nil, fmt.Errorf("%w: column %q cannot be built at inference time", ErrArtifact, c)
		}
	}

	scorer, err := parseScorer(doc.Model, doc.FeaturesOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: model: %v", ErrArtifact, err)
	}

	return &Artifact{
		Version:       doc.Version,
		FeaturesOrder: doc.FeaturesOrder,
		Districts:     doc.Districts,
		Encoder:       enc,
		Scorer:        scorer,
		MAPE:          doc.Metrics.MAPE,
	}, nil
}
