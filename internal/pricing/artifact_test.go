package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestArtifact(t *testing.T, name string) *Artifact {
	t.Helper()
	art, err := LoadArtifact(filepath.Join("testdata", name))
	require.NoError(t, err)
	return art
}

// mutateArtifact decodes the linear fixture, applies fn and re-encodes it.
func mutateArtifact(t *testing.T, fn func(doc map[string]any)) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "artifact.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	fn(doc)
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

func TestLoadArtifact(t *testing.T) {
	art := loadTestArtifact(t, "artifact.json")

	assert.Equal(t, "linear-test-1", art.Version)
	assert.Len(t, art.Districts, 36)
	assert.Equal(t, "Центр", art.Districts[36])
	assert.Equal(t, "о, Русский", art.Districts[2])
	assert.Len(t, art.FeaturesOrder, 6+36)
	assert.Len(t, art.Encoder.Categories(), 36)
	require.NotNil(t, art.MAPE)
	assert.InDelta(t, 0.11, *art.MAPE, 1e-9)
	assert.IsType(t, &LinearModel{}, art.Scorer)

	xgb := loadTestArtifact(t, "artifact_xgb.json")
	assert.IsType(t, &TreeEnsemble{}, xgb.Scorer)
	assert.Nil(t, xgb.MAPE)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrArtifact)
}

func TestParseArtifactRejectsBrokenDocuments(t *testing.T) {
	cases := map[string]func(doc map[string]any){
		"missing features_order": func(doc map[string]any) {
			delete(doc, "features_order")
		},
		"missing model": func(doc map[string]any) {
			delete(doc, "model")
		},
		"non numeric district code": func(doc map[string]any) {
			doc["districts"].(map[string]any)["center"] = "Центр"
		},
		"unknown model type": func(doc map[string]any) {
			doc["model"].(map[string]any)["type"] = "random_forest"
		},
		"linear without weights": func(doc map[string]any) {
			delete(doc["model"].(map[string]any), "weights")
		},
		"column not built at inference": func(doc map[string]any) {
			doc["features_order"] = append(doc["features_order"].([]any), "Balcony")
		},
		"weight for unknown column": func(doc map[string]any) {
			doc["model"].(map[string]any)["weights"].(map[string]any)["Balcony"] = 1.0
		},
		"wrong encoder feature": func(doc map[string]any) {
			doc["encoder"].(map[string]any)["feature"] = "District"
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArtifact(mutateArtifact(t, fn))
			assert.ErrorIs(t, err, ErrArtifact)
		})
	}
}

func TestParseArtifactRejectsNonJSON(t *testing.T) {
	_, err := ParseArtifact([]byte("\x80\x04pickle"))
	assert.ErrorIs(t, err, ErrArtifact)
}
