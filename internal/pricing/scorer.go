package pricing

import (
	"encoding/json"
	"fmt"
	"math"
)

// Scorer is a trained regression model. Implementations are read-only after
// construction and safe for concurrent use.
type Scorer interface {
	Score(rec FeatureRecord) (float64, error)
}

const (
	modelLinear  = "linear"
	modelXGBoost = "xgboost"
)

type modelDoc struct {
	Type      string             `json:"type"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
	BaseScore float64            `json:"base_score"`
	Trees     []treeNodeDoc      `json:"trees"`
}

// treeNodeDoc is a node of an XGBoost JSON dump (Booster.get_dump with
// dump_format="json").
type treeNodeDoc struct {
	NodeID         int           `json:"nodeid"`
	Split          string        `json:"split"`
	SplitCondition float64       `json:"split_condition"`
	Yes            int           `json:"yes"`
	No             int           `json:"no"`
	Missing        *int          `json:"missing"`
	Leaf           *float64      `json:"leaf"`
	Children       []treeNodeDoc `json:"children"`
}

func parseScorer(raw json.RawMessage, columns []string) (Scorer, error) {
	var doc modelDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	switch doc.Type {
	case modelLinear:
		return newLinearModel(doc.Intercept, doc.Weights, index, len(columns))
	case modelXGBoost:
		return newTreeEnsemble(doc.BaseScore, doc.Trees, index, len(columns))
	default:
		return nil, fmt.Errorf("unsupported model type %q", doc.Type)
	}
}

// LinearModel scores intercept + Σ weight·value.
type LinearModel struct {
	intercept float64
	weights   []float64
}

func newLinearModel(intercept float64, weights map[string]float64, index map[string]int, width int) (*LinearModel, error) {
	m := &LinearModel{intercept: intercept, weights: make([]float64, width)}
	for name, w := range weights {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("weight for unknown column %q", name)
		}
		m.weights[i] = w
	}
	return m, nil
}

func (m *LinearModel) Score(rec FeatureRecord) (float64, error) {
	if rec.Len() != len(m.weights) {
		return 0, fmt.Errorf("%w: record has %d columns, model expects %d", ErrScoring, rec.Len(), len(m.weights))
	}
	sum := m.intercept
	for i, w := range m.weights {
		sum += w * rec.values[i]
	}
	return sum, nil
}

// treeNode keeps leaf values and thresholds in float32, the precision XGBoost
// trains and predicts with.
type treeNode struct {
	leaf      bool
	value     float32
	feature   int
	threshold float32
	yes       int
	no        int
	missing   int
}

type tree struct {
	root  int
	nodes map[int]treeNode
}

// TreeEnsemble is a gradient boosted regression forest: base score plus the
// sum of one leaf per tree.
type TreeEnsemble struct {
	baseScore float32
	width     int
	trees     []tree
}

func newTreeEnsemble(baseScore float64, docs []treeNodeDoc, index map[string]int, width int) (*TreeEnsemble, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	e := &TreeEnsemble{baseScore: float32(baseScore), width: width, trees: make([]tree, 0, len(docs))}
	for i, doc := range docs {
		t := tree{root: doc.NodeID, nodes: make(map[int]treeNode)}
		if err := t.add(doc, index); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for id, n := range t.nodes {
			if n.leaf {
				continue
			}
			for _, child := range []int{n.yes, n.no, n.missing} {
				if _, ok := t.nodes[child]; !ok {
					return nil, fmt.Errorf("tree %d: node %d points to missing node %d", i, id, child)
				}
			}
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

func (t *tree) add(doc treeNodeDoc, index map[string]int) error {
	if _, dup := t.nodes[doc.NodeID]; dup {
		return fmt.Errorf("duplicate node id %d", doc.NodeID)
	}
	if doc.Leaf != nil {
		t.nodes[doc.NodeID] = treeNode{leaf: true, value: float32(*doc.Leaf)}
		return nil
	}
	feature, ok := index[doc.Split]
	if !ok {
		return fmt.Errorf("node %d splits on unknown column %q", doc.NodeID, doc.Split)
	}
	missing := doc.Yes
	if doc.Missing != nil {
		missing = *doc.Missing
	}
	t.nodes[doc.NodeID] = treeNode{
		feature:   feature,
		threshold: float32(doc.SplitCondition),
		yes:       doc.Yes,
		no:        doc.No,
		missing:   missing,
	}
	for _, child := range doc.Children {
		if err := t.add(child, index); err != nil {
			return err
		}
	}
	return nil
}

// leafValue walks the tree comparing in float32, so a value that rounds up
// onto a cut point goes the same way it does in XGBoost.
func (t *tree) leafValue(values []float64) (float32, error) {
	id := t.root
	for steps := 0; steps <= len(t.nodes); steps++ {
		n := t.nodes[id]
		if n.leaf {
			return n.value, nil
		}
		v := float32(values[n.feature])
		switch {
		case math.IsNaN(float64(v)):
			id = n.missing
		case v < n.threshold:
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0, fmt.Errorf("%w: cycle in tree at node %d", ErrScoring, id)
}

func (e *TreeEnsemble) Score(rec FeatureRecord) (float64, error) {
	if rec.Len() != e.width {
		return 0, fmt.Errorf("%w: record has %d columns, model expects %d", ErrScoring, rec.Len(), e.width)
	}
	sum := e.baseScore
	for i := range e.trees {
		v, err := e.trees[i].leafValue(rec.values)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return float64(sum), nil
}
