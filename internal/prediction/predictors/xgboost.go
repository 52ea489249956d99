package predictors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// treeNode mirrors one node of an XGBoost JSON tree dump
// (Booster.get_dump(dump_format="json")).
type treeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []treeNode `json:"children,omitempty"`
}

type xgboostFile struct {
	BaseScore    *float64   `json:"base_score"`
	Objective    string     `json:"objective"`
	FeatureNames []string   `json:"feature_names"`
	NumFeatures  int        `json:"num_features"`
	Trees        []treeNode `json:"trees"`
}

// flatNode is a compiled tree node; feature < 0 marks a leaf. Thresholds
// and leaves are float32 because the booster stores them that way.
type flatNode struct {
	feature   int
	threshold float32
	yes       int
	no        int
	missing   int
	leaf      float32
}

type compiledTree map[int]flatNode

// TreeEnsemble evaluates a gradient-boosted regression tree ensemble.
type TreeEnsemble struct {
	baseScore float32
	logistic  bool
	width     int
	trees     []compiledTree
}

// LoadTreeEnsemble decodes an ensemble from a JSON document of the form
// {"base_score": 0.5, "objective": "reg:squarederror", "trees": [...]}.
// Split features are "f<column>" or, when feature_names is given, a name
// from that list.
func LoadTreeEnsemble(r io.Reader) (*TreeEnsemble, error) {
	var doc xgboostFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode tree ensemble: %w", err)
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}

	width := doc.NumFeatures
	if len(doc.FeatureNames) > 0 {
		width = len(doc.FeatureNames)
	}
	if width <= 0 {
		width = defaultWidth
	}

	// XGBoost defaults base_score to 0.5 when it is not recorded.
	base := 0.5
	if doc.BaseScore != nil {
		base = *doc.BaseScore
	}

	e := &TreeEnsemble{
		baseScore: float32(base),
		logistic:  strings.HasSuffix(doc.Objective, ":logistic"),
		width:     width,
		trees:     make([]compiledTree, 0, len(doc.Trees)),
	}
	if e.logistic {
		// The margin is accumulated in logit space.
		e.baseScore = float32(math.Log(base / (1 - base)))
	}

	for i := range doc.Trees {
		t := make(compiledTree)
		if err := compileNode(&doc.Trees[i], doc.FeatureNames, width, t); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if _, ok := t[0]; !ok {
			return nil, fmt.Errorf("tree %d: missing root node 0", i)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

// LoadTreeEnsembleFile reads an ensemble from disk.
func LoadTreeEnsembleFile(path string) (*TreeEnsemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTreeEnsemble(f)
}

func compileNode(n *treeNode, names []string, width int, out compiledTree) error {
	if _, dup := out[n.NodeID]; dup {
		return fmt.Errorf("duplicate node id %d", n.NodeID)
	}
	if n.Leaf != nil {
		out[n.NodeID] = flatNode{feature: -1, leaf: float32(*n.Leaf)}
		return nil
	}

	col, err := featureIndex(n.Split, names, width)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.NodeID, err)
	}
	out[n.NodeID] = flatNode{
		feature:   col,
		threshold: float32(n.SplitCondition),
		yes:       n.Yes,
		no:        n.No,
		missing:   n.Missing,
	}
	for i := range n.Children {
		if err := compileNode(&n.Children[i], names, width, out); err != nil {
			return err
		}
	}
	return nil
}

func featureIndex(split string, names []string, width int) (int, error) {
	for i, n := range names {
		if n == split {
			return i, nil
		}
	}
	if strings.HasPrefix(split, "f") {
		if i, err := strconv.Atoi(split[1:]); err == nil && i >= 0 && i < width {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// Predict evaluates every row. Each row must have exactly as many columns as
// the model was trained with. Inputs are narrowed to float32 and the margin
// is summed in float32, matching XGBoost's DMatrix.
func (e *TreeEnsemble) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	if err := checkShape(rows, e.width); err != nil {
		return nil, err
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		margin := e.baseScore
		for j, t := range e.trees {
			leaf, err := t.eval(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", j, err)
			}
			margin += leaf
		}
		if e.logistic {
			margin = float32(1 / (1 + math.Exp(-float64(margin))))
		}
		out[i] = float64(margin)
	}
	return out, nil
}

func (t compiledTree) eval(row []float64) (float32, error) {
	id := 0
	// A well-formed tree visits each node at most once.
	for steps := 0; steps <= len(t); steps++ {
		n, ok := t[id]
		if !ok {
			return 0, fmt.Errorf("dangling reference to node %d", id)
		}
		if n.feature < 0 {
			return n.leaf, nil
		}

		x := float32(row[n.feature])
		switch {
		case math.IsNaN(float64(x)):
			id = n.missing
		case x < n.threshold:
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0, fmt.Errorf("tree does not terminate")
}
