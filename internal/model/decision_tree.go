package model

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a flattened binary tree. Rows with
// x[FeatureIdx] <= Threshold go to LeftChild.
type TreeNode struct {
	FeatureIdx int     `yaml:"feature_idx"`
	Threshold  float64 `yaml:"threshold"`
	LeftChild  int     `yaml:"left_child"`
	RightChild int     `yaml:"right_child"`
	ClassLabel float64 `yaml:"class_label"`
	IsLeaf     bool    `yaml:"is_leaf"`
}

type DecisionTree struct {
	nodes    []TreeNode
	features int
}

func newDecisionTree(a Artifact) (*DecisionTree, error) {
	if len(a.Nodes) == 0 {
		return nil, errors.New("decision tree has no nodes")
	}

	for i, n := range a.Nodes {
		if n.IsLeaf {
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= a.NFeatures {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, n.FeatureIdx)
		}
		// Children must point forward so traversal always terminates.
		if n.LeftChild <= i || n.LeftChild >= len(a.Nodes) || n.RightChild <= i || n.RightChild >= len(a.Nodes) {
			return nil, fmt.Errorf("node %d: invalid children %d/%d", i, n.LeftChild, n.RightChild)
		}
	}

	return &DecisionTree{
		nodes:    append([]TreeNode(nil), a.Nodes...),
		features: a.NFeatures,
	}, nil
}

func (dt *DecisionTree) Features() int {
	return dt.features
}

func (dt *DecisionTree) Predict(rows [][]float64) ([]float64, error) {
	if err := checkRows(rows, dt.features); err != nil {
		return nil, err
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = dt.classify(row)
	}
	return out, nil
}

func (dt *DecisionTree) classify(row []float64) float64 {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel
		}
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
