package javaparse

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/kuro1999/isw2-dataset/schema"
)

// decisionKinds are the syntax nodes counted as decision points.
var decisionKinds = map[string]struct{}{
	"if_statement":           {},
	"for_statement":          {},
	"enhanced_for_statement": {},
	"while_statement":        {},
	"do_statement":           {},
	"switch_label":           {},
}

// nestingKinds are the constructs that open a nesting level.
var nestingKinds = map[string]struct{}{
	"if_statement":           {},
	"for_statement":          {},
	"enhanced_for_statement": {},
	"while_statement":        {},
	"do_statement":           {},
	"switch_expression":      {},
	"switch_statement":       {},
}

// Features returns the static metrics of every method, keeping only the first
// method of each signature.
func (p *Parser) Features(src []byte) ([]schema.MethodFeatures, error) {
	var features []schema.MethodFeatures
	seen := map[string]struct{}{}
	err := withTree(src, func(root *tree_sitter.Node) {
		walk(root, func(n *tree_sitter.Node) {
			if n.Kind() != "method_declaration" {
				return
			}
			decl := declOf(n, src)
			if _, dup := seen[decl.Signature]; dup {
				return
			}
			seen[decl.Signature] = struct{}{}
			features = append(features, featuresOf(n, decl))
		})
	})
	if err != nil {
		return nil, err
	}
	return features, nil
}

func featuresOf(n *tree_sitter.Node, decl schema.MethodDecl) schema.MethodFeatures {
	f := schema.MethodFeatures{
		Signature:      decl.Signature,
		LOC:            decl.End - decl.Begin + 1,
		ParameterCount: len(decl.ParamTypes),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		f.DecisionPoints = countDecisions(body)
		f.NestingDepth = maxNesting(body, 0)
	}
	f.CyclomaticComplexity = f.DecisionPoints + 1
	f.CognitiveComplexity = f.DecisionPoints
	return f
}

func countDecisions(n *tree_sitter.Node) int {
	count := 0
	walk(n, func(c *tree_sitter.Node) {
		if _, ok := decisionKinds[c.Kind()]; ok {
			count++
		}
	})
	return count
}

func maxNesting(n *tree_sitter.Node, depth int) int {
	if _, ok := nestingKinds[n.Kind()]; ok {
		depth++
	}
	deepest := depth
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if d := maxNesting(child, depth); d > deepest {
			deepest = d
		}
	}
	return deepest
}
