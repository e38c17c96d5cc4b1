// Package javaparse indexes Java method declarations with tree-sitter and
// derives static per-method features from the syntax tree.
package javaparse

import (
	"errors"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

var javaLanguage = tree_sitter.NewLanguage(java.Language())

var (
	// ErrNoTree is returned when tree-sitter produces no syntax tree at all.
	ErrNoTree = errors.New("java source could not be parsed")

	// ErrSyntax is returned when the tree contains error or missing nodes.
	ErrSyntax = errors.New("java source has syntax errors")
)

// Parser implements contract.MethodParser. It keeps no state between calls,
// so one value may be shared by concurrent workers.
type Parser struct{}

var _ contract.MethodParser = &Parser{} // Compile-time check

// NewParser creates a Java method parser.
func NewParser() *Parser {
	return &Parser{}
}

// Index returns every method declaration of the compilation unit in source order.
// Source with syntax errors yields no methods and ErrSyntax.
func (p *Parser) Index(src []byte) ([]schema.MethodDecl, error) {
	var methods []schema.MethodDecl
	err := withTree(src, func(root *tree_sitter.Node) {
		walk(root, func(n *tree_sitter.Node) {
			if n.Kind() == "method_declaration" {
				methods = append(methods, declOf(n, src))
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return methods, nil
}

// withTree parses src with a fresh parser and hands the root node to fn.
// fn is not called when the tree holds syntax errors.
func withTree(src []byte, fn func(root *tree_sitter.Node)) error {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(javaLanguage); err != nil {
		return err
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return ErrNoTree
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return ErrNoTree
	}
	if root.HasError() {
		return ErrSyntax
	}
	fn(root)
	return nil
}

// walk visits n and all of its descendants in document order.
func walk(n *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	visit(n)
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			walk(child, visit)
		}
	}
}

func declOf(n *tree_sitter.Node, src []byte) schema.MethodDecl {
	name := text(n.ChildByFieldName("name"), src)
	returnType := typeText(n.ChildByFieldName("type"), src)
	if dims := n.ChildByFieldName("dimensions"); dims != nil {
		returnType += compact(text(dims, src))
	}
	params := paramTypes(n.ChildByFieldName("parameters"), src)

	decl := schema.MethodDecl{
		Name:       name,
		ReturnType: returnType,
		ParamTypes: params,
		Signature:  Signature(returnType, name, params),
		Begin:      int(n.StartPosition().Row) + 1,
		End:        int(n.EndPosition().Row) + 1,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		decl.Body = text(body, src)
	}
	return decl
}

// Signature renders "returnType name(T1, T2)".
func Signature(returnType, name string, paramTypes []string) string {
	return returnType + " " + name + "(" + strings.Join(paramTypes, ", ") + ")"
}

func paramTypes(params *tree_sitter.Node, src []byte) []string {
	types := []string{}
	if params == nil {
		return types
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		switch param.Kind() {
		case "formal_parameter":
			t := typeText(param.ChildByFieldName("type"), src)
			if dims := param.ChildByFieldName("dimensions"); dims != nil {
				t += compact(text(dims, src))
			}
			types = append(types, t)
		case "spread_parameter":
			types = append(types, spreadType(param, src)+"...")
		}
	}
	return types
}

// spreadType returns the element type of a varargs parameter.
func spreadType(param *tree_sitter.Node, src []byte) string {
	for i := uint(0); i < param.NamedChildCount(); i++ {
		child := param.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "modifiers", "variable_declarator":
			continue
		}
		return typeText(child, src)
	}
	return ""
}

func typeText(n *tree_sitter.Node, src []byte) string {
	return strings.Join(strings.Fields(text(n, src)), " ")
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func text(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}
