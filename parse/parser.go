// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parse

import (
	"io"
	"strconv"
	"strings"

	"github.com/mkroboth/cs8/ast"
	"github.com/pkg/errors"
	pc "github.com/prataprc/goparsec"
)

var registerNames = map[string]bool{
	"dst": true, "sc0": true, "sc1": true, "idx": true, "tmp": true,
	"sp0": true, "sp1": true, "dt0": true, "dt1": true, "dt2": true,
	"dt3": true, "dt4": true, "dt5": true, "lnk": true, "cnt": true, "bse": true,
}

// Parser reads cs8 assembly source and produces an ast.Root.
type Parser struct {
	Filename string
}

// NewParser builds a Parser that attributes Root.Filename to name.
func NewParser(name string) Parser {
	return Parser{Filename: name}
}

// Parse reads all of r and returns the resulting ast.Root.
func (p Parser) Parse(r io.Reader) (*ast.Root, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}

	root, ok := p.fromSource(content)
	if !ok {
		return nil, &SyntaxError{Filename: p.Filename}
	}

	return p.fromAST(root)
}

func (p Parser) fromSource(source []byte) (pc.Queryable, bool) {
	root, scanner := grammar.Parsewith(pProgram, pc.NewScanner(source))
	return root, root != nil && scanner.Endof()
}

func (p Parser) fromAST(root pc.Queryable) (*ast.Root, error) {
	if root.GetName() != "program" {
		return nil, &UnexpectedNodeError{Expected: "program", Got: root.GetName()}
	}

	out := &ast.Root{Filename: p.Filename}

	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "comment":
			continue
		case "label-decl":
			out.AddLine(parseLabelDecl(child))
		case "directive":
			out.AddLine(parseDirective(child, nil))
		case "instruction":
			inst, err := parseInstruction(child, nil)
			if err != nil {
				return nil, err
			}
			out.AddLine(inst)
		case "macro-def":
			m, err := parseMacroDef(child)
			if err != nil {
				return nil, err
			}
			out.Macros = append(out.Macros, m)
		default:
			return nil, &UnexpectedNodeError{Expected: "line", Got: child.GetName()}
		}
	}

	return out, nil
}

func parseLabelDecl(node pc.Queryable) ast.Label {
	name := node.GetChildren()[0].GetValue().(string)
	return ast.NewLabel(name)
}

func parseDirective(node pc.Queryable, formals map[string]bool) ast.Directive {
	children := node.GetChildren()
	name := children[1].GetValue().(string)
	params := extractOperands(children[2], formals)
	return ast.Directive{Name: name, Params: params}
}

func parseInstruction(node pc.Queryable, formals map[string]bool) (ast.Instruction, error) {
	children := node.GetChildren()
	name := children[0].GetValue().(string)
	params := extractOperands(children[1], formals)
	return ast.Instruction{Name: name, Params: params}, nil
}

func parseMacroDef(node pc.Queryable) (ast.Macro, error) {
	children := node.GetChildren()
	name := children[1].GetValue().(string)
	formalNames := extractParams(children[3])

	formals := make(map[string]bool, len(formalNames))
	for _, f := range formalNames {
		formals[f] = true
	}

	m := ast.Macro{Name: name, Params: formalNames}
	for _, line := range children[5].GetChildren() {
		switch line.GetName() {
		case "comment":
			continue
		case "label-decl":
			m.AddLine(parseLabelDecl(line))
		case "instruction":
			inst, err := parseInstruction(line, formals)
			if err != nil {
				return ast.Macro{}, err
			}
			m.AddLine(inst)
		default:
			return ast.Macro{}, &UnexpectedNodeError{Expected: "macro-line", Got: line.GetName()}
		}
	}
	return m, nil
}

// extractOperands walks an operand-list Maybe node (possibly absent)
// down to its flat list of operand tokens.
func extractOperands(listNode pc.Queryable, formals map[string]bool) []ast.Parameter {
	children := listNode.GetChildren()
	if len(children) == 0 {
		return nil
	}
	operandsNode := children[0]
	opChildren := operandsNode.GetChildren()

	params := []ast.Parameter{toParameter(opChildren[0], formals)}
	if len(opChildren) > 1 {
		for _, item := range opChildren[1].GetChildren() {
			itemChildren := item.GetChildren()
			params = append(params, toParameter(itemChildren[1], formals))
		}
	}
	return params
}

// extractParams walks a param-list Maybe node down to its flat list of
// formal parameter names.
func extractParams(listNode pc.Queryable) []string {
	children := listNode.GetChildren()
	if len(children) == 0 {
		return nil
	}
	paramsNode := children[0]
	pChildren := paramsNode.GetChildren()

	names := []string{pChildren[0].GetValue().(string)}
	if len(pChildren) > 1 {
		for _, item := range pChildren[1].GetChildren() {
			itemChildren := item.GetChildren()
			names = append(names, itemChildren[1].GetValue().(string))
		}
	}
	return names
}

func toParameter(node pc.Queryable, formals map[string]bool) ast.Parameter {
	switch node.GetName() {
	case "STRING":
		text := node.GetValue().(string)
		return ast.String{Text: strings.Trim(text, `"`)}
	case "NUMBER":
		text := node.GetValue().(string)
		v, _ := strconv.ParseInt(text, 0, 32)
		return ast.Number{Value: int(v)}
	default: // IDENT
		name := node.GetValue().(string)
		if formals != nil && formals[name] {
			return ast.ReplaceSymbol{Name: name}
		}
		if registerNames[name] {
			return ast.Register{Name: name}
		}
		return ast.Symbol{Name: name}
	}
}
