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

package macro

import (
	"testing"

	"github.com/mkroboth/cs8/ast"
)

func TestExpandSubstitutesParameters(t *testing.T) {
	root := &ast.Root{
		Macros: []ast.Macro{
			{
				Name:   "save2",
				Params: []string{"a", "b"},
				Lines: []ast.Line{
					ast.Instruction{Name: "psh0", Params: []ast.Parameter{ast.ReplaceSymbol{Name: "a"}}},
					ast.Instruction{Name: "psh0", Params: []ast.Parameter{ast.ReplaceSymbol{Name: "b"}}},
				},
			},
		},
		Lines: []ast.Line{
			ast.Label{Name: "start"},
			ast.Instruction{Name: "save2", Params: []ast.Parameter{ast.Register{Name: "r0"}, ast.Register{Name: "r1"}}},
		},
	}

	if err := Expand(root); err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}

	if len(root.Lines) != 3 {
		t.Fatalf("expected 3 lines after expansion, got %d", len(root.Lines))
	}
	first, ok := root.Lines[1].(ast.Instruction)
	if !ok || first.Name != "psh0" {
		t.Fatalf("expected expanded psh0, got %#v", root.Lines[1])
	}
	reg, ok := first.Params[0].(ast.Register)
	if !ok || reg.Name != "r0" {
		t.Fatalf("expected substituted register r0, got %#v", first.Params[0])
	}
	second := root.Lines[2].(ast.Instruction)
	reg2 := second.Params[0].(ast.Register)
	if reg2.Name != "r1" {
		t.Fatalf("expected substituted register r1, got %#v", second.Params[0])
	}
}

func TestExpandNestedMacros(t *testing.T) {
	root := &ast.Root{
		Macros: []ast.Macro{
			{
				Name:   "inner",
				Params: []string{"x"},
				Lines: []ast.Line{
					ast.Instruction{Name: "psh0", Params: []ast.Parameter{ast.ReplaceSymbol{Name: "x"}}},
				},
			},
			{
				Name:   "outer",
				Params: []string{"y"},
				Lines: []ast.Line{
					ast.Instruction{Name: "inner", Params: []ast.Parameter{ast.ReplaceSymbol{Name: "y"}}},
				},
			},
		},
		Lines: []ast.Line{
			ast.Instruction{Name: "outer", Params: []ast.Parameter{ast.Register{Name: "r2"}}},
		},
	}

	if err := Expand(root); err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(root.Lines) != 1 {
		t.Fatalf("expected 1 line after full expansion, got %d", len(root.Lines))
	}
	inst, ok := root.Lines[0].(ast.Instruction)
	if !ok || inst.Name != "psh0" {
		t.Fatalf("expected fully expanded psh0, got %#v", root.Lines[0])
	}
}

func TestExpandArityMismatch(t *testing.T) {
	root := &ast.Root{
		Macros: []ast.Macro{
			{Name: "save2", Params: []string{"a", "b"}, Lines: nil},
		},
		Lines: []ast.Line{
			ast.Instruction{Name: "save2", Params: []ast.Parameter{ast.Register{Name: "r0"}}},
		},
	}

	err := Expand(root)
	if err == nil {
		t.Fatal("expected arity mismatch error, got nil")
	}
}

func TestExpandLastDefinitionWins(t *testing.T) {
	root := &ast.Root{
		Macros: []ast.Macro{
			{Name: "m", Params: nil, Lines: []ast.Line{ast.Label{Name: "first"}}},
			{Name: "m", Params: nil, Lines: []ast.Line{ast.Label{Name: "second"}}},
		},
		Lines: []ast.Line{
			ast.Instruction{Name: "m"},
		},
	}
	if err := Expand(root); err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(root.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(root.Lines))
	}
	lbl, ok := root.Lines[0].(ast.Label)
	if !ok || lbl.Name != "second" {
		t.Fatalf("expected last definition to win, got %#v", root.Lines[0])
	}
}
