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

package asmtree

import (
	"testing"

	"github.com/mkroboth/cs8/ast"
)

func TestTransformSingleInstruction(t *testing.T) {
	root := &ast.Root{
		Lines: []ast.Line{
			ast.Directive{Name: "section", Params: []ast.Parameter{ast.Symbol{Name: "flat"}, ast.Number{Value: 0}}},
			ast.Instruction{Name: "limm", Params: []ast.Parameter{ast.Number{Value: 0x1234}}},
		},
	}
	tree, err := Transform(root)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	inst, ok := tree.Nodes[1].(LoadImmediate)
	if !ok {
		t.Fatalf("expected LoadImmediate, got %#v", tree.Nodes[1])
	}
	got := inst.Emit()
	want := []byte{0x00, 0x12, 0x34}
	if !bytesEqual(got, want) {
		t.Fatalf("Emit() = % x, want % x", got, want)
	}
	if len(tree.Labels) != 0 {
		t.Fatalf("expected empty label map, got %v", tree.Labels)
	}
}

func TestTransformLabelBackpatch(t *testing.T) {
	root := &ast.Root{
		Lines: []ast.Line{
			ast.Directive{Name: "section", Params: []ast.Parameter{ast.Symbol{Name: "flat"}, ast.Number{Value: 0}}},
			ast.Label{Name: "target"},
			ast.Instruction{Name: "limm", Params: []ast.Parameter{ast.Symbol{Name: "target"}}},
		},
	}
	tree, err := Transform(root)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	pos, ok := tree.Labels["target"]
	if !ok || pos.Offset != 0 || pos.Section != "flat" {
		t.Fatalf("expected target at offset 0 in flat, got %#v", pos)
	}
	inst := tree.Nodes[2].(LoadImmediate)
	got := inst.Emit()
	want := []byte{0x00, 0x00, 0x00}
	if !bytesEqual(got, want) {
		t.Fatalf("Emit() = % x, want % x", got, want)
	}
}

func TestTransformTwoSectionLayout(t *testing.T) {
	root := &ast.Root{
		Lines: []ast.Line{
			ast.Directive{Name: "section", Params: []ast.Parameter{ast.Symbol{Name: "code"}, ast.Number{Value: 0x100}}},
			ast.Directive{Name: "entrypoint", Params: []ast.Parameter{ast.Number{Value: 0x100}}},
			ast.Label{Name: "start"},
			ast.Instruction{Name: "jmp"},
			ast.Directive{Name: "section", Params: []ast.Parameter{ast.Symbol{Name: "data"}, ast.Number{Value: 0x200}}},
			ast.Directive{Name: "byte", Params: []ast.Parameter{ast.Number{Value: 42}}},
		},
	}
	tree, err := Transform(root)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	pos := tree.Labels["start"]
	if pos.Offset != 0x100 || pos.Section != "code" {
		t.Fatalf("expected start at code:0x100, got %#v", pos)
	}
}

func TestTransformUnknownInstruction(t *testing.T) {
	root := &ast.Root{Lines: []ast.Line{ast.Instruction{Name: "bogus"}}}
	if _, err := Transform(root); err == nil {
		t.Fatal("expected error for unknown instruction")
	}
}

func TestTransformUnknownSymbol(t *testing.T) {
	root := &ast.Root{
		Lines: []ast.Line{
			ast.Instruction{Name: "limm", Params: []ast.Parameter{ast.Symbol{Name: "nope"}}},
		},
	}
	if _, err := Transform(root); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestTransformArityMismatch(t *testing.T) {
	root := &ast.Root{
		Lines: []ast.Line{
			ast.Instruction{Name: "tr", Params: []ast.Parameter{ast.Register{Name: "dst"}}},
		},
	}
	if _, err := Transform(root); err == nil {
		t.Fatal("expected error for arity mismatch")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
