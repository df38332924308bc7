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
	"strings"
	"testing"

	"github.com/mkroboth/cs8/ast"
)

func TestParseSingleInstruction(t *testing.T) {
	src := ".section flat, 0\nlimm 0x1234\n"
	root, err := NewParser("test.s").Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(root.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(root.Lines))
	}
	inst, ok := root.Lines[1].(ast.Instruction)
	if !ok || inst.Name != "limm" {
		t.Fatalf("expected limm instruction, got %#v", root.Lines[1])
	}
	num, ok := inst.Params[0].(ast.Number)
	if !ok || num.Value != 0x1234 {
		t.Fatalf("expected number 0x1234, got %#v", inst.Params[0])
	}
}

func TestParseLabelAndComment(t *testing.T) {
	src := "; entry point\nstart:\njmp\n"
	root, err := NewParser("test.s").Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(root.Lines) != 2 {
		t.Fatalf("expected 2 lines (comment dropped), got %d", len(root.Lines))
	}
	lbl, ok := root.Lines[0].(ast.Label)
	if !ok || lbl.Name != "start" {
		t.Fatalf("expected label 'start', got %#v", root.Lines[0])
	}
}

func TestParseMacroDef(t *testing.T) {
	src := ".macro save2(a, b)\npsh0 a\npsh0 b\n.endmacro\nsave2 dt0, dt1\n"
	root, err := NewParser("test.s").Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(root.Macros) != 1 || root.Macros[0].Name != "save2" {
		t.Fatalf("expected macro 'save2', got %#v", root.Macros)
	}
	body := root.Macros[0].Lines
	if len(body) != 2 {
		t.Fatalf("expected 2 macro body lines, got %d", len(body))
	}
	first := body[0].(ast.Instruction)
	if _, ok := first.Params[0].(ast.ReplaceSymbol); !ok {
		t.Fatalf("expected ReplaceSymbol for formal 'a', got %#v", first.Params[0])
	}
	if len(root.Lines) != 1 {
		t.Fatalf("expected 1 top-level line, got %d", len(root.Lines))
	}
}
