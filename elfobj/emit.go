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

package elfobj

import (
	"sort"
	"strconv"

	"github.com/mkroboth/cs8/asmtree"
	"github.com/pkg/errors"
)

// SymbolType classifies a symbol's binding for ELF symtab emission.
type SymbolType int

const (
	SymGlobal SymbolType = iota
	SymWeak
	SymExtern
	SymStatic
)

// Symbol is a named address recorded in the output symbol table.
type Symbol struct {
	Name       string
	Section    string
	Type       SymbolType
	Address    uint64
	HasAddress bool
}

// Section is one named, laid-out region of the output binary.
type Section struct {
	Name                  string
	Base                  uint64
	Data                  []byte
	Read, Write, Execute bool
}

// Object is the fully laid-out program ready for ELF emission.
type Object struct {
	Entry    uint64
	Sections []Section
	Symbols  []Symbol
}

// Emit walks tree once more, producing per-section bytes and a symbol
// table per the directive semantics (entrypoint, section, global,
// weak, extern, secinfo, byte, word, bytes).
func Emit(tree *asmtree.Tree) (*Object, error) {
	sections := map[string]*Section{}
	symbols := map[string]*Symbol{}
	currentSection := "flat"
	var entry uint64

	ensureSection := func(name string, base uint64) *Section {
		if s, ok := sections[name]; ok {
			return s
		}
		s := &Section{Name: name, Base: base}
		sections[name] = s
		return s
	}

	for _, node := range tree.Nodes {
		switch n := node.(type) {
		case asmtree.Label:
			// positions already resolved by Transform; nothing to emit here.
		case asmtree.Directive:
			if err := applyDirective(n, tree, sections, symbols, &currentSection, &entry, ensureSection); err != nil {
				return nil, err
			}
		case asmtree.Instruction:
			if err := requireResolved(n); err != nil {
				return nil, err
			}
			sec := ensureSection(currentSection, 0)
			sec.Data = append(sec.Data, n.Emit()...)
		}
	}

	for name, pos := range tree.Labels {
		if _, exists := symbols[name]; exists {
			continue
		}
		symbols[name] = &Symbol{Name: name, Section: pos.Section, Type: SymStatic, Address: uint64(pos.Offset), HasAddress: true}
	}

	obj := &Object{Entry: entry}
	sectionNames := make([]string, 0, len(sections))
	for name := range sections {
		sectionNames = append(sectionNames, name)
	}
	sort.Strings(sectionNames)
	for _, name := range sectionNames {
		obj.Sections = append(obj.Sections, *sections[name])
	}

	symbolNames := make([]string, 0, len(symbols))
	for name := range symbols {
		symbolNames = append(symbolNames, name)
	}
	sort.Strings(symbolNames)
	for _, name := range symbolNames {
		obj.Symbols = append(obj.Symbols, *symbols[name])
	}

	return obj, nil
}

// requireResolved fails emission when a label-carrying instruction was
// never back-patched during numbering.
func requireResolved(inst asmtree.Instruction) error {
	switch i := inst.(type) {
	case asmtree.LoadImmediate:
		if i.HasLabel && !i.Resolved {
			return &asmtree.UnresolvedLabelError{Name: i.Label}
		}
	case asmtree.LoadDirect:
		if i.HasLabel && !i.Resolved {
			return &asmtree.UnresolvedLabelError{Name: i.Label}
		}
	case asmtree.StoreDirect:
		if i.HasLabel && !i.Resolved {
			return &asmtree.UnresolvedLabelError{Name: i.Label}
		}
	}
	return nil
}

func applyDirective(
	d asmtree.Directive,
	tree *asmtree.Tree,
	sections map[string]*Section,
	symbols map[string]*Symbol,
	currentSection *string,
	entry *uint64,
	ensureSection func(string, uint64) *Section,
) error {
	switch d.Name {
	case "entrypoint":
		v, err := strconv.ParseUint(d.Args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing entrypoint")
		}
		*entry = v
	case "section":
		base, err := strconv.ParseUint(d.Args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing section base")
		}
		ensureSection(d.Args[0], base)
		*currentSection = d.Args[0]
	case "global":
		name := d.Args[0]
		pos, ok := tree.Labels[name]
		if !ok {
			return &asmtree.UnresolvedLabelError{Name: name}
		}
		if sym, exists := symbols[name]; exists {
			sym.Type = SymGlobal
		} else {
			symbols[name] = &Symbol{Name: name, Section: pos.Section, Type: SymGlobal, Address: uint64(pos.Offset), HasAddress: true}
		}
	case "weak":
		name := d.Args[0]
		pos, ok := tree.Labels[name]
		if !ok {
			return &asmtree.UnresolvedLabelError{Name: name}
		}
		if sym, exists := symbols[name]; exists {
			sym.Type = SymWeak
		} else {
			symbols[name] = &Symbol{Name: name, Section: pos.Section, Type: SymWeak, Address: uint64(pos.Offset), HasAddress: true}
		}
	case "extern":
		name := d.Args[0]
		if sym, exists := symbols[name]; exists {
			sym.Type = SymExtern
		} else {
			symbols[name] = &Symbol{Name: name, Section: *currentSection, Type: SymExtern}
		}
	case "secinfo":
		sec := ensureSection(d.Args[0], 0)
		sec.Read, sec.Write, sec.Execute = false, false, false
		for _, flag := range d.Args[1:] {
			switch flag {
			case "read":
				sec.Read = true
			case "write":
				sec.Write = true
			case "execute":
				sec.Execute = true
			}
		}
	case "byte":
		v, err := strconv.Atoi(d.Args[0])
		if err != nil {
			return errors.Wrap(err, "parsing byte")
		}
		sec := ensureSection(*currentSection, 0)
		sec.Data = append(sec.Data, byte(v))
	case "word":
		v, err := strconv.Atoi(d.Args[0])
		if err != nil {
			return errors.Wrap(err, "parsing word")
		}
		sec := ensureSection(*currentSection, 0)
		sec.Data = append(sec.Data, byte(v>>8), byte(v))
	case "bytes":
		sec := ensureSection(*currentSection, 0)
		for _, a := range d.Args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return errors.Wrap(err, "parsing bytes")
			}
			sec.Data = append(sec.Data, byte(v))
		}
	}
	return nil
}
