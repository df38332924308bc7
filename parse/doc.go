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

// Package parse reads cs8 assembly source text and produces an
// ast.Root.
//
// Source is a sequence of lines, each one of: a ';'-led comment, a
// "name:" label declaration, a ".directive arg, arg, ..." directive, a
// bare "mnemonic operand, operand" instruction, or a
// ".macro name(p1, p2) ... .endmacro" macro definition. Operands are
// register names, decimal or "0x"-prefixed hex numbers, double-quoted
// strings, or bare identifiers (resolved to a Register if the name
// matches one of the 16 register mnemonics, to a ReplaceSymbol if it
// names a formal parameter of the enclosing macro definition, and to a
// Symbol -- a label reference -- otherwise).
//
// Parsing runs in two passes: fromSource builds a generic
// parser-combinator AST via goparsec, then fromAST walks that tree once
// to build the typed ast.Root the rest of the toolchain consumes.
package parse
