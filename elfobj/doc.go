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

// Package elfobj builds an Object from a numbered asmtree.Tree and
// writes it out as a 64-bit little-endian ET_EXEC ELF file.
//
// Emit walks the tree once more, accumulating one byte buffer per
// declared section and a symbol table derived from global/weak/extern
// directives plus every label not otherwise classified (recorded as a
// Static symbol). WriteELF then lays the result out as one
// SHT_PROGBITS section and one PT_LOAD segment per declared section,
// plus a .symtab/.strtab pair.
package elfobj
