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
	"bytes"
	"debug/elf"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// WriteELF serialises obj as a 64-bit little-endian ET_EXEC/EM_NONE
// ELF file: one SHT_PROGBITS section and one PT_LOAD segment per
// declared section, plus a .symtab/.strtab pair.
func WriteELF(w io.Writer, obj *Object) error {
	const ehsize = 64
	const phentsize = 56
	const shentsize = 64

	numSections := len(obj.Sections)
	numProgHeaders := numSections

	shstrtab, shstrOffsets := buildStringTable(append([]string{}, sectionHeaderNames(obj)...))
	strtab, strOffsets := buildStringTable(symbolNames(obj.Symbols))
	symtab := buildSymtab(obj, strOffsets)

	phoff := uint64(ehsize)
	dataOffset := phoff + uint64(numProgHeaders)*phentsize

	sectionFileOffsets := make([]uint64, numSections)
	off := dataOffset
	for i, s := range obj.Sections {
		sectionFileOffsets[i] = off
		off += uint64(len(s.Data))
	}
	symtabOffset := off
	off += uint64(len(symtab))
	strtabOffset := off
	off += uint64(len(strtab))
	shstrtabOffset := off
	off += uint64(len(shstrtab))
	shoff := off

	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_NONE),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     obj.Entry,
		Phoff:     phoff,
		Shoff:     shoff,
		Ehsize:    ehsize,
		Phentsize: phentsize,
		Phnum:     uint16(numProgHeaders),
		Shentsize: shentsize,
		Shnum:     uint16(numSections + 4), // null + sections + .symtab + .strtab + .shstrtab
		Shstrndx:  uint16(numSections + 3),
	}
	hdr.Ident[0] = '\x7f'
	hdr.Ident[1] = 'E'
	hdr.Ident[2] = 'L'
	hdr.Ident[3] = 'F'
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	hdr.Ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "writing ELF header")
	}

	for i, s := range obj.Sections {
		ph := elf.Prog64{
			Type:   uint32(elf.PT_LOAD),
			Flags:  progFlags(s),
			Off:    sectionFileOffsets[i],
			Vaddr:  s.Base,
			Paddr:  s.Base,
			Filesz: uint64(len(s.Data)),
			Memsz:  uint64(len(s.Data)),
			Align:  1,
		}
		if err := binary.Write(buf, binary.LittleEndian, &ph); err != nil {
			return errors.Wrap(err, "writing program header")
		}
	}

	for _, s := range obj.Sections {
		buf.Write(s.Data)
	}
	buf.Write(symtab)
	buf.Write(strtab)
	buf.Write(shstrtab)

	// null section header.
	if err := binary.Write(buf, binary.LittleEndian, &elf.Section64{}); err != nil {
		return errors.Wrap(err, "writing null section header")
	}

	for i, s := range obj.Sections {
		sh := elf.Section64{
			Name:      shstrOffsets[s.Name],
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     sectionFlags(s),
			Addr:      s.Base,
			Off:       sectionFileOffsets[i],
			Size:      uint64(len(s.Data)),
			Addralign: 1,
		}
		if err := binary.Write(buf, binary.LittleEndian, &sh); err != nil {
			return errors.Wrap(err, "writing section header")
		}
	}

	symtabHdr := elf.Section64{
		Name:      shstrOffsets[".symtab"],
		Type:      uint32(elf.SHT_SYMTAB),
		Off:       symtabOffset,
		Size:      uint64(len(symtab)),
		Link:      uint32(numSections + 2), // .strtab index
		Entsize:   24,
		Addralign: 8,
	}
	if err := binary.Write(buf, binary.LittleEndian, &symtabHdr); err != nil {
		return errors.Wrap(err, "writing symtab header")
	}

	strtabHdr := elf.Section64{
		Name:      shstrOffsets[".strtab"],
		Type:      uint32(elf.SHT_STRTAB),
		Off:       strtabOffset,
		Size:      uint64(len(strtab)),
		Addralign: 1,
	}
	if err := binary.Write(buf, binary.LittleEndian, &strtabHdr); err != nil {
		return errors.Wrap(err, "writing strtab header")
	}

	shstrtabHdr := elf.Section64{
		Name:      shstrOffsets[".shstrtab"],
		Type:      uint32(elf.SHT_STRTAB),
		Off:       shstrtabOffset,
		Size:      uint64(len(shstrtab)),
		Addralign: 1,
	}
	if err := binary.Write(buf, binary.LittleEndian, &shstrtabHdr); err != nil {
		return errors.Wrap(err, "writing shstrtab header")
	}

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "flushing ELF output")
}

func sectionHeaderNames(obj *Object) []string {
	names := make([]string, 0, len(obj.Sections)+3)
	for _, s := range obj.Sections {
		names = append(names, s.Name)
	}
	return append(names, ".symtab", ".strtab", ".shstrtab")
}

func symbolNames(symbols []Symbol) []string {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name
	}
	return names
}

// buildStringTable builds a standard ELF string table (leading NUL,
// each name NUL-terminated) and the byte offset of each name within
// it.
func buildStringTable(names []string) ([]byte, map[string]uint32) {
	buf := []byte{0}
	offsets := make(map[string]uint32, len(names))
	for _, n := range names {
		if _, ok := offsets[n]; ok {
			continue
		}
		offsets[n] = uint32(len(buf))
		buf = append(buf, []byte(n)...)
		buf = append(buf, 0)
	}
	return buf, offsets
}

func buildSymtab(obj *Object, strOffsets map[string]uint32) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, &elf.Sym64{}) // null symbol

	sectionIndex := make(map[string]uint16, len(obj.Sections))
	for i, s := range obj.Sections {
		sectionIndex[s.Name] = uint16(i + 1) // +1 for the null header
	}

	for _, sym := range obj.Symbols {
		shndx := uint16(elf.SHN_UNDEF)
		if idx, ok := sectionIndex[sym.Section]; ok && sym.Type != SymExtern {
			shndx = idx
		}

		bind := elf.STB_GLOBAL
		if sym.Type == SymWeak {
			bind = elf.STB_WEAK
		}

		typ := elf.STT_OBJECT
		if sec, ok := sectionByName(obj, sym.Section); ok && sec.Execute {
			typ = elf.STT_FUNC
		}

		visibility := elf.STV_DEFAULT
		if sym.Type == SymStatic {
			visibility = elf.STV_HIDDEN
		}

		entry := elf.Sym64{
			Name:  strOffsets[sym.Name],
			Info:  byte(bind)<<4 | byte(typ),
			Other: byte(visibility),
			Shndx: shndx,
			Value: sym.Address,
		}
		binary.Write(buf, binary.LittleEndian, &entry)
	}
	return buf.Bytes()
}

func sectionByName(obj *Object, name string) (Section, bool) {
	for _, s := range obj.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func sectionFlags(s Section) uint64 {
	flags := uint64(elf.SHF_ALLOC)
	if s.Write {
		flags |= uint64(elf.SHF_WRITE)
	}
	if s.Execute {
		flags |= uint64(elf.SHF_EXECINSTR)
	}
	return flags
}

func progFlags(s Section) uint32 {
	var flags uint32
	if s.Read {
		flags |= uint32(elf.PF_R)
	}
	if s.Write {
		flags |= uint32(elf.PF_W)
	}
	if s.Execute {
		flags |= uint32(elf.PF_X)
	}
	return flags
}
