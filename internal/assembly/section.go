package assembly

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
)

// SectionInfo describes one named section of an on-disk module image
// (.text, .data, __TEXT,__text, etc). Lookups operate on the file at
// Assembly.Path, not on the live mapped image, since none of Go's
// debug/elf, debug/macho or debug/pe packages read process memory —
// they are pure file-format parsers. This is the one part of this
// package built on the standard library rather than a third-party
// dependency: no pack example imports an ELF/PE/Mach-O library, and
// the stdlib parsers already cover all three formats cross-platform
// regardless of the host OS.
type SectionInfo struct {
	Name    string
	Address uintptr
	Size    uint64
}

// Section returns the named section's address and size by trying the
// ELF, Mach-O and PE parsers on the on-disk image in turn.
func (a *Assembly) Section(name string) (SectionInfo, error) {
	if !a.valid || a.path == "" {
		return SectionInfo{}, ErrNotFound
	}
	if info, ok := sectionFromELF(a.path, name); ok {
		return info, nil
	}
	if info, ok := sectionFromMachO(a.path, name); ok {
		return info, nil
	}
	if info, ok := sectionFromPE(a.path, name); ok {
		return info, nil
	}
	return SectionInfo{}, ErrNotFound
}

func sectionFromELF(path, name string) (SectionInfo, bool) {
	f, err := elf.Open(path)
	if err != nil {
		return SectionInfo{}, false
	}
	defer f.Close()
	for _, s := range f.Sections {
		if s.Name == name {
			return SectionInfo{Name: name, Address: uintptr(s.Addr), Size: s.Size}, true
		}
	}
	return SectionInfo{}, false
}

func sectionFromMachO(path, name string) (SectionInfo, bool) {
	f, err := macho.Open(path)
	if err != nil {
		return SectionInfo{}, false
	}
	defer f.Close()
	for _, s := range f.Sections {
		if s.Name == name || fmt.Sprintf("%s,%s", s.Seg, s.Name) == name {
			return SectionInfo{Name: name, Address: uintptr(s.Addr), Size: s.Size}, true
		}
	}
	return SectionInfo{}, false
}

func sectionFromPE(path, name string) (SectionInfo, bool) {
	f, err := pe.Open(path)
	if err != nil {
		return SectionInfo{}, false
	}
	defer f.Close()
	for _, s := range f.Sections {
		if s.Name == name {
			return SectionInfo{Name: name, Address: uintptr(s.VirtualAddress), Size: uint64(s.VirtualSize)}, true
		}
	}
	return SectionInfo{}, false
}
