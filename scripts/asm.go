package scripts

import (
	"errors"
	"fmt"

	"github.com/tetratelabs/wabin/binary"
	"github.com/tetratelabs/wabin/leb128"
	"github.com/tetratelabs/wabin/wasm"
)

// ValueType is a WebAssembly value type.
type ValueType = wasm.ValueType

const (
	I32 = wasm.ValueTypeI32
	I64 = wasm.ValueTypeI64
)

// FuncType is a WebAssembly function signature.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

func (ft FuncType) key() string {
	return fmt.Sprint(ft.Params, ft.Results)
}

// Import is a function imported from a host module.
type Import struct {
	Module string
	Name   string
	Type   FuncType
}

// MemoryImport is a linear memory imported from a host module.
type MemoryImport struct {
	Module   string
	Name     string
	MinPages uint32
}

// Func is a function defined by the module. Body holds the instructions
// without the trailing end opcode. Funcs with a non-empty Export are exported.
type Func struct {
	Export string
	Type   FuncType
	Body   []byte
}

// Module describes a WebAssembly module small enough to assemble by hand:
// function imports, at most one memory and a set of functions.
type Module struct {
	Imports      []Import
	MemoryImport *MemoryImport
	// MemoryPages defines a memory of that many pages when non-zero.
	MemoryPages uint32
	// MemoryExport exports the defined memory under this name.
	MemoryExport string
	Funcs        []Func
}

// LocalGet pushes local (or parameter) i.
func LocalGet(i uint32) []byte {
	return append([]byte{wasm.OpcodeLocalGet}, leb128.EncodeUint32(i)...)
}

// Call invokes function index i. Imported functions come first.
func Call(i uint32) []byte {
	return append([]byte{wasm.OpcodeCall}, leb128.EncodeUint32(i)...)
}

// Build lays m out as a wasm.Module. Identical signatures share one type.
func (m *Module) Build() (*wasm.Module, error) {
	if m.MemoryImport != nil && m.MemoryPages != 0 {
		return nil, errors.New("wasm: a module can import or define memory, not both")
	}
	if m.MemoryExport != "" && m.MemoryPages == 0 {
		return nil, errors.New("wasm: memory export without a defined memory")
	}

	mod := &wasm.Module{}
	typeIndex := map[string]wasm.Index{}
	indexOf := func(ft FuncType) wasm.Index {
		k := ft.key()
		if i, ok := typeIndex[k]; ok {
			return i
		}
		i := wasm.Index(len(mod.TypeSection))
		typeIndex[k] = i
		mod.TypeSection = append(mod.TypeSection, &wasm.FunctionType{
			Params:  append([]ValueType(nil), ft.Params...),
			Results: append([]ValueType(nil), ft.Results...),
		})
		return i
	}

	for _, imp := range m.Imports {
		mod.ImportSection = append(mod.ImportSection, &wasm.Import{
			Type:     wasm.ExternTypeFunc,
			Module:   imp.Module,
			Name:     imp.Name,
			DescFunc: indexOf(imp.Type),
		})
	}
	if mi := m.MemoryImport; mi != nil {
		mod.ImportSection = append(mod.ImportSection, &wasm.Import{
			Type:    wasm.ExternTypeMemory,
			Module:  mi.Module,
			Name:    mi.Name,
			DescMem: &wasm.Memory{Min: mi.MinPages},
		})
	}
	if m.MemoryPages > 0 {
		mod.MemorySection = &wasm.Memory{Min: m.MemoryPages}
	}

	for i, fn := range m.Funcs {
		mod.FunctionSection = append(mod.FunctionSection, indexOf(fn.Type))
		body := append(append([]byte(nil), fn.Body...), wasm.OpcodeEnd)
		mod.CodeSection = append(mod.CodeSection, &wasm.Code{Body: body})
		if fn.Export != "" {
			mod.ExportSection = append(mod.ExportSection, &wasm.Export{
				Type:  wasm.ExternTypeFunc,
				Name:  fn.Export,
				Index: wasm.Index(len(m.Imports) + i),
			})
		}
	}
	if m.MemoryExport != "" {
		mod.ExportSection = append(mod.ExportSection, &wasm.Export{
			Type: wasm.ExternTypeMemory,
			Name: m.MemoryExport,
		})
	}
	return mod, nil
}

// Encode assembles the module into its binary form. The output is a pure
// function of m.
func (m *Module) Encode() ([]byte, error) {
	mod, err := m.Build()
	if err != nil {
		return nil, err
	}
	return binary.EncodeModule(mod), nil
}

// MustEncode is Encode for modules known to be well formed.
func (m *Module) MustEncode() []byte {
	out, err := m.Encode()
	if err != nil {
		panic(fmt.Sprintf("scripts: %v", err))
	}
	return out
}
