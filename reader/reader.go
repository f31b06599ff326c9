package reader

import (
	"github.com/coreos/pkg/dlopen"

	"github.com/pontaoski/wrig/codegen"
)

import "C"

// ReadGlobals returns the raw globals table of a library built with
// wrig build --library.
func ReadGlobals(from string) (codegen.GlobalsInfo, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return codegen.GlobalsInfo{}, err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(codegen.GlobalsSymbol)
	if err != nil {
		return codegen.GlobalsInfo{}, err
	}

	str := C.GoString((*C.char)(sym))
	return codegen.DecodeGlobals(str)
}
