package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func addBuiltins(m *ir.Module) (ret map[string]value.Value) {
	ret = make(map[string]value.Value)

	funcs := []func(*ir.Module) (string, value.Value){
		addPrint,
		addExit,
	}
	for _, fn := range funcs {
		k, v := fn(m)
		ret[k] = v
	}

	return
}

// PrintConstraints pins data and len to the write syscall's argument
// registers and lists what the kernel may clobber.
const PrintConstraints = `{rsi},{rdx},~{rax},~{rdi},~{rcx},~{r11},~{memory}`

// addPrint writes len bytes from data to stdout.
func addPrint(m *ir.Module) (string, value.Value) {
	fn := m.NewFunc("print", types.Void, ir.NewParam("data", BytePtr), ir.NewParam("len", Int64))
	entry := fn.NewBlock("entry")

	asm := ir.NewInlineAsm(
		types.NewPointer(types.NewFunc(types.Void, BytePtr, Int64)),
		`movq $$0x1, %rax; movq $$0x1, %rdi; syscall`,
		PrintConstraints,
	)
	asm.SideEffect = true

	entry.NewCall(asm, fn.Params[0], fn.Params[1])
	entry.NewRet(nil)

	return "print", fn
}

func addExit(m *ir.Module) (string, value.Value) {
	fn := m.NewFunc("exit", types.Void)
	entry := fn.NewBlock("entry")

	asm := ir.NewInlineAsm(types.NewPointer(types.NewFunc(types.Void)), `movq $$0x3C, %rax; movq $$0x0, %rdi; syscall`, `~{rax},~{rdi}`)
	asm.SideEffect = true

	entry.NewCall(asm)
	entry.NewRet(nil)

	return "exit", fn
}
