package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	wtypes "github.com/pontaoski/wrig/types"
)

var (
	Byte    = types.I8
	BytePtr = types.NewPointer(Byte)
	Int64   = types.I64
	Float64 = types.Double
	Boolean = types.I1
	NilType = types.I8
)

// constantOf lowers a runtime value to its typed LLVM constant.
func constantOf(v wtypes.Value) constant.Constant {
	switch v.Kind() {
	case wtypes.KindNumber:
		n, _ := v.AsNumber()
		return constant.NewFloat(Float64, n)
	case wtypes.KindBool:
		b, _ := v.AsBool()
		return constant.NewBool(b)
	case wtypes.KindString:
		s, _ := v.AsString()
		return constant.NewCharArrayFromString(s)
	default:
		return constant.NewInt(NilType, 0)
	}
}
