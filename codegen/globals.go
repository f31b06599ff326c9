package codegen

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// GlobalsSymbol names the NUL terminated JSON table embedded in every module.
const GlobalsSymbol = "__wrig_globals"

type GlobalsInfo struct {
	Package string            `json:"package"`
	Globals map[string]string `json:"globals"`
}

func registerGlobalsWithModule(g GlobalsInfo, m *ir.Module) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}

	def := m.NewGlobalDef(GlobalsSymbol, constant.NewCharArray(append(data, 0)))
	def.Immutable = true

	return nil
}

func DecodeGlobals(data string) (g GlobalsInfo, err error) {
	err = json.Unmarshal([]byte(data), &g)
	return
}
