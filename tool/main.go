package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Imports      []string       `("import" @String ";")*`
	Declarations []*Declaration `@@*`
}

type TypeRef struct {
	Name   string  `@Ident`
	Member *string `("." @Ident)?`
}

type Field struct {
	Name string   `@Ident ":"`
	Type *TypeRef `@@`
}

type TCase struct {
	Name   string   `@Ident "of"`
	Fields []*Field `( "{" (@@ (";" @@)*)? "}"`
	Kind   *TypeRef `| @@ )`
}

type Declaration struct {
	Name  string   `"type" @Ident "="`
	Plain *TypeRef `(  @@`
	Many  []*TCase ` | ("|" @@)+ )`
	I     struct{} `";"`
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

func (t *TypeDecls) typeOf(ref *TypeRef) *Statement {
	if ref.Member == nil {
		return Id(ref.Name)
	}
	for _, imp := range t.Imports {
		if path.Base(imp) == ref.Name {
			return Qual(imp, *ref.Member)
		}
	}
	panic(fmt.Sprintf("%s.%s: package %s is not imported", ref.Name, *ref.Member, ref.Name))
}

func GenerateDecls(source, pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by adtGen from %s. DO NOT EDIT.", source))

	for _, decl := range t.Declarations {
		if decl.Plain != nil {
			f.Type().Id(decl.Name).Add(t.typeOf(decl.Plain))
			continue
		}

		f.Type().Id(decl.Name).Interface(
			Id("is_" + decl.Name).Params(),
		)

		for _, it := range decl.Many {
			switch {
			case it.Kind == nil:
				var fields []Code
				for _, field := range it.Fields {
					fields = append(fields, Id(field.Name).Add(t.typeOf(field.Type)))
				}
				f.Type().Id(it.Name).Struct(fields...)
			case t.IsSumType(it.Kind.Name):
				f.Type().Id(it.Name).Struct(Id(it.Kind.Name))
			default:
				f.Type().Id(it.Name).Add(t.typeOf(it.Kind))
			}

			f.Func().Params(Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

var parser = participle.MustBuild(&TypeDecls{})

func ParseDecls(data []byte) (*TypeDecls, error) {
	decls := &TypeDecls{}
	if err := parser.ParseBytes(data, decls); err != nil {
		return nil, err
	}
	return decls, nil
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen IN OUT PACKAGE")
		os.Exit(64)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls, err := ParseDecls(inData)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, decls)), 0644)
	if err != nil {
		panic(err)
	}
}
