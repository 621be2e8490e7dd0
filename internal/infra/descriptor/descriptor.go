// Where: cli/internal/infra/descriptor/descriptor.go
// What: YAML/JSON assembly descriptor reader.
// Why: Describe an assembly's types and attributes as text for fixtures and non-PE build outputs.
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
	"sigs.k8s.io/yaml"
)

// Document is the root of an assembly descriptor.
type Document struct {
	Name  string    `json:"name"`
	Types []TypeDoc `json:"types"`
}

// TypeDoc describes a type definition; Nested types are declared inline.
type TypeDoc struct {
	Name       string         `json:"name"`
	Internal   bool           `json:"internal,omitempty"`
	BaseType   string         `json:"baseType,omitempty"`
	Interfaces []string       `json:"interfaces,omitempty"`
	Attributes []AttributeDoc `json:"attributes,omitempty"`
	Fields     []FieldDoc     `json:"fields,omitempty"`
	Methods    []MethodDoc    `json:"methods,omitempty"`
	Nested     []TypeDoc      `json:"nested,omitempty"`
}

// FieldDoc describes a field; enum members set Static and Constant.
type FieldDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Static   bool   `json:"static,omitempty"`
	Private  bool   `json:"private,omitempty"`
	Constant *int64 `json:"constant,omitempty"`
}

// MethodDoc describes a method. Methods are public and static unless stated otherwise.
type MethodDoc struct {
	Name       string         `json:"name"`
	Instance   bool           `json:"instance,omitempty"`
	Private    bool           `json:"private,omitempty"`
	Attributes []AttributeDoc `json:"attributes,omitempty"`
	Params     []ParamDoc     `json:"params,omitempty"`
	Returns    *ParamDoc      `json:"returns,omitempty"`
}

// ParamDoc describes a parameter or, under Returns, the return value.
type ParamDoc struct {
	Name       string         `json:"name,omitempty"`
	Type       string         `json:"type"`
	Attributes []AttributeDoc `json:"attributes,omitempty"`
}

// AttributeDoc describes one attribute usage.
type AttributeDoc struct {
	Type       string        `json:"type"`
	Args       []ValueDoc    `json:"args,omitempty"`
	Properties []NamedArgDoc `json:"properties,omitempty"`
	Fields     []NamedArgDoc `json:"fields,omitempty"`
}

// NamedArgDoc is a property or field assignment.
type NamedArgDoc struct {
	Name  string   `json:"name"`
	Value ValueDoc `json:"value"`
}

// Load reads a descriptor file into an assembly model.
func Load(path string) (*metadata.Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	asm, err := Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	asm.Path = path
	return asm, nil
}

// Parse decodes descriptor content; fallbackName is used when the document has no name.
func Parse(data []byte, fallbackName string) (*metadata.Assembly, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = fallbackName
	}
	asm := &metadata.Assembly{Name: name}
	for _, td := range doc.Types {
		if err := buildType(asm, nil, td); err != nil {
			return nil, err
		}
	}
	return asm, nil
}

func buildType(asm *metadata.Assembly, outer *metadata.Type, td TypeDoc) error {
	if strings.TrimSpace(td.Name) == "" {
		return fmt.Errorf("type without a name")
	}
	var t *metadata.Type
	if outer == nil {
		t = metadata.NewType(asm, td.Name)
	} else {
		t = metadata.NewNestedType(outer, td.Name)
	}
	t.Public = !td.Internal
	if td.BaseType != "" {
		t.BaseType = td.BaseType
	}
	t.Interfaces = td.Interfaces

	attrs, err := buildAttributes(td.Attributes)
	if err != nil {
		return fmt.Errorf("type %s: %w", t.FullName(), err)
	}
	t.Attributes = attrs

	for _, fd := range td.Fields {
		field := &metadata.Field{Name: fd.Name, Public: !fd.Private, Static: fd.Static, Type: ParseTypeSig(fd.Type)}
		if fd.Constant != nil {
			field.Constant = *fd.Constant
		}
		t.Fields = append(t.Fields, field)
	}

	for _, md := range td.Methods {
		if err := buildMethod(t, md); err != nil {
			return fmt.Errorf("method %s.%s: %w", t.FullName(), md.Name, err)
		}
	}
	for _, nested := range td.Nested {
		if err := buildType(asm, t, nested); err != nil {
			return err
		}
	}
	return nil
}

func buildMethod(t *metadata.Type, md MethodDoc) error {
	attrs, err := buildAttributes(md.Attributes)
	if err != nil {
		return err
	}
	params := make([]*metadata.Param, 0, len(md.Params))
	for _, pd := range md.Params {
		pattrs, err := buildAttributes(pd.Attributes)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", pd.Name, err)
		}
		params = append(params, metadata.NewParam(pd.Name, ParseTypeSig(pd.Type), pattrs...))
	}
	m := t.AddMethod(md.Name, attrs, params...)
	m.Static = !md.Instance
	m.Public = !md.Private
	if md.Returns != nil {
		rattrs, err := buildAttributes(md.Returns.Attributes)
		if err != nil {
			return fmt.Errorf("return value: %w", err)
		}
		m.WithReturn(ParseTypeSig(md.Returns.Type), rattrs...)
	}
	return nil
}

func buildAttributes(docs []AttributeDoc) ([]*metadata.Attribute, error) {
	out := make([]*metadata.Attribute, 0, len(docs))
	for _, ad := range docs {
		if strings.TrimSpace(ad.Type) == "" {
			return nil, fmt.Errorf("attribute without a type")
		}
		args := make([]metadata.Value, 0, len(ad.Args))
		for _, v := range ad.Args {
			args = append(args, v.Value)
		}
		attr := metadata.NewAttribute(qualifyAttribute(ad.Type), args...)
		for _, p := range ad.Properties {
			attr.WithProperty(p.Name, p.Value.Value)
		}
		for _, f := range ad.Fields {
			attr.WithField(f.Name, f.Value.Value)
		}
		out = append(out, attr)
	}
	return out, nil
}

// qualifyAttribute appends the conventional Attribute suffix when it is omitted.
func qualifyAttribute(name string) string {
	if strings.HasSuffix(name, "Attribute") {
		return name
	}
	return name + "Attribute"
}

var typeAliases = map[string]metadata.ElementType{
	"void":   metadata.ElementVoid,
	"bool":   metadata.ElementBoolean,
	"char":   metadata.ElementChar,
	"sbyte":  metadata.ElementI1,
	"byte":   metadata.ElementU1,
	"short":  metadata.ElementI2,
	"ushort": metadata.ElementU2,
	"int":    metadata.ElementI4,
	"uint":   metadata.ElementU4,
	"long":   metadata.ElementI8,
	"ulong":  metadata.ElementU8,
	"float":  metadata.ElementR4,
	"double": metadata.ElementR8,
	"string": metadata.ElementString,
	"object": metadata.ElementObject,
}

// ParseTypeSig parses C#-style type names: aliases, T[], T? and Name<A,B>.
func ParseTypeSig(s string) metadata.TypeSig {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return metadata.Primitive(metadata.ElementObject)
	case strings.HasSuffix(s, "[]"):
		elem := ParseTypeSig(strings.TrimSuffix(s, "[]"))
		return metadata.TypeSig{Kind: metadata.ElementSZArray, Elem: &elem}
	case strings.HasSuffix(s, "&"):
		elem := ParseTypeSig(strings.TrimSuffix(s, "&"))
		return metadata.TypeSig{Kind: metadata.ElementByRef, Elem: &elem}
	case strings.HasSuffix(s, "?"):
		inner := ParseTypeSig(strings.TrimSuffix(s, "?"))
		return metadata.TypeSig{Kind: metadata.ElementGenericInst, Name: "System.Nullable`1", Args: []metadata.TypeSig{inner}}
	}
	if kind, ok := typeAliases[s]; ok {
		return metadata.Primitive(kind)
	}
	if open := strings.Index(s, "<"); open > 0 && strings.HasSuffix(s, ">") {
		args := splitTypeArgs(s[open+1 : len(s)-1])
		sig := metadata.TypeSig{Kind: metadata.ElementGenericInst, Name: fmt.Sprintf("%s`%d", s[:open], len(args))}
		for _, a := range args {
			sig.Args = append(sig.Args, ParseTypeSig(a))
		}
		return sig
	}
	return metadata.Named(metadata.ElementClass, s)
}

func splitTypeArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}
