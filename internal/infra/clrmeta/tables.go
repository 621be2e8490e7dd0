// Where: cli/internal/infra/clrmeta/tables.go
// What: Flatten the table rows saferwall/pe decoded into 1-based row cells.
// Why: The model builder follows coded indexes and member lists by table, row, and column.
package clrmeta

import "github.com/saferwall/pe"

type tableStream struct {
	cells [tableCount][][]uint32
}

func (ts *tableStream) rows(t tableID) uint32 {
	return uint32(len(ts.cells[t]))
}

// cell returns a column of a 1-based row, or 0 when either is out of range.
func (ts *tableStream) cell(t tableID, row uint32, col int) uint32 {
	rows := ts.cells[t]
	if row == 0 || int(row) > len(rows) || col >= len(rows[row-1]) {
		return 0
	}
	return rows[row-1][col]
}

// tableCells keeps the columns the model builder reads, ordered as the
// column constants in schema.go. Other tables are dropped.
func tableCells(content interface{}) [][]uint32 {
	switch rows := content.(type) {
	case []pe.TypeRefTableRow:
		return collect(rows, func(r pe.TypeRefTableRow) []uint32 {
			return []uint32{uint32(r.ResolutionScope), uint32(r.TypeName), uint32(r.TypeNamespace)}
		})
	case []pe.TypeDefTableRow:
		return collect(rows, func(r pe.TypeDefTableRow) []uint32 {
			return []uint32{uint32(r.Flags), uint32(r.TypeName), uint32(r.TypeNamespace),
				uint32(r.Extends), uint32(r.FieldList), uint32(r.MethodList)}
		})
	case []pe.FieldTableRow:
		return collect(rows, func(r pe.FieldTableRow) []uint32 {
			return []uint32{uint32(r.Flags), uint32(r.Name), uint32(r.Signature)}
		})
	case []pe.MethodDefTableRow:
		return collect(rows, func(r pe.MethodDefTableRow) []uint32 {
			return []uint32{uint32(r.Flags), uint32(r.Name), uint32(r.Signature), uint32(r.ParamList)}
		})
	case []pe.ParamTableRow:
		return collect(rows, func(r pe.ParamTableRow) []uint32 {
			return []uint32{uint32(r.Sequence), uint32(r.Name)}
		})
	case []pe.InterfaceImplTableRow:
		return collect(rows, func(r pe.InterfaceImplTableRow) []uint32 {
			return []uint32{uint32(r.Class), uint32(r.Interface)}
		})
	case []pe.MemberRefTableRow:
		return collect(rows, func(r pe.MemberRefTableRow) []uint32 {
			return []uint32{uint32(r.Class), uint32(r.Name), uint32(r.Signature)}
		})
	case []pe.ConstantTableRow:
		return collect(rows, func(r pe.ConstantTableRow) []uint32 {
			return []uint32{uint32(r.Type), uint32(r.Parent), uint32(r.Value)}
		})
	case []pe.CustomAttributeTableRow:
		return collect(rows, func(r pe.CustomAttributeTableRow) []uint32 {
			return []uint32{uint32(r.Parent), uint32(r.Type), uint32(r.Value)}
		})
	case []pe.TypeSpecTableRow:
		return collect(rows, func(r pe.TypeSpecTableRow) []uint32 {
			return []uint32{uint32(r.Signature)}
		})
	case []pe.AssemblyTableRow:
		return collect(rows, func(r pe.AssemblyTableRow) []uint32 {
			return []uint32{uint32(r.Name)}
		})
	case []pe.NestedClassTableRow:
		return collect(rows, func(r pe.NestedClassTableRow) []uint32 {
			return []uint32{uint32(r.NestedClass), uint32(r.EnclosingClass)}
		})
	}
	return nil
}

func collect[R any](rows []R, cols func(R) []uint32) [][]uint32 {
	out := make([][]uint32, len(rows))
	for i, r := range rows {
		out[i] = cols(r)
	}
	return out
}
