// Where: cli/internal/infra/clrmeta/schema.go
// What: ECMA-335 table ids, coded indexes (II.24.2.6) and the columns the model builder reads.
package clrmeta

type tableID int

const (
	tModule                 tableID = 0x00
	tTypeRef                tableID = 0x01
	tTypeDef                tableID = 0x02
	tFieldPtr               tableID = 0x03
	tField                  tableID = 0x04
	tMethodPtr              tableID = 0x05
	tMethodDef              tableID = 0x06
	tParamPtr               tableID = 0x07
	tParam                  tableID = 0x08
	tInterfaceImpl          tableID = 0x09
	tMemberRef              tableID = 0x0A
	tConstant               tableID = 0x0B
	tCustomAttribute        tableID = 0x0C
	tFieldMarshal           tableID = 0x0D
	tDeclSecurity           tableID = 0x0E
	tClassLayout            tableID = 0x0F
	tFieldLayout            tableID = 0x10
	tStandAloneSig          tableID = 0x11
	tEventMap               tableID = 0x12
	tEventPtr               tableID = 0x13
	tEvent                  tableID = 0x14
	tPropertyMap            tableID = 0x15
	tPropertyPtr            tableID = 0x16
	tProperty               tableID = 0x17
	tMethodSemantics        tableID = 0x18
	tMethodImpl             tableID = 0x19
	tModuleRef              tableID = 0x1A
	tTypeSpec               tableID = 0x1B
	tImplMap                tableID = 0x1C
	tFieldRVA               tableID = 0x1D
	tEncLog                 tableID = 0x1E
	tEncMap                 tableID = 0x1F
	tAssembly               tableID = 0x20
	tAssemblyProcessor      tableID = 0x21
	tAssemblyOS             tableID = 0x22
	tAssemblyRef            tableID = 0x23
	tAssemblyRefProcessor   tableID = 0x24
	tAssemblyRefOS          tableID = 0x25
	tFile                   tableID = 0x26
	tExportedType           tableID = 0x27
	tManifestResource       tableID = 0x28
	tNestedClass            tableID = 0x29
	tGenericParam           tableID = 0x2A
	tMethodSpec             tableID = 0x2B
	tGenericParamConstraint tableID = 0x2C

	tableCount         = 0x2D
	tNone      tableID = -1
)

type codedKind int

const (
	cTypeDefOrRef codedKind = iota
	cHasConstant
	cHasCustomAttribute
	cHasFieldMarshal
	cHasDeclSecurity
	cMemberRefParent
	cHasSemantics
	cMethodDefOrRef
	cMemberForwarded
	cImplementation
	cCustomAttributeType
	cResolutionScope
	cTypeOrMethodDef
)

type codedIndex struct {
	bits   uint
	tables []tableID
}

var codedIndexes = map[codedKind]codedIndex{
	cTypeDefOrRef: {bits: 2, tables: []tableID{tTypeDef, tTypeRef, tTypeSpec}},
	cHasConstant:  {bits: 2, tables: []tableID{tField, tParam, tProperty}},
	cHasCustomAttribute: {bits: 5, tables: []tableID{
		tMethodDef, tField, tTypeRef, tTypeDef, tParam, tInterfaceImpl, tMemberRef, tModule,
		tDeclSecurity, tProperty, tEvent, tStandAloneSig, tModuleRef, tTypeSpec, tAssembly,
		tAssemblyRef, tFile, tExportedType, tManifestResource, tGenericParam,
		tGenericParamConstraint, tMethodSpec,
	}},
	cHasFieldMarshal:     {bits: 1, tables: []tableID{tField, tParam}},
	cHasDeclSecurity:     {bits: 2, tables: []tableID{tTypeDef, tMethodDef, tAssembly}},
	cMemberRefParent:     {bits: 3, tables: []tableID{tTypeDef, tTypeRef, tModuleRef, tMethodDef, tTypeSpec}},
	cHasSemantics:        {bits: 1, tables: []tableID{tEvent, tProperty}},
	cMethodDefOrRef:      {bits: 1, tables: []tableID{tMethodDef, tMemberRef}},
	cMemberForwarded:     {bits: 1, tables: []tableID{tField, tMethodDef}},
	cImplementation:      {bits: 2, tables: []tableID{tFile, tAssemblyRef, tExportedType}},
	cCustomAttributeType: {bits: 3, tables: []tableID{tNone, tNone, tMethodDef, tMemberRef, tNone}},
	cResolutionScope:     {bits: 2, tables: []tableID{tModule, tModuleRef, tAssemblyRef, tTypeRef}},
	cTypeOrMethodDef:     {bits: 1, tables: []tableID{tTypeDef, tMethodDef}},
}

// Column positions of the cells kept by tableCells.
const (
	typeRefScope, typeRefName, typeRefNamespace                                                = 0, 1, 2
	typeDefFlags, typeDefName, typeDefNamespace, typeDefExtends, typeDefFields, typeDefMethods = 0, 1, 2, 3, 4, 5
	fieldFlags, fieldName, fieldSig                                                            = 0, 1, 2
	methodFlags, methodName, methodSig, methodParams                                           = 0, 1, 2, 3
	paramSequence, paramName                                                                   = 0, 1
	memberRefParent, memberRefName, memberRefSig                                               = 0, 1, 2
	constantType, constantParent, constantValue                                                = 0, 1, 2
	attrParent, attrType, attrValue                                                            = 0, 1, 2
	typeSpecSig                                                                                = 0
	assemblyName                                                                               = 0
	nestedNested, nestedEnclosing                                                              = 0, 1
	interfaceClass, interfaceType                                                              = 0, 1
)

// decodeCoded splits a coded index into its table and 1-based row.
func decodeCoded(k codedKind, v uint32) (tableID, uint32) {
	ci := codedIndexes[k]
	tag := v & (1<<ci.bits - 1)
	if int(tag) >= len(ci.tables) {
		return tNone, 0
	}
	return ci.tables[tag], v >> ci.bits
}
