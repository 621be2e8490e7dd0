package clrmeta

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
)

// Full row layouts (II.22), used to encode test images.
type colKind int

const (
	colU16 colKind = iota
	colU32
	colString
	colGUID
	colBlob
	colTable
	colCoded
)

type column struct {
	kind  colKind
	table tableID
	coded codedKind
}

func u16() column                 { return column{kind: colU16} }
func u32() column                 { return column{kind: colU32} }
func strIdx() column              { return column{kind: colString} }
func guidIdx() column             { return column{kind: colGUID} }
func blobIdx() column             { return column{kind: colBlob} }
func tableIdx(t tableID) column   { return column{kind: colTable, table: t} }
func codedIdx(k codedKind) column { return column{kind: colCoded, coded: k} }

// Single-byte columns (Constant.Type plus its padding) are read as one u16.
var tableSchemas = [tableCount][]column{
	tModule:                 {u16(), strIdx(), guidIdx(), guidIdx(), guidIdx()},
	tTypeRef:                {codedIdx(cResolutionScope), strIdx(), strIdx()},
	tTypeDef:                {u32(), strIdx(), strIdx(), codedIdx(cTypeDefOrRef), tableIdx(tField), tableIdx(tMethodDef)},
	tFieldPtr:               {tableIdx(tField)},
	tField:                  {u16(), strIdx(), blobIdx()},
	tMethodPtr:              {tableIdx(tMethodDef)},
	tMethodDef:              {u32(), u16(), u16(), strIdx(), blobIdx(), tableIdx(tParam)},
	tParamPtr:               {tableIdx(tParam)},
	tParam:                  {u16(), u16(), strIdx()},
	tInterfaceImpl:          {tableIdx(tTypeDef), codedIdx(cTypeDefOrRef)},
	tMemberRef:              {codedIdx(cMemberRefParent), strIdx(), blobIdx()},
	tConstant:               {u16(), codedIdx(cHasConstant), blobIdx()},
	tCustomAttribute:        {codedIdx(cHasCustomAttribute), codedIdx(cCustomAttributeType), blobIdx()},
	tFieldMarshal:           {codedIdx(cHasFieldMarshal), blobIdx()},
	tDeclSecurity:           {u16(), codedIdx(cHasDeclSecurity), blobIdx()},
	tClassLayout:            {u16(), u32(), tableIdx(tTypeDef)},
	tFieldLayout:            {u32(), tableIdx(tField)},
	tStandAloneSig:          {blobIdx()},
	tEventMap:               {tableIdx(tTypeDef), tableIdx(tEvent)},
	tEventPtr:               {tableIdx(tEvent)},
	tEvent:                  {u16(), strIdx(), codedIdx(cTypeDefOrRef)},
	tPropertyMap:            {tableIdx(tTypeDef), tableIdx(tProperty)},
	tPropertyPtr:            {tableIdx(tProperty)},
	tProperty:               {u16(), strIdx(), blobIdx()},
	tMethodSemantics:        {u16(), tableIdx(tMethodDef), codedIdx(cHasSemantics)},
	tMethodImpl:             {tableIdx(tTypeDef), codedIdx(cMethodDefOrRef), codedIdx(cMethodDefOrRef)},
	tModuleRef:              {strIdx()},
	tTypeSpec:               {blobIdx()},
	tImplMap:                {u16(), codedIdx(cMemberForwarded), strIdx(), tableIdx(tModuleRef)},
	tFieldRVA:               {u32(), tableIdx(tField)},
	tEncLog:                 {u32(), u32()},
	tEncMap:                 {u32()},
	tAssembly:               {u32(), u16(), u16(), u16(), u16(), u32(), blobIdx(), strIdx(), strIdx()},
	tAssemblyProcessor:      {u32()},
	tAssemblyOS:             {u32(), u32(), u32()},
	tAssemblyRef:            {u16(), u16(), u16(), u16(), u32(), blobIdx(), strIdx(), strIdx(), blobIdx()},
	tAssemblyRefProcessor:   {u32(), tableIdx(tAssemblyRef)},
	tAssemblyRefOS:          {u32(), u32(), u32(), tableIdx(tAssemblyRef)},
	tFile:                   {u32(), strIdx(), blobIdx()},
	tExportedType:           {u32(), u32(), strIdx(), strIdx(), codedIdx(cImplementation)},
	tManifestResource:       {u32(), u32(), strIdx(), codedIdx(cImplementation)},
	tNestedClass:            {tableIdx(tTypeDef), tableIdx(tTypeDef)},
	tGenericParam:           {u16(), u16(), codedIdx(cTypeOrMethodDef), strIdx()},
	tMethodSpec:             {codedIdx(cMethodDefOrRef), blobIdx()},
	tGenericParamConstraint: {tableIdx(tGenericParam), codedIdx(cTypeDefOrRef)},
}

// sizes captures the heap and table index widths of one image.
type sizes struct {
	stringIdx int
	guidIdx   int
	blobIdx   int
	rows      [tableCount]uint32
}

func (s *sizes) tableIndex(t tableID) int {
	if s.rows[t] < 1<<16 {
		return 2
	}
	return 4
}

func (s *sizes) codedIndex(k codedKind) int {
	ci := codedIndexes[k]
	var max uint32
	for _, t := range ci.tables {
		if t != tNone && s.rows[t] > max {
			max = s.rows[t]
		}
	}
	if max < 1<<(16-ci.bits) {
		return 2
	}
	return 4
}

func (s *sizes) columnSize(c column) int {
	switch c.kind {
	case colU16:
		return 2
	case colU32:
		return 4
	case colString:
		return s.stringIdx
	case colGUID:
		return s.guidIdx
	case colBlob:
		return s.blobIdx
	case colTable:
		return s.tableIndex(c.table)
	case colCoded:
		return s.codedIndex(c.coded)
	}
	return 0
}

func encodeCompressed(v uint32) []byte {
	switch {
	case v < 0x80:
		return []byte{byte(v)}
	case v < 0x4000:
		return []byte{byte(v>>8) | 0x80, byte(v)}
	default:
		return []byte{byte(v>>24) | 0xC0, byte(v >> 16), byte(v >> 8), byte(v)}
	}
}

func serString(s string) []byte {
	return append(encodeCompressed(uint32(len(s))), s...)
}

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// coded builds a coded index value for table t at row.
func coded(k codedKind, t tableID, row uint32) uint32 {
	ci := codedIndexes[k]
	for tag, candidate := range ci.tables {
		if candidate == t {
			return row<<ci.bits | uint32(tag)
		}
	}
	panic("table not part of coded index")
}

type mdBuilder struct {
	strs   []byte
	strIdx map[string]uint32
	blobs  []byte
	guids  []byte
	rows   [tableCount][][]uint32
}

func newMDBuilder() *mdBuilder {
	return &mdBuilder{strs: []byte{0}, strIdx: map[string]uint32{"": 0}, blobs: []byte{0}}
}

func (b *mdBuilder) str(s string) uint32 {
	if idx, ok := b.strIdx[s]; ok {
		return idx
	}
	idx := uint32(len(b.strs))
	b.strs = append(append(b.strs, s...), 0)
	b.strIdx[s] = idx
	return idx
}

func (b *mdBuilder) blob(data []byte) uint32 {
	idx := uint32(len(b.blobs))
	b.blobs = append(append(b.blobs, encodeCompressed(uint32(len(data)))...), data...)
	return idx
}

func (b *mdBuilder) guid() uint32 {
	b.guids = append(b.guids, make([]byte, 16)...)
	return uint32(len(b.guids) / 16)
}

func (b *mdBuilder) add(t tableID, cols ...uint32) uint32 {
	if len(cols) != len(tableSchemas[t]) {
		panic("column count mismatch")
	}
	b.rows[t] = append(b.rows[t], cols)
	return uint32(len(b.rows[t]))
}

func (b *mdBuilder) tableStream() []byte {
	s := sizes{stringIdx: 2, guidIdx: 2, blobIdx: 2}
	var valid uint64
	for t := range b.rows {
		if n := len(b.rows[t]); n > 0 {
			s.rows[t] = uint32(n)
			valid |= 1 << uint(t)
		}
	}
	var buf bytes.Buffer
	buf.Write(le32(0))
	buf.Write([]byte{2, 0, 0, 1})
	buf.Write(binary.LittleEndian.AppendUint64(nil, valid))
	buf.Write(binary.LittleEndian.AppendUint64(nil, 0))
	for t := range b.rows {
		if s.rows[t] > 0 {
			buf.Write(le32(s.rows[t]))
		}
	}
	for t := range b.rows {
		for _, row := range b.rows[t] {
			for i, col := range tableSchemas[t] {
				if s.columnSize(col) == 4 {
					buf.Write(le32(row[i]))
				} else {
					buf.Write(le16(uint16(row[i])))
				}
			}
		}
	}
	return buf.Bytes()
}

func pad4(data []byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	return data
}

// render renders the metadata root with #~, #Strings, #Blob and #GUID streams.
func (b *mdBuilder) render() []byte {
	streams := []struct {
		name string
		data []byte
	}{
		{"#~", pad4(b.tableStream())},
		{"#Strings", pad4(append([]byte(nil), b.strs...))},
		{"#Blob", pad4(append([]byte(nil), b.blobs...))},
		{"#GUID", b.guids},
	}
	version := pad4([]byte("v4.0.30319\x00"))

	headerLen := 16 + len(version) + 4
	for _, s := range streams {
		headerLen += 8 + len(pad4([]byte(s.name+"\x00")))
	}

	var buf bytes.Buffer
	buf.Write(le32(metadataSignature))
	buf.Write(le16(1))
	buf.Write(le16(1))
	buf.Write(le32(0))
	buf.Write(le32(uint32(len(version))))
	buf.Write(version)
	buf.Write(le16(0))
	buf.Write(le16(uint16(len(streams))))
	offset := headerLen
	for _, s := range streams {
		buf.Write(le32(uint32(offset)))
		buf.Write(le32(uint32(len(s.data))))
		buf.Write(pad4([]byte(s.name + "\x00")))
		offset += len(s.data)
	}
	for _, s := range streams {
		buf.Write(s.data)
	}
	return buf.Bytes()
}

const (
	cliHeaderDirectory = 14
	cliHeaderSize      = 72
	cliMetadataOffset  = 8
	testSectionRVA     = 0x2000
	testRawOffset      = 0x200
)

// wrapPE embeds metadata in a minimal PE32 image with one section.
// withCLI=false leaves the CLI header directory empty.
func wrapPE(md []byte, withCLI bool) []byte {
	body := make([]byte, cliHeaderSize)
	binary.LittleEndian.PutUint32(body[0:], cliHeaderSize)
	binary.LittleEndian.PutUint32(body[cliMetadataOffset:], testSectionRVA+cliHeaderSize)
	binary.LittleEndian.PutUint32(body[cliMetadataOffset+4:], uint32(len(md)))
	body = append(body, md...)
	raw := len(body)
	for raw%0x200 != 0 {
		raw++
	}

	var buf bytes.Buffer
	dos := make([]byte, 0x40)
	copy(dos, "MZ")
	binary.LittleEndian.PutUint32(dos[0x3c:], 0x40)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	fh := pe.FileHeader{Machine: pe.IMAGE_FILE_MACHINE_I386, NumberOfSections: 1, SizeOfOptionalHeader: 224}
	_ = binary.Write(&buf, binary.LittleEndian, fh)
	oh := pe.OptionalHeader32{
		Magic:               0x10b,
		ImageBase:           0x400000,
		SectionAlignment:    0x2000,
		FileAlignment:       0x200,
		SizeOfImage:         testSectionRVA + uint32(raw+0x1fff)&^0x1fff,
		SizeOfHeaders:       testRawOffset,
		NumberOfRvaAndSizes: 16,
	}
	if withCLI {
		oh.DataDirectory[cliHeaderDirectory] = pe.DataDirectory{VirtualAddress: testSectionRVA, Size: cliHeaderSize}
	}
	_ = binary.Write(&buf, binary.LittleEndian, oh)
	sh := pe.SectionHeader32{
		VirtualSize:      uint32(len(body)),
		VirtualAddress:   testSectionRVA,
		SizeOfRawData:    uint32(raw),
		PointerToRawData: testRawOffset,
	}
	copy(sh.Name[:], ".text")
	_ = binary.Write(&buf, binary.LittleEndian, sh)
	for buf.Len() < testRawOffset {
		buf.WriteByte(0)
	}
	buf.Write(body)
	for buf.Len() < testRawOffset+raw {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
