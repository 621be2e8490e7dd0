// Where: cli/internal/infra/clrmeta/root.go
// What: Metadata root checks and heap accessors over the streams saferwall/pe decoded.
// Why: Heaps are copied out so the model never points into the mapped file.
package clrmeta

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/saferwall/pe"
)

const metadataSignature = 0x424A5342

type image struct {
	strings []byte
	blobs   []byte
	tables  *tableStream
}

func newImage(clr pe.CLRData) (*image, error) {
	if sig := clr.MetadataHeader.Signature; sig != metadataSignature {
		return nil, &FormatError{Where: "metadata root", Err: fmt.Errorf("bad signature 0x%08x", sig)}
	}
	for _, h := range clr.MetadataStreamHeaders {
		data, ok := clr.MetadataStreams[h.Name]
		if !ok || len(data) != int(h.Size) {
			return nil, &FormatError{Where: "stream " + h.Name, Err: errShort}
		}
	}
	if _, ok := clr.MetadataStreams["#~"]; !ok {
		return nil, &FormatError{Where: "metadata root", Err: errors.New("missing #~ stream")}
	}

	img := &image{
		strings: bytes.Clone(clr.MetadataStreams["#Strings"]),
		blobs:   bytes.Clone(clr.MetadataStreams["#Blob"]),
		tables:  &tableStream{},
	}
	for id, tbl := range clr.MetadataTables {
		if int(id) < 0 || int(id) >= tableCount {
			continue
		}
		img.tables.cells[int(id)] = tableCells(tbl.Content)
	}
	return img, nil
}

// str reads a #Strings entry.
func (img *image) str(idx uint32) string {
	if int(idx) >= len(img.strings) {
		return ""
	}
	rest := img.strings[idx:]
	if end := bytes.IndexByte(rest, 0); end >= 0 {
		return string(rest[:end])
	}
	return string(rest)
}

// blob reads a length-prefixed #Blob entry.
func (img *image) blob(idx uint32) ([]byte, error) {
	if idx == 0 {
		return nil, nil
	}
	if int(idx) >= len(img.blobs) {
		return nil, &FormatError{Where: "#Blob", Err: fmt.Errorf("index %d out of range", idx)}
	}
	n, used, err := decodeCompressed(img.blobs[idx:])
	if err != nil {
		return nil, &FormatError{Where: "#Blob", Err: err}
	}
	start := int(idx) + used
	if start+int(n) > len(img.blobs) {
		return nil, &FormatError{Where: "#Blob", Err: errShort}
	}
	return img.blobs[start : start+int(n)], nil
}
