// Package mot implements ETSI EN 301 234 Multimedia Object Transfer:
// reassembly of MOT objects (header + body, delivered as segments) and
// extraction of the header's length-tagged parameters, the primary use
// being DAB slideshow images carried over packet mode or X-PAD.
package mot

import (
	"encoding/binary"
	"fmt"
)

// ContentType identifies a MOT body's MIME-ish content, per clause 6.2's
// content type / content subtype table (the common DAB slideshow subset).
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentJPEG
	ContentPNG
	ContentText
)

// Header is a parsed MOT header: the mandatory core plus any recognized
// parameter extensions.
type Header struct {
	BodySize    int
	HeaderSize  int
	ContentType ContentType
	ContentName string
	TriggerTime *uint32
	ExpiryTime  *uint32
	MimeType    string
}

// ParseHeader decodes a MOT header core (7 bytes: 28-bit body size, 13-bit
// header size, 6-bit content type, 9-bit content subtype) followed by any
// parameter blocks, per clause 6.1/6.2.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 7 {
		return Header{}, fmt.Errorf("mot: header core too short: %d bytes", len(data))
	}
	v := binary.BigEndian.Uint64(append(make([]byte, 8-7), data[:7]...))
	bodySize := int((v >> 28) & 0xFFFFFFF)
	headerSize := int((v >> 15) & 0x1FFF)
	contentTypeField := int((v >> 9) & 0x3F)
	contentSubtype := int(v & 0x1FF)

	h := Header{
		BodySize:    bodySize,
		HeaderSize:  headerSize,
		ContentType: classifyContentType(contentTypeField, contentSubtype),
	}

	if headerSize > len(data) {
		return h, fmt.Errorf("mot: declared header size %d exceeds buffer %d", headerSize, len(data))
	}
	params := data[7:headerSize]
	parseParameters(params, &h)
	return h, nil
}

func classifyContentType(typ, subtype int) ContentType {
	switch {
	case typ == 2 && subtype == 3: // image/jpeg
		return ContentJPEG
	case typ == 2 && subtype == 1: // image/png per the general/specific pairing
		return ContentPNG
	case typ == 0:
		return ContentText
	default:
		return ContentUnknown
	}
}

// parseParameters walks the header's PLI/parameter-ID/data-field extension
// blocks (clause 6.2), filling in the fields this package understands and
// silently skipping ones it doesn't.
func parseParameters(data []byte, h *Header) {
	pos := 0
	for pos < len(data) {
		pli := data[pos] >> 6
		paramID := data[pos] & 0x3F
		pos++

		var fieldLen int
		switch pli {
		case 0:
			fieldLen = 0
		case 1:
			fieldLen = 1
		case 2:
			fieldLen = 4
		case 3:
			if pos >= len(data) {
				return
			}
			ext := data[pos]
			pos++
			fieldLen = int(ext & 0x7F)
			if ext&0x80 != 0 {
				if pos >= len(data) {
					return
				}
				fieldLen = fieldLen<<8 | int(data[pos])
				pos++
			}
		}
		if pos+fieldLen > len(data) {
			return
		}
		field := data[pos : pos+fieldLen]
		pos += fieldLen

		switch paramID {
		case 0x0C: // ContentName
			if len(field) > 1 {
				h.ContentName = string(field[1:])
			}
		case 0x04: // TriggerTime
			if len(field) >= 4 {
				t := binary.BigEndian.Uint32(field[:4])
				h.TriggerTime = &t
			}
		case 0x05: // ExpireTime
			if len(field) >= 4 {
				t := binary.BigEndian.Uint32(field[:4])
				h.ExpiryTime = &t
			}
		case 0x10: // MIME type extension
			h.MimeType = string(field)
		}
	}
}
