package analyzers

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Minimal EXIF reader: just enough of the TIFF IFD structure to pull the
// capture tags the metadata analyzer cares about. Malformed segments are
// reported as absent metadata, never as an error.

const (
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagSoftware         = 0x0131
	tagDateTime         = 0x0132
	tagExifIFD          = 0x8769
	tagExposureTime     = 0x829A
	tagFNumber          = 0x829D
	tagISOSpeedRatings  = 0x8827
	tagDateTimeOriginal = 0x9003
)

var exifTagNames = map[uint16]string{
	tagMake:             "Make",
	tagModel:            "Model",
	tagSoftware:         "Software",
	tagDateTime:         "DateTime",
	tagExposureTime:     "ExposureTime",
	tagFNumber:          "FNumber",
	tagISOSpeedRatings:  "ISOSpeedRatings",
	tagDateTimeOriginal: "DateTimeOriginal",
}

// parseExif extracts named capture tags from JPEG APP1 or PNG eXIf data.
// ok is false when no EXIF block exists at all.
func parseExif(raw []byte) (map[string]string, bool) {
	tiff := findTIFF(raw)
	if tiff == nil {
		return nil, false
	}
	tags := make(map[string]string)
	parseTIFF(tiff, tags)
	return tags, true
}

// findTIFF locates the TIFF payload inside a JPEG APP1 "Exif" segment or a
// PNG eXIf chunk.
func findTIFF(raw []byte) []byte {
	if len(raw) < 12 {
		return nil
	}
	// JPEG: walk markers until APP1 with the Exif header.
	if raw[0] == 0xFF && raw[1] == 0xD8 {
		i := 2
		for i+4 <= len(raw) && raw[i] == 0xFF {
			marker := raw[i+1]
			if marker == 0xDA || marker == 0xD9 { // start of scan / EOI
				break
			}
			segLen := int(binary.BigEndian.Uint16(raw[i+2 : i+4]))
			if segLen < 2 || i+2+segLen > len(raw) {
				break
			}
			if marker == 0xE1 && segLen >= 8 {
				payload := raw[i+4 : i+2+segLen]
				if len(payload) > 6 && string(payload[:6]) == "Exif\x00\x00" {
					return payload[6:]
				}
			}
			i += 2 + segLen
		}
		return nil
	}
	// PNG: eXIf chunk carries a bare TIFF block.
	if string(raw[1:4]) == "PNG" {
		for i := 8; i+8 <= len(raw); {
			chunkLen := int(binary.BigEndian.Uint32(raw[i : i+4]))
			chunkType := string(raw[i+4 : i+8])
			if chunkLen < 0 || i+8+chunkLen > len(raw) {
				break
			}
			if chunkType == "eXIf" {
				return raw[i+8 : i+8+chunkLen]
			}
			i += 12 + chunkLen
		}
	}
	return nil
}

func parseTIFF(tiff []byte, tags map[string]string) {
	if len(tiff) < 8 {
		return
	}
	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return
	}
	walkIFD(tiff, order, int(order.Uint32(tiff[4:8])), tags, 0)
}

// walkIFD reads one IFD and recurses once into the EXIF sub-IFD.
func walkIFD(tiff []byte, order binary.ByteOrder, offset int, tags map[string]string, depth int) {
	if depth > 2 || offset < 0 || offset+2 > len(tiff) {
		return
	}
	count := int(order.Uint16(tiff[offset : offset+2]))
	for i := 0; i < count; i++ {
		e := offset + 2 + i*12
		if e+12 > len(tiff) {
			return
		}
		tag := order.Uint16(tiff[e : e+2])
		typ := order.Uint16(tiff[e+2 : e+4])
		n := int(order.Uint32(tiff[e+4 : e+8]))
		value := tiff[e+8 : e+12]

		if tag == tagExifIFD {
			walkIFD(tiff, order, int(order.Uint32(value)), tags, depth+1)
			continue
		}
		name, wanted := exifTagNames[tag]
		if !wanted {
			continue
		}
		if s, ok := decodeTagValue(tiff, order, typ, n, value); ok {
			tags[name] = s
		}
	}
}

func decodeTagValue(tiff []byte, order binary.ByteOrder, typ uint16, count int, value []byte) (string, bool) {
	switch typ {
	case 2: // ASCII
		data := value
		if count > 4 {
			off := int(order.Uint32(value))
			if off < 0 || off+count > len(tiff) {
				return "", false
			}
			data = tiff[off : off+count]
		} else if count <= len(data) {
			data = data[:count]
		}
		return strings.TrimRight(string(data), "\x00 "), true
	case 3: // SHORT
		return fmt.Sprintf("%d", order.Uint16(value[:2])), true
	case 4: // LONG
		return fmt.Sprintf("%d", order.Uint32(value)), true
	case 5: // RATIONAL
		off := int(order.Uint32(value))
		if off < 0 || off+8 > len(tiff) {
			return "", false
		}
		num := order.Uint32(tiff[off : off+4])
		den := order.Uint32(tiff[off+4 : off+8])
		return fmt.Sprintf("%d/%d", num, den), true
	}
	return "", false
}
