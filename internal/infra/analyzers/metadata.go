package analyzers

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// editingSignatures are software-tag fingerprints of image editors and
// generative tools. Matching is case-insensitive substring.
var editingSignatures = []string{
	"photoshop",
	"gimp",
	"lightroom",
	"paint.net",
	"pixelmator",
	"affinity",
	"canva",
	"snapseed",
	"dall-e",
	"dall·e",
	"midjourney",
	"stable diffusion",
	"comfyui",
	"firefly",
}

// expectedCameraTags are the capture tags a genuine camera file carries.
var expectedCameraTags = []string{
	"Make", "Model", "DateTimeOriginal", "ExposureTime", "FNumber", "ISOSpeedRatings",
}

// Metadata inspects embedded capture metadata for editing-tool fingerprints
// and inconsistencies. Missing or unreadable metadata is not itself
// suspicious; only specific positive findings lower the score.
type Metadata struct{}

func NewMetadata() *Metadata { return &Metadata{} }

func (a *Metadata) Name() analysis.Kind { return analysis.KindMetadata }

func (a *Metadata) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindMetadata, 50, func() analysis.Record {
		var indicators []string
		detected := false

		tags, hasExif := parseExif(img.Raw)
		software := ""
		if hasExif {
			software = tags["Software"]
		}
		// PNG text chunks can carry generator signatures outside EXIF.
		blob := strings.ToLower(software + "\x00" + pngTextChunks(img.Raw))

		for _, sig := range editingSignatures {
			if strings.Contains(blob, sig) {
				indicators = append(indicators, fmt.Sprintf("Editing software detected in metadata: %s", sig))
				detected = true
				break
			}
		}

		if hasExif {
			var missing []string
			for _, tag := range expectedCameraTags {
				if tags[tag] == "" {
					missing = append(missing, tag)
				}
			}
			if len(missing) > 3 {
				indicators = append(indicators, fmt.Sprintf(
					"Expected camera tags missing: %s", strings.Join(missing, ", ")))
			}

			dt, dto := tags["DateTime"], tags["DateTimeOriginal"]
			if dt != "" && dto != "" && dt != dto {
				indicators = append(indicators, fmt.Sprintf(
					"Timestamp mismatch: DateTime %q vs DateTimeOriginal %q", dt, dto))
			}
		}

		score := clamp(100-20*float64(len(indicators)), 0, 100)
		if indicators == nil {
			indicators = []string{}
		}
		metrics := map[string]float64{"indicator_count": float64(len(indicators))}
		if hasExif {
			metrics["exif_present"] = 1
		} else {
			metrics["exif_present"] = 0
		}
		return analysis.Record{
			Analyzer:   analysis.KindMetadata,
			Score:      score,
			Confidence: 100 - score,
			Detected:   detected,
			Indicators: indicators,
			Metrics:    metrics,
		}
	})
}

// pngTextChunks concatenates tEXt/iTXt chunk payloads of a PNG file.
func pngTextChunks(raw []byte) string {
	if len(raw) < 8 || raw[0] != 0x89 || string(raw[1:4]) != "PNG" {
		return ""
	}
	var sb strings.Builder
	for i := 8; i+8 <= len(raw); {
		chunkLen := int(binary.BigEndian.Uint32(raw[i : i+4]))
		chunkType := string(raw[i+4 : i+8])
		if chunkLen < 0 || i+8+chunkLen > len(raw) {
			break
		}
		if chunkType == "tEXt" || chunkType == "iTXt" {
			sb.Write(raw[i+8 : i+8+chunkLen])
			sb.WriteByte('\x00')
		}
		i += 12 + chunkLen
	}
	return sb.String()
}
