package analyzers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// ELA performs error-level analysis: the image is re-encoded at a fixed
// high JPEG quality and diffed against the original, with the difference
// amplified so localized compression inconsistencies become visible.
type ELA struct {
	// MeanThreshold classifies the image as manipulated when the mean of
	// the amplified difference map exceeds it (8-bit scale).
	MeanThreshold float64
	Quality       int
	Amplify       float64
}

func NewELA(meanThreshold float64) *ELA {
	if meanThreshold <= 0 {
		meanThreshold = 15
	}
	return &ELA{MeanThreshold: meanThreshold, Quality: 95, Amplify: 10}
}

func (a *ELA) Name() analysis.Kind { return analysis.KindELA }

func (a *ELA) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindELA, 50, func() analysis.Record {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img.Source, &jpeg.Options{Quality: a.Quality}); err != nil {
			return a.unknown(fmt.Sprintf("re-encoding image: %v", err))
		}
		recompressed, err := jpeg.Decode(&buf)
		if err != nil {
			return a.unknown(fmt.Sprintf("decoding re-encoded image: %v", err))
		}

		w, h := img.Width, img.Height
		diff := make([]float64, w*h) // amplified luminance difference
		render := image.NewRGBA(image.Rect(0, 0, w, h))
		bounds := img.Source.Bounds()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				or, og, ob, _ := img.Source.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				rr, rg, rb, _ := recompressed.At(x, y).RGBA()
				dr := clamp(math.Abs(float64(or>>8)-float64(rr>>8))*a.Amplify, 0, 255)
				dg := clamp(math.Abs(float64(og>>8)-float64(rg>>8))*a.Amplify, 0, 255)
				db := clamp(math.Abs(float64(ob>>8)-float64(rb>>8))*a.Amplify, 0, 255)
				i := y*w + x
				diff[i] = 0.299*dr + 0.587*dg + 0.114*db
				o := render.PixOffset(x, y)
				render.Pix[o], render.Pix[o+1], render.Pix[o+2], render.Pix[o+3] =
					uint8(dr), uint8(dg), uint8(db), 0xFF
			}
		}

		meanVal := mean(diff)
		stdVal := stddev(diff)

		highVarThreshold := meanVal + stdVal
		var highVarCount int
		for _, d := range diff {
			if d > highVarThreshold {
				highVarCount++
			}
		}
		highVarPercent := float64(highVarCount) / float64(len(diff)) * 100

		var edges float64
		for y := 0; y < h-1; y++ {
			for x := 0; x < w; x++ {
				edges += math.Abs(diff[(y+1)*w+x] - diff[y*w+x])
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w-1; x++ {
				edges += math.Abs(diff[y*w+x+1] - diff[y*w+x])
			}
		}
		edgeDensity := edges / float64(len(diff))

		meanFactor := math.Min(40, meanVal/255*100)
		stdFactor := math.Min(20, stdVal/50*20)
		varianceFactor := math.Min(20, highVarPercent*2)

		rec := analysis.Record{
			Analyzer: analysis.KindELA,
			Metrics: map[string]float64{
				"ela_mean":              meanVal,
				"ela_std":               stdVal,
				"high_variance_percent": highVarPercent,
				"edge_density":          edgeDensity,
			},
		}

		if meanVal > a.MeanThreshold {
			rec.Result = "Manipulated"
			rec.Detected = true
			rec.Confidence = clamp(50+meanFactor+stdFactor+varianceFactor, 0, 100)
			rec.Score = 100 - rec.Confidence
			rec.Indicators = []string{fmt.Sprintf(
				"Bright error levels (mean %.1f) suggest inconsistent compression; high variance regions %.1f%%",
				meanVal, highVarPercent)}
		} else {
			rec.Result = "Authentic"
			rec.Confidence = clamp(math.Max(30, 100-meanFactor-stdFactor/2-varianceFactor/2), 0, 100)
			rec.Score = rec.Confidence
			rec.Indicators = []string{}
		}

		var out bytes.Buffer
		if err := jpeg.Encode(&out, render, &jpeg.Options{Quality: 90}); err == nil {
			rec.Artifact = out.Bytes()
		}
		return rec
	})
}

// unknown is the degraded result for decode/processing failures: zero
// confidence, neutral score, the error preserved as the description.
func (a *ELA) unknown(msg string) analysis.Record {
	return analysis.Record{
		Analyzer:   analysis.KindELA,
		Score:      50,
		Confidence: 0,
		Result:     "Unknown",
		Indicators: []string{msg},
		Error:      msg,
	}
}
