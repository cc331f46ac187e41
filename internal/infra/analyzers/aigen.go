package analyzers

import (
	"context"
	"fmt"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

// AIGen fuses six independent signals of synthetic content. All six are
// always evaluated; there is no early exit, so the indicator list reflects
// the full evidence either way.
type AIGen struct {
	// FreqRatioThreshold flags a log-spectrum std/mean below this value.
	// Natural photos measure upward of ~0.11 even when smooth; synthetic
	// output sits lower.
	FreqRatioThreshold  float64
	CorrThreshold       float64 // adjacent-pixel correlation above this
	TextureThreshold    float64 // uniform-neighborhood fraction above this
	EdgeSparse          float64 // edge density below this
	EdgeDense           float64 // edge density above this
	PaletteMinPeaks     int     // hue peaks below this suggest limited palette
	SymmetryThreshold   float64 // mirrored-face correlation above this
	IndicatorConfidence float64 // confidence contributed per indicator
}

func NewAIGen() *AIGen {
	return &AIGen{
		FreqRatioThreshold:  0.1,
		CorrThreshold:       0.95,
		TextureThreshold:    0.8,
		EdgeSparse:          0.05,
		EdgeDense:           0.3,
		PaletteMinPeaks:     5,
		SymmetryThreshold:   0.9,
		IndicatorConfidence: 20,
	}
}

func (a *AIGen) Name() analysis.Kind { return analysis.KindAI }

func (a *AIGen) Analyze(ctx context.Context, img *analysis.Image) analysis.Record {
	return run(analysis.KindAI, 50, func() analysis.Record {
		var indicators []string
		metrics := map[string]float64{}

		// 1. Frequency-domain regularity.
		ratio := a.spectrumRatio(img)
		metrics["frequency_ratio"] = ratio
		if ratio < a.FreqRatioThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Unnaturally regular frequency spectrum (ratio %.2f)", ratio))
		}

		// 2. Adjacent-pixel correlation.
		hCorr, vCorr := a.adjacentCorrelation(img)
		metrics["correlation_horizontal"] = hCorr
		metrics["correlation_vertical"] = vCorr
		if hCorr > a.CorrThreshold || vCorr > a.CorrThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Excessive adjacent-pixel correlation (h %.3f, v %.3f)", hCorr, vCorr))
		}

		// 3. Texture uniformity.
		uniform := a.textureUniformity(img)
		metrics["texture_uniformity"] = uniform
		if uniform > a.TextureThreshold {
			indicators = append(indicators, fmt.Sprintf(
				"Overly uniform texture patterns (%.2f)", uniform))
		}

		// 4. Edge density.
		edges := a.edgeDensity(img)
		metrics["edge_density"] = edges
		if edges < a.EdgeSparse || edges > a.EdgeDense {
			indicators = append(indicators, fmt.Sprintf(
				"Unnatural edge density (%.3f)", edges))
		}

		// 5. Color-palette concentration.
		peaks := a.huePeaks(img)
		metrics["hue_peaks"] = float64(peaks)
		if peaks < a.PaletteMinPeaks {
			indicators = append(indicators, fmt.Sprintf(
				"Artificially limited color palette (%d hue peaks)", peaks))
		}

		// 6. Facial symmetry, only when a plausible face region exists.
		if sym, found := a.facialSymmetry(img); found {
			metrics["facial_symmetry"] = sym
			if sym > a.SymmetryThreshold {
				indicators = append(indicators, fmt.Sprintf(
					"Unnaturally perfect facial symmetry (%.3f)", sym))
			}
		}

		confidence := clamp(a.IndicatorConfidence*float64(len(indicators)), 0, 100)
		if indicators == nil {
			indicators = []string{}
		}
		return analysis.Record{
			Analyzer:   analysis.KindAI,
			Score:      100 - confidence,
			Confidence: confidence,
			Detected:   len(indicators) >= 2,
			Indicators: indicators,
			Metrics:    metrics,
		}
	})
}

// spectrumRatio computes std/mean of the log-magnitude Fourier spectrum of
// a downsampled luminance plane. Natural images spread energy unevenly;
// generator output tends to be conspicuously regular.
func (a *AIGen) spectrumRatio(img *analysis.Image) float64 {
	const n = 64
	g := make([][]float64, n)
	for y := 0; y < n; y++ {
		g[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			sx := x * img.Width / n
			sy := y * img.Height / n
			g[y][x] = img.Luma(sx, sy)
		}
	}

	// Separable 2D DFT: rows, then columns.
	rowsRe := make([][]float64, n)
	rowsIm := make([][]float64, n)
	for y := 0; y < n; y++ {
		rowsRe[y], rowsIm[y] = dft1(g[y], nil)
	}
	mags := make([]float64, 0, n*n)
	colRe := make([]float64, n)
	colIm := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			colRe[y] = rowsRe[y][x]
			colIm[y] = rowsIm[y][x]
		}
		re, im := dft1(colRe, colIm)
		for y := 0; y < n; y++ {
			mags = append(mags, math.Log1p(math.Hypot(re[y], im[y])))
		}
	}

	m := mean(mags)
	if m == 0 {
		return 0
	}
	return stddev(mags) / m
}

// dft1 computes a 1D DFT of complex input (im may be nil for real input).
func dft1(re, im []float64) ([]float64, []float64) {
	n := len(re)
	outRe := make([]float64, n)
	outIm := make([]float64, n)
	for k := 0; k < n; k++ {
		var sr, si float64
		for t := 0; t < n; t++ {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			c, s := math.Cos(angle), math.Sin(angle)
			sr += re[t] * c
			si += re[t] * s
			if im != nil {
				sr -= im[t] * s
				si += im[t] * c
			}
		}
		outRe[k], outIm[k] = sr, si
	}
	return outRe, outIm
}

func (a *AIGen) adjacentCorrelation(img *analysis.Image) (float64, float64) {
	w, h := img.Width, img.Height
	var hA, hB, vA, vB []float64
	for y := 0; y < h; y += 2 {
		for x := 0; x < w-1; x += 2 {
			hA = append(hA, img.Luma(x, y))
			hB = append(hB, img.Luma(x+1, y))
		}
	}
	for y := 0; y < h-1; y += 2 {
		for x := 0; x < w; x += 2 {
			vA = append(vA, img.Luma(x, y))
			vB = append(vB, img.Luma(x, y+1))
		}
	}
	return pearson(hA, hB), pearson(vA, vB)
}

// textureUniformity measures the fraction of 3x3 neighborhoods whose
// binary pattern around the center has at most two transitions.
func (a *AIGen) textureUniformity(img *analysis.Image) float64 {
	w, h := img.Width, img.Height
	if w < 3 || h < 3 {
		return 0
	}
	offsets := [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}
	var uniform, total int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := img.Luma(x, y)
			var bits [8]bool
			for i, off := range offsets {
				bits[i] = img.Luma(x+off[0], y+off[1]) >= center
			}
			transitions := 0
			for i := 0; i < 8; i++ {
				if bits[i] != bits[(i+1)%8] {
					transitions++
				}
			}
			if transitions <= 2 {
				uniform++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(uniform) / float64(total)
}

// edgeDensity is the fraction of interior pixels whose Sobel gradient
// magnitude exceeds a fixed threshold.
func (a *AIGen) edgeDensity(img *analysis.Image) float64 {
	w, h := img.Width, img.Height
	if w < 3 || h < 3 {
		return 0
	}
	const threshold = 60
	var edges, total int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -img.Luma(x-1, y-1) + img.Luma(x+1, y-1) +
				-2*img.Luma(x-1, y) + 2*img.Luma(x+1, y) +
				-img.Luma(x-1, y+1) + img.Luma(x+1, y+1)
			gy := -img.Luma(x-1, y-1) - 2*img.Luma(x, y-1) - img.Luma(x+1, y-1) +
				img.Luma(x-1, y+1) + 2*img.Luma(x, y+1) + img.Luma(x+1, y+1)
			if math.Hypot(gx, gy) > threshold {
				edges++
			}
			total++
		}
	}
	return float64(edges) / float64(total)
}

// huePeaks counts hue-histogram bins far above the mean occupancy.
func (a *AIGen) huePeaks(img *analysis.Image) int {
	const bins = 36
	counts := make([]float64, bins)
	for i := range img.R {
		r, g, b := float64(img.R[i]), float64(img.G[i]), float64(img.B[i])
		maxC := math.Max(r, math.Max(g, b))
		minC := math.Min(r, math.Min(g, b))
		if maxC == 0 || (maxC-minC)/maxC < 0.1 {
			continue // effectively unsaturated, hue is meaningless
		}
		var hue float64
		d := maxC - minC
		switch maxC {
		case r:
			hue = math.Mod((g-b)/d, 6)
		case g:
			hue = (b-r)/d + 2
		default:
			hue = (r-g)/d + 4
		}
		hue *= 60
		if hue < 0 {
			hue += 360
		}
		bin := int(hue / 10)
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}
	m := mean(counts)
	peaks := 0
	for _, c := range counts {
		if c > 2*m && c > 0 {
			peaks++
		}
	}
	return peaks
}

// facialSymmetry finds a plausible face region via a skin-tone bounding
// box, mirrors its right half and correlates against the left. found is
// false when no usable face region exists.
func (a *AIGen) facialSymmetry(img *analysis.Image) (float64, bool) {
	w, h := img.Width, img.Height
	minX, minY, maxX, maxY := w, h, -1, -1
	skin := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, b := float64(img.R[i]), float64(img.G[i]), float64(img.B[i])
			maxC := math.Max(r, math.Max(g, b))
			minC := math.Min(r, math.Min(g, b))
			if r > 95 && g > 40 && b > 20 && maxC-minC > 15 &&
				math.Abs(r-g) > 15 && r > g && r > b {
				skin++
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 || skin < img.Pixels()/50 {
		return 0, false
	}
	bw, bh := maxX-minX+1, maxY-minY+1
	if bw < 40 || bh < 40 {
		return 0, false
	}
	aspect := float64(bw) / float64(bh)
	if aspect < 0.4 || aspect > 2.5 {
		return 0, false
	}

	half := bw / 2
	var left, right []float64
	for y := minY; y <= maxY; y++ {
		for x := 0; x < half; x++ {
			left = append(left, img.Luma(minX+x, y))
			right = append(right, img.Luma(maxX-x, y))
		}
	}
	return pearson(left, right), true
}
