package analyzers

import "github.com/fotoproof/fotoproof/internal/domain/analysis"

// Default returns the full analyzer set in its conventional order. The
// analyzers are independent: each one sees only the shared decoded image,
// so they can be added or removed without touching the others or the
// decision engine.
func Default(elaMeanThreshold float64) []analysis.Analyzer {
	return []analysis.Analyzer{
		NewELA(elaMeanThreshold),
		NewMetadata(),
		NewCompression(),
		NewCopyMove(),
		NewNoise(),
		NewHistogram(),
		NewAIGen(),
	}
}
