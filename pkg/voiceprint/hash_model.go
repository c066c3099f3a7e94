package voiceprint

import (
	"crypto/sha256"

	"github.com/earshot/earshot/pkg/audio"
)

// DefaultHashDimension is the default vector length of HashModel.
const DefaultHashDimension = 32

// HashModel is a dependency-free embedding stand-in: each frame is
// hashed with SHA-256 and the leading digest bytes are averaged across
// frames into a fixed-length vector. It is deterministic and cheap,
// which makes it useful as the reference backend and in tests, but it
// carries no acoustic meaning — production verification plugs a real
// speaker model in behind the Model interface.
type HashModel struct {
	dim int
}

var _ Model = (*HashModel)(nil)

// HashModelOption configures a HashModel.
type HashModelOption func(*HashModel)

// WithHashDimension sets the embedding length (default 32, max 32 —
// one SHA-256 digest).
func WithHashDimension(n int) HashModelOption {
	return func(m *HashModel) {
		if n > 0 && n <= sha256.Size {
			m.dim = n
		}
	}
}

// NewHashModel creates a HashModel with the given options.
func NewHashModel(opts ...HashModelOption) *HashModel {
	m := &HashModel{dim: DefaultHashDimension}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Embed hashes every frame and averages the digest bytes. An empty
// frame sequence yields the zero vector.
func (m *HashModel) Embed(frames []audio.Frame, sampleRate int) ([]float32, error) {
	accum := make([]float64, m.dim)
	total := 0
	for _, frame := range frames {
		digest := sha256.Sum256(frame)
		for i := 0; i < m.dim; i++ {
			accum[i] += float64(digest[i])
		}
		total++
	}

	out := make([]float32, m.dim)
	if total == 0 {
		return out, nil
	}
	for i, v := range accum {
		out[i] = float32(v / float64(total))
	}
	return out, nil
}

// Dimension returns the configured vector length.
func (m *HashModel) Dimension() int { return m.dim }
