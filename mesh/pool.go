package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultEpsilon is the coordinate deduplication tolerance applied during
// construction unless overridden with WithEpsilon.
const DefaultEpsilon = 1e-9

// Option adjusts mesh construction behavior.
type Option func(*buildOptions)

type buildOptions struct {
	eps   float64
	dedup bool
}

func defaultBuildOptions() buildOptions {
	return buildOptions{eps: DefaultEpsilon, dedup: true}
}

// WithEpsilon sets the vertex deduplication tolerance.
func WithEpsilon(eps float64) Option {
	return func(o *buildOptions) { o.eps = eps }
}

// WithoutDedup disables vertex deduplication; input coordinates become the
// pool verbatim and input indices are used unchanged.
func WithoutDedup() Option {
	return func(o *buildOptions) { o.dedup = false }
}

// pointIndex deduplicates coordinates within eps via a quantized spatial
// hash. Bucket width equals eps, so a near-duplicate is always within the
// 27-bucket neighborhood of its quantized cell.
type pointIndex struct {
	eps     float64
	buckets map[[3]int][]int
	pts     []r3.Vec
}

func newPointIndex(eps float64, capHint int) *pointIndex {
	return &pointIndex{
		eps:     eps,
		buckets: make(map[[3]int][]int, capHint),
		pts:     make([]r3.Vec, 0, capHint),
	}
}

func (pi *pointIndex) key(p r3.Vec) [3]int {
	return [3]int{
		int(math.Floor(p.X / pi.eps)),
		int(math.Floor(p.Y / pi.eps)),
		int(math.Floor(p.Z / pi.eps)),
	}
}

// insert returns the pool index for p, reusing an existing vertex when one
// lies within eps.
func (pi *pointIndex) insert(p r3.Vec) int {
	k := pi.key(p)
	eps2 := pi.eps * pi.eps
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				nk := [3]int{k[0] + dx, k[1] + dy, k[2] + dz}
				for _, idx := range pi.buckets[nk] {
					d := r3.Sub(pi.pts[idx], p)
					if r3.Norm2(d) <= eps2 {
						return idx
					}
				}
			}
		}
	}
	idx := len(pi.pts)
	pi.pts = append(pi.pts, p)
	pi.buckets[k] = append(pi.buckets[k], idx)
	return idx
}

// buildPool deduplicates coords and returns the pool along with the remap
// from input position to pool index.
func buildPool(coords []r3.Vec, o buildOptions) ([]r3.Vec, []int) {
	remap := make([]int, len(coords))
	if !o.dedup || o.eps <= 0 {
		pool := make([]r3.Vec, len(coords))
		copy(pool, coords)
		for i := range remap {
			remap[i] = i
		}
		return pool, remap
	}
	pi := newPointIndex(o.eps, len(coords))
	for i, p := range coords {
		remap[i] = pi.insert(p)
	}
	return pi.pts, remap
}
