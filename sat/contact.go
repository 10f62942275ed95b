// Package sat implements the narrow-phase separating-axis contact
// generators (ray-triangle, triangle-triangle, box-triangle,
// capsule-triangle) and the bounded, deduplicating manifold buffer they all
// write into.
package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact mirrors the stable external contact record (spec §6): position,
// unit normal (pointing from the mesh side toward the other geom), depth,
// the two geom references the traverse layer stamps in, and the two
// primitive-index "sides". Side2 is -1 unless both sides are primitives of
// a mesh (triangle-triangle), in which case it is the peer triangle index.
type Contact struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Depth    float64

	GeomA, GeomB int32

	Side1 int32
	Side2 int32
}

// Tolerances bundles the epsilon and bias knobs config.Settings exposes
// for the generators (spec §7's tunables). A ContactBuffer carries its
// own copy rather than the generators reading package constants, so a
// caller's config.Settings actually reaches the code that behaves
// differently because of it.
type Tolerances struct {
	// ClipPlaneEpsilon guards the Sutherland-Hodgman clip tests (C7/C8/C9).
	ClipPlaneEpsilon float64
	// EdgeAxisBias multiplies an edge-category SAT axis's depth before
	// comparison against face axes (spec §4.8's "stable, intentional bias").
	EdgeAxisBias float64
	// DedupPositionEpsilon and DedupNormalEpsilon are the §4.9
	// contact-deduplication thresholds.
	DedupPositionEpsilon float64
	DedupNormalEpsilon   float64
}

// DefaultTolerances matches the fixed values spec.md's prose names.
func DefaultTolerances() Tolerances {
	return Tolerances{
		ClipPlaneEpsilon:     1e-6,
		EdgeAxisBias:         1.5,
		DedupPositionEpsilon: 1e-4,
		DedupNormalEpsilon:   1e-4,
	}
}

// ContactBuffer is the per-query bounded manifold the four generators
// append into. Its behavior follows spec §4.9: with Unimportant unset,
// every candidate is checked against already-emitted contacts and merged
// (keeping the deeper one) rather than duplicated; with Unimportant set,
// the buffer simply stops accepting once Cap is reached, letting the
// caller bail out early.
type ContactBuffer struct {
	Cap         int
	Unimportant bool
	Contacts    []Contact

	Tolerances
}

// NewContactBuffer returns an empty buffer capped at cap contacts, using
// tol for every epsilon/bias the generators writing into it will consult.
func NewContactBuffer(cap int, unimportant bool, tol Tolerances) *ContactBuffer {
	return &ContactBuffer{Cap: cap, Unimportant: unimportant, Contacts: make([]Contact, 0, cap), Tolerances: tol}
}

// Add inserts c, applying deduplication unless the buffer was built with
// Unimportant. It returns false when c was dropped because the buffer was
// already at its cap, and in Unimportant mode also when c was kept but
// filled the buffer. Merging c into an existing entry returns true.
func (b *ContactBuffer) Add(c Contact) bool {
	if b.Unimportant {
		if len(b.Contacts) >= b.Cap {
			return false
		}
		b.Contacts = append(b.Contacts, c)
		return len(b.Contacts) < b.Cap
	}

	for i := range b.Contacts {
		e := &b.Contacts[i]
		if e.Position.Sub(c.Position).Len() >= b.DedupPositionEpsilon {
			continue
		}
		if 1-math.Abs(e.Normal.Dot(c.Normal)) >= b.DedupNormalEpsilon {
			continue
		}
		if c.Depth > e.Depth {
			e.Depth = c.Depth
		}
		return true
	}

	if len(b.Contacts) >= b.Cap {
		return false
	}
	b.Contacts = append(b.Contacts, c)
	return true
}

// Full reports whether the buffer has reached its cap.
func (b *ContactBuffer) Full() bool {
	return len(b.Contacts) >= b.Cap
}
