// Package config holds the tunable constants spec.md leaves to the
// implementer (contact caps, epsilons, cache coefficients, quadtree depth)
// and the validation spec §7 calls ValidateSettings.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings bundles every knob spec.md leaves unspecified. Zero-value
// Settings is not valid; use Default() and override from there, or load
// one from YAML with Load/LoadFile.
type Settings struct {
	// ContactCap is the manifold cap N passed to every contact generator.
	ContactCap int `yaml:"contact_cap"`
	// UnimportantContacts permits a generator to stop scanning as soon as
	// ContactCap is reached and skips deduplication. Without it the scan
	// continues past the cap so a later duplicate can still deepen an
	// entry already kept; non-duplicate contacts past the cap are dropped.
	UnimportantContacts bool `yaml:"unimportant_contacts"`
	// FirstContact turns a tree-vs-tree query into a short-circuiting
	// existence check.
	FirstContact bool `yaml:"first_contact"`
	// TemporalCoherence enables the per-pair BVT cache (traverse.PairCache)
	// that World.Collide and World.CollideGeom pass to the pair descent;
	// the box and capsule probes run without a BoxCache. Spec §7:
	// requesting this without FirstContact is a validation failure, since
	// the cache replay path only ever runs under first-contact mode.
	TemporalCoherence bool `yaml:"temporal_coherence"`

	// RayEpsilon guards the Möller-Trumbore determinant test (spec §4.6).
	RayEpsilon float64 `yaml:"ray_epsilon"`
	// ClipPlaneEpsilon guards the Sutherland-Hodgman clip tests used by
	// the box-triangle and capsule-triangle generators.
	ClipPlaneEpsilon float64 `yaml:"clip_plane_epsilon"`
	// DedupPositionEpsilon and DedupNormalEpsilon are the §4.9
	// contact-deduplication thresholds.
	DedupPositionEpsilon float64 `yaml:"dedup_position_epsilon"`
	DedupNormalEpsilon   float64 `yaml:"dedup_normal_epsilon"`
	// EdgeAxisBias multiplies an edge-category SAT axis's depth before
	// comparison against face axes, per §4.8's "stable, intentional bias".
	EdgeAxisBias float64 `yaml:"edge_axis_bias"`

	// OBBCacheFattenCoeff is the BoxTC cache's fattening coefficient
	// (spec §4.5, typical 1.1).
	OBBCacheFattenCoeff float64 `yaml:"obb_cache_fatten_coeff"`

	// QuadtreeDepth is the fixed subdivision depth passed to quadtree.New.
	QuadtreeDepth int `yaml:"quadtree_depth"`
}

// Default returns the settings this module's own code was written against:
// the epsilons and biases named explicitly throughout spec.md.
func Default() Settings {
	return Settings{
		ContactCap:           4,
		UnimportantContacts:  false,
		FirstContact:         false,
		TemporalCoherence:    false,
		RayEpsilon:           1e-6,
		ClipPlaneEpsilon:     1e-6,
		DedupPositionEpsilon: 1e-4,
		DedupNormalEpsilon:   1e-4,
		EdgeAxisBias:         1.5,
		OBBCacheFattenCoeff:  1.1,
		QuadtreeDepth:        3,
	}
}

// Load reads YAML settings from r, starting from Default() so a partial
// document only overrides what it names.
func Load(r io.Reader) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Settings{}, fmt.Errorf("config: decode settings: %w", err)
	}
	return s, nil
}

// LoadFile reads YAML settings from the named file.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate is spec §7's ValidateSettings: it returns a non-nil error
// carrying a human-readable diagnostic the moment a combination of knobs
// cannot be dispatched safely. Callers must refuse to run a query when
// this returns non-nil.
func (s Settings) Validate() error {
	if s.ContactCap <= 0 {
		return fmt.Errorf("config: contact_cap must be positive, got %d", s.ContactCap)
	}
	if s.TemporalCoherence && !s.FirstContact {
		return fmt.Errorf("config: temporal_coherence requires first_contact")
	}
	if s.RayEpsilon <= 0 || s.ClipPlaneEpsilon <= 0 {
		return fmt.Errorf("config: ray_epsilon and clip_plane_epsilon must be positive")
	}
	if s.DedupPositionEpsilon <= 0 || s.DedupNormalEpsilon <= 0 {
		return fmt.Errorf("config: dedup epsilons must be positive")
	}
	if s.EdgeAxisBias < 1 {
		return fmt.Errorf("config: edge_axis_bias must be >= 1, got %v", s.EdgeAxisBias)
	}
	if s.OBBCacheFattenCoeff < 1 {
		return fmt.Errorf("config: obb_cache_fatten_coeff must be >= 1, got %v", s.OBBCacheFattenCoeff)
	}
	if s.QuadtreeDepth < 0 {
		return fmt.Errorf("config: quadtree_depth must be >= 0, got %d", s.QuadtreeDepth)
	}
	return nil
}
