package traverse

// PairCache holds the last pair of primitives that collided between two
// specific meshes (spec §3's "BVT cache"): pure temporal-coherence hint
// consulted only when the caller runs in first-contact mode. A zero-value
// cache (Valid false) behaves exactly like no cache at all — correctness
// of CollideMeshes never depends on this being populated or accurate.
type PairCache struct {
	PrimA, PrimB int32
	Valid        bool
}

// Hit records the primitive pair that produced the cached contact, so the
// next query can replay it first.
func (c *PairCache) Hit(primA, primB int32) {
	c.PrimA, c.PrimB = primA, primB
	c.Valid = true
}

// Clear invalidates the cache, e.g. after a query found no contact.
func (c *PairCache) Clear() {
	c.Valid = false
}
