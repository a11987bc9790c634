package engine

// EntityRenderFloats is the number of values per entity in the render
// snapshot: x, y, z, rotation, scale, r, g, b, a.
const EntityRenderFloats = 9

// ParticleRenderFloats is the number of values per particle in the render
// snapshot: x, y, z, size, r, g, b, a.
const ParticleRenderFloats = 8

// EntityRenderData returns a flat snapshot of every active entity for the
// host's renderer. The slice is rebuilt on every call; callers that need the
// data across ticks must copy it.
func (e *Engine) EntityRenderData() []float32 {
	dst := make([]float32, 0, e.store.Count()*EntityRenderFloats)

	query := e.store.baseFilter.Query()
	for query.Next() {
		meta, tr := query.Get()
		if !meta.Active {
			continue
		}
		dst = append(dst,
			tr.Position.X, tr.Position.Y, tr.Position.Z,
			tr.Rotation, tr.Scale,
			meta.Color[0], meta.Color[1], meta.Color[2], meta.Color[3],
		)
	}
	return dst
}

// ParticleRenderData returns a flat snapshot of every active particle.
func (e *Engine) ParticleRenderData() []float32 {
	dst := make([]float32, 0, e.particles.Count()*ParticleRenderFloats)
	return e.particles.RenderData(dst)
}
