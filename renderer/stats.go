package renderer

// counters accumulates GPU work submitted since the last reset. The quality governor reads
// and resets it once per sample.
type counters struct {
	drawCalls int
	triangles int
}

func (c *counters) add(draws, tris int) {
	c.drawCalls += draws
	c.triangles += tris
}

// sphereTriangles is the triangle count raylib emits for DrawSphereEx.
func sphereTriangles(rings, slices int) int {
	return 2 * (rings + 2) * slices
}

// cylinderTriangles is the triangle count raylib emits for DrawCylinder with caps.
func cylinderTriangles(slices int) int {
	return 4 * slices
}
