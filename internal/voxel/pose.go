package voxel

// Transform is a 4x4 homogeneous transform in row-major order
// (m00,m01,m02,m03, m10,...). It is applied only when converting a cell key
// to a world coordinate for output; it never affects how new points bin.
type Transform [16]float64

// IdentityTransform returns the identity output transform.
func IdentityTransform() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Apply transforms the point (x, y, z) by t.
func (t Transform) Apply(x, y, z float64) (wx, wy, wz float64) {
	wx = t[0]*x + t[1]*y + t[2]*z + t[3]
	wy = t[4]*x + t[5]*y + t[6]*z + t[7]
	wz = t[8]*x + t[9]*y + t[10]*z + t[11]
	return
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}
