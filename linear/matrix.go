package linear

// Mat44 is a row-major 4x4 matrix of float32: M[row][col]. A vector is
// transformed as a column on the right, v' = M * v, matching the
// convention the vertex pipeline uses throughout (model-view, projection
// and normal matrices are all composed left-to-right in that order).
type Mat44 [4][4]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat44 {
	return Mat44{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// MulVec4 returns M * v.
func (m Mat44) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// MulVec3 treats v as (x,y,z,0) — used to transform directions (normals)
// without translation.
func (m Mat44) MulVec3(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns l * r.
func (l Mat44) Mul(r Mat44) Mat44 {
	var out Mat44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += l[i][k] * r[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Transform applies m to every entry of src, writing into dst. dst and src
// must have the same length; dst may alias src. This is the batch entry
// point the vertex pipeline uses to transform a whole chunk of vertices (or
// normals, via MulVec3) in one call.
func (m Mat44) Transform(dst, src []Vec4) {
	for i, v := range src {
		dst[i] = m.MulVec4(v)
	}
}

// TransformVec3 is the Vec3 analogue of Transform, used for normals.
func (m Mat44) TransformVec3(dst, src []Vec3) {
	for i, v := range src {
		dst[i] = m.MulVec3(v)
	}
}

// Transpose returns the transpose of m.
func (m Mat44) Transpose() Mat44 {
	var out Mat44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Upper3 extracts the upper-left 3x3 block (the linear part, without
// translation) as Vec3 rows.
func (m Mat44) Upper3() [3]Vec3 {
	return [3]Vec3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// InvertUpper3Transpose computes the inverse-transpose of the upper-left
// 3x3 block of m, embedded in a Mat44 with identity translation/row4. This
// is the normal matrix construction: normals transform correctly under
// non-uniform scale only through the inverse-transpose of the model-view's
// linear part.
//
// If the 3x3 block is singular (determinant below epsilon), the identity
// is returned rather than propagating NaN/Inf into every subsequent normal
// — a degenerate model-view matrix should not poison lighting for the whole
// chunk.
func (m Mat44) InvertUpper3Transpose() Mat44 {
	a := m.Upper3()
	det := a[0].X*(a[1].Y*a[2].Z-a[1].Z*a[2].Y) -
		a[0].Y*(a[1].X*a[2].Z-a[1].Z*a[2].X) +
		a[0].Z*(a[1].X*a[2].Y-a[1].Y*a[2].X)

	const epsilon = 1e-12
	if det > -epsilon && det < epsilon {
		return Identity()
	}
	invDet := 1 / det

	// Cofactor matrix, transposed in place (adjugate), then scaled by 1/det.
	// The result is already the inverse of a; InvertUpper3Transpose wants
	// the inverse's transpose, so we write cofactors directly without the
	// usual adjugate transpose step.
	var inv Mat44
	inv[0][0] = (a[1].Y*a[2].Z - a[1].Z*a[2].Y) * invDet
	inv[1][0] = (a[1].Z*a[2].X - a[1].X*a[2].Z) * invDet
	inv[2][0] = (a[1].X*a[2].Y - a[1].Y*a[2].X) * invDet

	inv[0][1] = (a[0].Z*a[2].Y - a[0].Y*a[2].Z) * invDet
	inv[1][1] = (a[0].X*a[2].Z - a[0].Z*a[2].X) * invDet
	inv[2][1] = (a[0].Y*a[2].X - a[0].X*a[2].Y) * invDet

	inv[0][2] = (a[0].Y*a[1].Z - a[0].Z*a[1].Y) * invDet
	inv[1][2] = (a[0].Z*a[1].X - a[0].X*a[1].Z) * invDet
	inv[2][2] = (a[0].X*a[1].Y - a[0].Y*a[1].X) * invDet

	inv[3][3] = 1
	return inv
}

// Translation returns a translation matrix.
func Translation(x, y, z float32) Mat44 {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// Scaling returns a scale matrix.
func Scaling(x, y, z float32) Mat44 {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}
