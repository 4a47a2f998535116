package math

import "math"

// Mat4 is a column-major 4x4 matrix: element (row, col) lives at col*4+row,
// so the translation sits in m[12], m[13], m[14].
type Mat4 [16]float32

// Vec4 is a homogeneous point (x, y, z, w).
type Vec4 [4]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective builds a right-handed projection looking down -Z that maps
// [near, far] to NDC depth [-1, 1]. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt builds a view matrix placing eye at the origin and center on -Z.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotateZ rotates counter-clockwise about +Z by angle radians.
func RotateZ(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))

	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Mul returns m * other; other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// MulVec4 transforms a homogeneous point.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for row := range 4 {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Clip transforms a point (w = 1) into clip space without dividing.
func (m Mat4) Clip(p [3]float32) Vec4 {
	return m.MulVec4(Vec4{p[0], p[1], p[2], 1})
}

// TransformPoint transforms a point and divides by w when w is neither 0 nor 1.
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	c := m.Clip(p)
	if c[3] != 0 && c[3] != 1 {
		return [3]float32{c[0] / c[3], c[1] / c[3], c[2] / c[3]}
	}
	return [3]float32{c[0], c[1], c[2]}
}
