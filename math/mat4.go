package math

import "github.com/chewxy/math32"

// Mat4 is stored row-major for row vectors (p' = p * M), which puts the
// translation in row 3. The memory layout equals the column-major layout GL
// expects for column vectors, so a Mat4 uploads without transposing.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return v.MulMat(m)
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec(v.ToVec4(1.0)).ToVec3DivW()
}

// Floats flattens the matrix in upload order.
func (m Mat4) Floats() [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		copy(out[i*4:i*4+4], m[i][:])
	}
	return out
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

// Mat4PerspectiveLH builds a left-handed perspective projection (+Z into the
// screen) with GL clip depth, mapping near to -1 and far to +1.
func Mat4PerspectiveLH(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := math32.Tan(fovY / 2)

	var m Mat4
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = (far + near) / (far - near)
	m[2][3] = 1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

// Mat4LookAtLH builds a left-handed view matrix: the eye looks down +Z and
// +X points to the right of the view direction.
func Mat4LookAtLH(eye, target, up Vec3) Mat4 {
	zAxis := target.Sub(eye).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, yAxis.X, zAxis.X, 0},
		{xAxis.Y, yAxis.Y, zAxis.Y, 0},
		{xAxis.Z, yAxis.Z, zAxis.Z, 0},
		{-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1},
	}
}
