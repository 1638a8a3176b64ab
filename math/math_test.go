package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-4
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got, want := v1.Add(v2), NewVec3(5, 7, 9); got != want {
		t.Errorf("Add: expected %v, got %v", want, got)
	}
	if got, want := v2.Sub(v1), NewVec3(3, 3, 3); got != want {
		t.Errorf("Sub: expected %v, got %v", want, got)
	}
	if got, want := v1.Mul(2), NewVec3(2, 4, 6); got != want {
		t.Errorf("Mul: expected %v, got %v", want, got)
	}
	if got, want := NewVec3(4, 8, -12).Div(4), NewVec3(1, 2, -3); got != want {
		t.Errorf("Div: expected %v, got %v", want, got)
	}
	if dot := v1.Dot(v2); dot != 32 {
		t.Errorf("Dot: expected 32, got %v", dot)
	}
	// Up x Front = Right, the left-handed basis used by the view matrix
	if cross := Vec3Up.Cross(Vec3Front); cross != Vec3Right {
		t.Errorf("Cross: expected %v, got %v", Vec3Right, cross)
	}
	if got, want := NewVec3(3, -4, 5).Horizontal(), NewVec3(3, 0, 5); got != want {
		t.Errorf("Horizontal: expected %v, got %v", want, got)
	}
}

func TestVec3Normalize(t *testing.T) {
	normalized := NewVec3(3, 0, 0).Normalize()
	if normalized != NewVec3(1, 0, 0) {
		t.Errorf("Normalize: expected (1,0,0), got %v", normalized)
	}
	if !approx(normalized.Length(), 1) {
		t.Errorf("Normalize: expected length 1, got %v", normalized.Length())
	}
	if Vec3Zero.Normalize() != Vec3Zero {
		t.Error("Normalize: zero vector should stay zero")
	}
}

func TestSphericalDirection(t *testing.T) {
	d := SphericalDirection(90, 0)
	if !approx(d.X, 0) || !approx(d.Y, 0) || !approx(d.Z, 1) {
		t.Errorf("yaw 90 pitch 0: expected (0,0,1), got %v", d)
	}

	d = SphericalDirection(0, 90)
	if !approx(d.Y, 1) {
		t.Errorf("pitch 90: expected straight up, got %v", d)
	}

	for yaw := float32(-720); yaw <= 720; yaw += 37 {
		for pitch := float32(-180); pitch <= 180; pitch += 13 {
			if l := SphericalDirection(yaw, pitch).Length(); !approx(l, 1) {
				t.Fatalf("yaw %v pitch %v: length %v", yaw, pitch, l)
			}
		}
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[3][0], m[3][1], m[3][2])
	}

	result := NewVec4(0, 0, 0, 1).MulMat(m)
	if result.ToVec3() != translation {
		t.Errorf("Translation: expected %v, got %v", translation, result.ToVec3())
	}
}

func TestMat4Floats(t *testing.T) {
	f := Mat4Translation(NewVec3(7, 8, 9)).Floats()
	if f[12] != 7 || f[13] != 8 || f[14] != 9 || f[15] != 1 {
		t.Errorf("Floats: translation should occupy 12..14, got %v", f)
	}
}

func TestMat4LookAtLH(t *testing.T) {
	eye := NewVec3(10, 5, -3)
	m := Mat4LookAtLH(eye, eye.Add(Vec3Front), Vec3Up)

	// Eye maps to the origin.
	origin := m.MulVec3(eye)
	if !approx(origin.X, 0) || !approx(origin.Y, 0) || !approx(origin.Z, 0) {
		t.Errorf("LookAtLH: expected eye at origin, got %v", origin)
	}

	// A point ahead of the eye lands on +Z, a point to world +X on view +X.
	ahead := m.MulVec3(eye.Add(NewVec3(0, 0, 4)))
	if !approx(ahead.Z, 4) {
		t.Errorf("LookAtLH: expected ahead point at z=4, got %v", ahead)
	}
	right := m.MulVec3(eye.Add(NewVec3(2, 0, 0)))
	if !approx(right.X, 2) {
		t.Errorf("LookAtLH: expected right point at x=2, got %v", right)
	}
}

func TestMat4PerspectiveLH(t *testing.T) {
	near, far := float32(0.1), float32(2000)
	m := Mat4PerspectiveLH(Radians(90), 16.0/9.0, near, far)

	if z := m.MulVec3(NewVec3(0, 0, near)).Z; !approx(z, -1) {
		t.Errorf("PerspectiveLH: near plane should map to -1, got %v", z)
	}
	if z := m.MulVec3(NewVec3(0, 0, far)).Z; math.Abs(float64(z-1)) > 1e-3 {
		t.Errorf("PerspectiveLH: far plane should map to 1, got %v", z)
	}
	// 90 degree fov: a point at 45 degrees up hits the top of the frustum.
	if y := m.MulVec3(NewVec3(0, 10, 10)).Y; !approx(y, 1) {
		t.Errorf("PerspectiveLH: expected y=1 at the frustum edge, got %v", y)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(100, -89, 89) != 89 || Clamp(-100, -89, 89) != -89 || Clamp(3, -89, 89) != 3 {
		t.Error("Clamp: wrong result")
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Translation(NewVec3(1, 2, 3))

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
