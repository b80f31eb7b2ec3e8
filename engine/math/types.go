package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector. Also used for rgb colours.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector. Also used for rgba colours.
type Vec4 struct {
	X, Y, Z, W float32
}

// Quaternion is a rotation, stored x, y, z, w.
type Quaternion Vec4

// Mat4 is a 4x4 matrix, column major.
type Mat4 struct {
	Data [16]float32
}

// Extents3D is an axis-aligned box.
type Extents3D struct {
	Min Vec3
	Max Vec3
}

// Grow extends e so it contains v.
func (e Extents3D) Grow(v Vec3) Extents3D {
	return Extents3D{
		Min: Vec3{X: min(e.Min.X, v.X), Y: min(e.Min.Y, v.Y), Z: min(e.Min.Z, v.Z)},
		Max: Vec3{X: max(e.Max.X, v.X), Y: max(e.Max.Y, v.Y), Z: max(e.Max.Z, v.Z)},
	}
}
