package math

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec4One() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

func NewQuatIdentity() Quaternion {
	return Quaternion{W: 1}
}

func NewMat4Identity() Mat4 {
	m := Mat4{}
	m.Data[0] = 1.0
	m.Data[5] = 1.0
	m.Data[10] = 1.0
	m.Data[15] = 1.0
	return m
}

func NewMat4Translation(position Vec3) Mat4 {
	m := NewMat4Identity()
	m.Data[12] = position.X
	m.Data[13] = position.Y
	m.Data[14] = position.Z
	return m
}

// Elements flatten the value types into the order they are laid out in a
// resource buffer.

func (v Vec2) Elements() []float32       { return []float32{v.X, v.Y} }
func (v Vec3) Elements() []float32       { return []float32{v.X, v.Y, v.Z} }
func (v Vec4) Elements() []float32       { return []float32{v.X, v.Y, v.Z, v.W} }
func (q Quaternion) Elements() []float32 { return []float32{q.X, q.Y, q.Z, q.W} }
func (m Mat4) Elements() []float32       { return m.Data[:] }

func Vec2FromElements(e []float32) Vec2 {
	return Vec2{X: e[0], Y: e[1]}
}

func Vec3FromElements(e []float32) Vec3 {
	return Vec3{X: e[0], Y: e[1], Z: e[2]}
}

func Vec4FromElements(e []float32) Vec4 {
	return Vec4{X: e[0], Y: e[1], Z: e[2], W: e[3]}
}

func QuatFromElements(e []float32) Quaternion {
	return Quaternion{X: e[0], Y: e[1], Z: e[2], W: e[3]}
}

func Mat4FromElements(e []float32) Mat4 {
	m := Mat4{}
	copy(m.Data[:], e)
	return m
}
