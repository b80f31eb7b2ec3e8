package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, float32(0), Clamp(float32(-1), 0, 1))
	assert.Equal(t, uint32(3), Clamp(uint32(3), 1, 9))
	assert.True(t, InRange(2.5, 1.0, 3.0))
	assert.False(t, InRange(4, 1, 3))
}

func TestElementsRoundTrip(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	assert.Equal(t, m, Mat4FromElements(m.Elements()))
	q := NewQuatIdentity()
	assert.Equal(t, q, QuatFromElements(q.Elements()))
	assert.Equal(t, NewVec3One(), Vec3FromElements(NewVec3One().Elements()))
}

func TestExtentsGrow(t *testing.T) {
	e := Extents3D{Min: NewVec3(0, 0, 0), Max: NewVec3(1, 1, 1)}
	e = e.Grow(NewVec3(-1, 0.5, 3))
	assert.Equal(t, NewVec3(-1, 0, 0), e.Min)
	assert.Equal(t, NewVec3(1, 1, 3), e.Max)
}
