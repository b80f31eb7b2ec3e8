package testbed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/animares/engine"
	"github.com/spaghettifunk/animares/engine/math"
	"github.com/spaghettifunk/animares/engine/resource"
	"github.com/spaghettifunk/animares/engine/scene"
	"github.com/spaghettifunk/animares/engine/systems"
)

var cubeBounds = math.Extents3D{
	Min: math.NewVec3(-0.5, -0.5, -0.5),
	Max: math.NewVec3(0.5, 0.5, 0.5),
}

func TestContactStep(t *testing.T) {
	s := &gameState{contacts: make(map[[2]int]bool)}
	far := []math.Vec3{math.NewVec3(4, 0, 0), math.NewVec3(-4, 0, 0)}
	near := []math.Vec3{math.NewVec3(4, 0, 0), math.NewVec3(4, 0, 1)}

	assert.Empty(t, s.step(far))
	pairs := s.step(near)
	require.Len(t, pairs, 1)
	assert.Equal(t, systems.ContactPair{A: 100, B: 101, Started: true}, pairs[0])
	assert.Empty(t, s.step(near), "contact already reported")

	pairs = s.step(far)
	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].Started)

	ground := s.step([]math.Vec3{math.NewVec3(0, 0, 4)})
	require.Len(t, ground, 1)
	assert.Equal(t, groundHandle, ground[0].B)
}

func TestGPUMeshLoad(t *testing.T) {
	m := &gpuMesh{data: cubeVertices()}
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, cubeBounds, m.Bounds())

	bad := &gpuMesh{data: []byte{1, 2, 3}}
	assert.ErrorIs(t, bad.Load(context.Background()), errBadVertexData)
}

func TestTestbedRuns(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.TickRate = 200
	config.Arena.Capacity = 64 * 1024

	tb := NewTestGame(config)
	e, err := engine.New(tb.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	state := tb.state()
	assert.Positive(t, state.syncs)
	assert.Equal(t, orbiterCount, state.physics.Len())

	// The engine has stopped, so the reader side can be inspected here.
	local := e.SystemManager().Local()
	root, ok := local.GetResource(state.rootID).(*scene.NodeLocal)
	require.True(t, ok)
	assert.Len(t, root.Children(), orbiterCount)

	mesh, ok := local.GetResource(state.mesh.ResourceID()).(*gpuMesh)
	require.True(t, ok, "mesh loaded through the override")
	assert.Equal(t, cubeBounds, mesh.Bounds())
	assert.Len(t, state.root.BackRefs(), orbiterCount, "children point back through parent")

	state.actors[0].Dispose()
	_, bound := state.physics.Handle(state.actors[0].ResourceID())
	assert.False(t, bound, "handle dropped with its resource")
	_, bound = state.physics.Lookup(systems.ExternalHandle(100))
	assert.False(t, bound)
	assert.NotEqual(t, resource.InvalidID, state.actors[1].ResourceID())

	require.NoError(t, e.Shutdown(context.Background()))
}
