package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/animares/engine/math"
)

func TestLocalView(t *testing.T) {
	defs := newTestDefs()
	m := newFakeManager()

	alice := newPlayer(t, m, defs, "alice")
	bob := newPlayer(t, m, defs, "bob")

	r, err := NewRemoteResource(m, defs.actor, Props{
		"health":   7,
		"position": math.NewVec3(1, 2, 3),
		"label":    "scout",
		"owner":    alice,
		"friends":  []*RemoteResource{alice, bob},
		"slots":    map[int]*RemoteResource{5: bob},
	})
	require.NoError(t, err)

	local := newFakeLocal(m)
	aliceView := NewLocalView(local, defs.player, alice.ResourceID(), alice.Ptr())
	local.loaded[alice.ResourceID()] = aliceView

	v := NewLocalView(local, defs.actor, r.ResourceID(), r.Ptr())
	assert.Equal(t, r.ResourceID(), v.ResourceID())
	assert.Equal(t, defs.actor.ResourceType(), v.ResourceType())

	assert.Equal(t, uint32(7), v.U32(actorHealth))
	assert.Equal(t, math.NewVec3(1, 2, 3), v.Vec3(actorPosition))
	assert.Equal(t, math.NewQuatIdentity(), v.Quat(actorRotation))
	assert.Equal(t, "scout", v.Text(actorLabel))
	assert.Equal(t, "alice", aliceView.Text(0))
	assert.Same(t, aliceView, v.Ref(actorOwner))

	t.Run("refs to resources not loaded read as nil", func(t *testing.T) {
		friends := v.RefArray(actorFriends)
		require.Len(t, friends, 1)
		assert.Same(t, aliceView, friends[0])

		slots := v.RefMap(actorSlots)
		require.Len(t, slots, 8)
		for _, s := range slots {
			assert.Nil(t, s)
		}
	})

	t.Run("ref map slots resolve once loaded", func(t *testing.T) {
		bobView := NewLocalView(local, defs.player, bob.ResourceID(), bob.Ptr())
		local.loaded[bob.ResourceID()] = bobView
		assert.Same(t, bobView, v.RefMap(actorSlots)[5])
		assert.Len(t, v.RefArray(actorFriends), 2)
	})

	t.Run("writes after the snapshot are not visible", func(t *testing.T) {
		r.SetU32(actorHealth, 99)
		assert.Equal(t, uint32(7), v.U32(actorHealth))

		local.snapshot = append(local.snapshot[:0], m.buf...)
		assert.Equal(t, uint32(99), v.U32(actorHealth))
	})

	t.Run("empty snapshot reads zero values", func(t *testing.T) {
		empty := &fakeLocal{}
		ev := NewLocalView(empty, defs.actor, r.ResourceID(), r.Ptr())
		assert.Zero(t, ev.U32(actorHealth))
		assert.Nil(t, ev.Ref(actorOwner))
		assert.Empty(t, ev.RefArray(actorFriends))
	})
}
