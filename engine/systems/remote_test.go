package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/animares/engine/containers"
	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource"
)

const (
	actorHealth = iota
	actorOwner
	actorGuardian
	actorName
	actorItems
	actorSlots
)

type fixtures struct {
	player *resource.ResourceDefinition
	actor  *resource.ResourceDefinition
	blob   *resource.ResourceDefinition
}

func newFixtures() fixtures {
	player := resource.MustDefine("player", 1, resource.Schema{
		resource.Field("name", resource.String()),
	})
	actor := resource.MustDefine("actor", 2, resource.Schema{
		resource.Field("health", resource.U32(resource.Default(uint32(100)))),
		resource.Field("owner", resource.Ref(player, resource.BackRef())),
		resource.Field("guardian", resource.Ref(player, resource.BackRef())),
		resource.Field("name", resource.String()),
		resource.Field("items", resource.RefArray(player, 4)),
		resource.Field("slots", resource.RefMap(player, 8)),
	})
	blob := resource.MustDefine("blob", 3, resource.Schema{
		resource.Field("data", resource.ArrayBuffer()),
	})
	return fixtures{player: player, actor: actor, blob: blob}
}

func newTestRemote(t *testing.T, capacity uint32) *RemoteResourceSystem {
	t.Helper()
	rs, err := NewRemoteResourceSystem(RemoteResourceSystemConfig{
		Arena: containers.ArenaConfig{Capacity: capacity},
	}, core.NewEventBus(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Shutdown() })
	return rs
}

func create(t *testing.T, rs *RemoteResourceSystem, def *resource.ResourceDefinition, props resource.Props) *resource.RemoteResource {
	t.Helper()
	r, err := resource.NewRemoteResource(rs, def, props)
	require.NoError(t, err)
	return r
}

func TestHealthOwnerScenario(t *testing.T) {
	fx := newFixtures()
	rs := newTestRemote(t, 4096)

	y := create(t, rs, fx.player, resource.Props{"name": "y"})
	x := create(t, rs, fx.actor, nil)
	assert.Equal(t, uint32(100), x.U32(actorHealth))

	x.SetRef(actorOwner, y)
	assert.Equal(t, []*resource.RemoteResource{x}, y.BackRefs())

	assert.True(t, x.Dispose())
	assert.Empty(t, y.BackRefs())
}

func TestBackRefSymmetry(t *testing.T) {
	fx := newFixtures()
	rs := newTestRemote(t, 4096)

	alice := create(t, rs, fx.player, resource.Props{"name": "alice"})
	bob := create(t, rs, fx.player, resource.Props{"name": "bob"})
	a := create(t, rs, fx.actor, resource.Props{"owner": alice})

	assert.Equal(t, []*resource.RemoteResource{a}, alice.BackRefs())

	t.Run("overwrite moves the entry", func(t *testing.T) {
		a.SetRef(actorOwner, bob)
		assert.Empty(t, alice.BackRefs())
		assert.Equal(t, []*resource.RemoteResource{a}, bob.BackRefs())
	})

	t.Run("writing the same value twice adds nothing", func(t *testing.T) {
		a.SetRef(actorOwner, bob)
		assert.Len(t, bob.BackRefs(), 1)
	})

	t.Run("entries form a multiset", func(t *testing.T) {
		a.SetRef(actorGuardian, bob)
		assert.Equal(t, []*resource.RemoteResource{a, a}, bob.BackRefs())

		a.SetRef(actorGuardian, nil)
		assert.Equal(t, []*resource.RemoteResource{a}, bob.BackRefs())
	})

	t.Run("clearing removes the entry", func(t *testing.T) {
		a.SetRef(actorOwner, nil)
		assert.Empty(t, bob.BackRefs())
		assert.Nil(t, a.Ref(actorOwner))
	})
}

func TestRefArrayAndMap(t *testing.T) {
	fx := newFixtures()
	rs := newTestRemote(t, 4096)

	players := make([]*resource.RemoteResource, 3)
	for i := range players {
		players[i] = create(t, rs, fx.player, nil)
	}
	a := create(t, rs, fx.actor, nil)

	t.Run("contiguous reads", func(t *testing.T) {
		a.SetRefArray(actorItems, players)
		assert.Equal(t, players, a.RefArray(actorItems))
	})

	t.Run("empty first slot reads empty", func(t *testing.T) {
		a.SetRefArray(actorItems, nil)
		a.SetRefArrayItem(actorItems, 2, players[0])
		a.SetRefArrayItem(actorItems, 3, players[1])
		assert.Empty(t, a.RefArray(actorItems))
	})

	t.Run("out of range index is ignored", func(t *testing.T) {
		a.SetRefArrayItem(actorItems, 4, players[0])
		assert.Nil(t, rs.GetRefArrayItem(4, a.Store(actorItems)))
	})

	t.Run("sparse map", func(t *testing.T) {
		a.SetRefMapItem(actorSlots, 5, players[2])
		slots := a.RefMap(actorSlots)
		require.Len(t, slots, 8)
		for k, v := range slots {
			if k == 5 {
				assert.Same(t, players[2], v)
				continue
			}
			assert.Nil(t, v, "slot %d", k)
		}
	})
}

func TestDispose(t *testing.T) {
	fx := newFixtures()

	t.Run("idempotent", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, resource.Props{"name": "p"})

		assert.True(t, rs.DisposeResource(p.ResourceID()))
		assert.False(t, rs.DisposeResource(p.ResourceID()))
		assert.False(t, rs.DisposeResource(12345))
		assert.False(t, rs.DisposeResource(resource.InvalidID))
		assert.Zero(t, rs.Len())
		assert.Zero(t, rs.ArenaInUse())
	})

	t.Run("released references read as nil", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, nil)
		a := create(t, rs, fx.actor, resource.Props{"owner": p})

		assert.True(t, p.Dispose())
		assert.Nil(t, a.Ref(actorOwner))
		assert.Equal(t, []resource.ResourceID{p.ResourceID()}, a.RefIDs(), "stale id stays in the slot")
	})

	t.Run("pinned until the last manual reference", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, nil)
		a := create(t, rs, fx.actor, nil)
		a.SetRef(actorOwner, p)

		p.AddRef()
		require.True(t, p.Dispose())
		assert.True(t, rs.Disposed(p.ResourceID()))
		assert.Same(t, p, a.Ref(actorOwner), "still resolves while pinned")

		p.RemoveRef()
		assert.Nil(t, a.Ref(actorOwner))
		assert.Equal(t, 1, rs.Len())
	})

	t.Run("structural references defer release to commit", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, nil)
		a := create(t, rs, fx.actor, resource.Props{"owner": p, "items": []*resource.RemoteResource{p, p}})
		rs.Commit()

		refCount, structRefs, ok := rs.Counts(p.ResourceID())
		require.True(t, ok)
		assert.Zero(t, refCount)
		assert.Equal(t, int32(3), structRefs)

		require.True(t, p.Dispose())
		assert.Same(t, p, a.Ref(actorOwner))

		a.SetRef(actorOwner, nil)
		a.SetRefArray(actorItems, nil)
		rs.Commit()

		_, _, ok = rs.Counts(p.ResourceID())
		assert.False(t, ok, "released at commit")
		assert.Equal(t, 1, rs.Len())
	})

	t.Run("disposing the referrer drops its structural references", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, nil)
		a := create(t, rs, fx.actor, resource.Props{"owner": p})
		rs.Commit()

		require.True(t, p.Dispose())
		require.Equal(t, 2, rs.Len())

		require.True(t, a.Dispose())
		assert.Zero(t, rs.Len())
	})

	t.Run("ids are never reused", func(t *testing.T) {
		rs := newTestRemote(t, 4096)
		p := create(t, rs, fx.player, nil)
		id := p.ResourceID()
		require.True(t, p.Dispose())

		q := create(t, rs, fx.player, nil)
		assert.Greater(t, q.ResourceID(), id)
		assert.Equal(t, p.Ptr(), q.Ptr(), "region reused")
	})
}

func TestStringsAndBuffers(t *testing.T) {
	fx := newFixtures()
	rs := newTestRemote(t, 4096)

	a := create(t, rs, fx.actor, resource.Props{"name": "first"})
	assert.Equal(t, "first", a.Text(actorName))

	a.SetText(actorName, "second")
	assert.Equal(t, "second", a.Text(actorName))
	assert.Equal(t, 1, rs.strings.Len(), "previous handle released")

	a.SetText(actorName, "")
	assert.Equal(t, "", a.Text(actorName))
	assert.Zero(t, rs.strings.Len())

	data := []byte{9, 8, 7}
	b := create(t, rs, fx.blob, resource.Props{"data": data})
	data[0] = 0
	assert.Equal(t, []byte{9, 8, 7}, b.ArrayBuffer(0), "copied on set")

	require.True(t, b.Dispose())
	assert.Zero(t, rs.buffers.Len())
}

func TestAllocationFailures(t *testing.T) {
	fx := newFixtures()

	t.Run("arena exhausted", func(t *testing.T) {
		rs := newTestRemote(t, 8)
		_, err := resource.NewRemoteResource(rs, fx.actor, nil)
		require.ErrorIs(t, err, containers.ErrArenaExhausted)
		assert.Zero(t, rs.Len())
	})

	t.Run("resource limit", func(t *testing.T) {
		rs, err := NewRemoteResourceSystem(RemoteResourceSystemConfig{
			Arena:        containers.ArenaConfig{Capacity: 1024},
			MaxResources: 1,
		}, nil, nil)
		require.NoError(t, err)
		defer rs.Shutdown()

		create(t, rs, fx.player, nil)
		_, err = resource.NewRemoteResource(rs, fx.player, nil)
		assert.ErrorIs(t, err, ErrResourceLimit)
	})
}

func TestLifecycleEvents(t *testing.T) {
	fx := newFixtures()
	events := core.NewEventBus()
	rs, err := NewRemoteResourceSystem(RemoteResourceSystemConfig{
		Arena: containers.ArenaConfig{Capacity: 1024},
	}, events, nil)
	require.NoError(t, err)
	defer rs.Shutdown()

	var seen []core.EventCode
	record := func(ctx core.EventContext, sender, listener interface{}) bool {
		seen = append(seen, ctx.Code)
		// listeners may call back into the system
		_ = rs.Len()
		return false
	}
	events.Register(core.EventResourceCreated, "test", record)
	events.Register(core.EventResourceDisposed, "test", record)

	p := create(t, rs, fx.player, nil)
	p.Dispose()
	assert.Equal(t, []core.EventCode{core.EventResourceCreated, core.EventResourceDisposed}, seen)
}
