package systems

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource"
)

type localPlayer struct {
	*resource.LocalView
	name     string
	loads    *atomic.Int32
	disposed bool
}

func (p *localPlayer) Load(ctx context.Context) error {
	p.loads.Add(1)
	return nil
}

func (p *localPlayer) Dispose(ctx context.Context) {
	p.disposed = true
}

type brokenLoad struct {
	*resource.LocalView
}

func (b *brokenLoad) Load(ctx context.Context) error {
	return errors.New("no such file")
}

func waitFor(t *testing.T, ls *LocalResourceSystem, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		ls.Update(context.Background())
		return cond()
	}, 2*time.Second, time.Millisecond)
}

func TestLocalResourceSystem(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()

	events := core.NewEventBus()
	rs := newTestRemote(t, 4096)
	jobs, err := NewJobSystem(2, 16)
	require.NoError(t, err)
	defer jobs.Shutdown()

	ls := NewLocalResourceSystem(rs.Primary(), jobs, events, nil)

	var loads atomic.Int32
	players := map[resource.ResourceID]*localPlayer{}
	require.NoError(t, ls.Register(fx.player, func(view *resource.LocalView) resource.LocalResource {
		p := &localPlayer{LocalView: view, name: view.Text(0), loads: &loads}
		players[view.ResourceID()] = p
		return p
	}))
	require.NoError(t, ls.Register(fx.actor, nil))
	require.Error(t, ls.Register(fx.actor, nil), "registered twice")

	var loaded []resource.ResourceID
	events.Register(core.EventResourceLoaded, "test", func(c core.EventContext, sender, listener interface{}) bool {
		loaded = append(loaded, resource.ResourceID(c.ResourceID))
		return false
	})

	assert.False(t, ls.Update(ctx), "nothing committed yet")

	alice := create(t, rs, fx.player, resource.Props{"name": "alice"})
	a := create(t, rs, fx.actor, resource.Props{"owner": alice, "name": "scout"})

	assert.False(t, ls.Update(ctx))
	assert.Nil(t, ls.GetResource(a.ResourceID()))

	seq := rs.Commit()
	waitFor(t, ls, func() bool {
		return ls.GetResource(alice.ResourceID()) != nil && ls.GetResource(a.ResourceID()) != nil
	})
	assert.Equal(t, seq, ls.Seq())
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, "alice", players[alice.ResourceID()].name)
	assert.ElementsMatch(t, []resource.ResourceID{alice.ResourceID(), a.ResourceID()}, loaded)

	view, ok := ls.GetResource(a.ResourceID()).(*resource.LocalView)
	require.True(t, ok)
	assert.Equal(t, uint32(100), view.U32(actorHealth))
	assert.Equal(t, "scout", view.Text(actorName))
	assert.Same(t, players[alice.ResourceID()], view.Ref(actorOwner))

	t.Run("uncommitted writes stay invisible", func(t *testing.T) {
		a.SetU32(actorHealth, 5)
		a.SetText(actorName, "ranger")
		assert.False(t, ls.Update(ctx))
		assert.Equal(t, uint32(100), view.U32(actorHealth))
		assert.Equal(t, "scout", view.Text(actorName))

		rs.Commit()
		assert.True(t, ls.Update(ctx))
		assert.Equal(t, uint32(5), view.U32(actorHealth))
		assert.Equal(t, "ranger", view.Text(actorName))
	})

	t.Run("removal disposes the local resource", func(t *testing.T) {
		local := players[alice.ResourceID()]
		require.True(t, alice.Dispose())
		rs.Commit()
		ls.Update(ctx)
		assert.NotNil(t, ls.GetResource(alice.ResourceID()), "still referenced by the actor")

		a.SetRef(actorOwner, nil)
		rs.Commit()
		assert.True(t, ls.Update(ctx))
		assert.True(t, local.disposed)
		assert.Nil(t, ls.GetResource(alice.ResourceID()))
		assert.Nil(t, view.Ref(actorOwner))
		assert.Equal(t, 1, ls.Loaded())
	})

	require.NoError(t, jobs.Shutdown())
	require.NoError(t, ls.Shutdown(ctx))
	assert.Zero(t, ls.Loaded())
}

func TestLocalLoadFailure(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	events := core.NewEventBus()
	rs := newTestRemote(t, 4096)

	ls := NewLocalResourceSystem(rs.Primary(), nil, events, nil)
	require.NoError(t, ls.Register(fx.player, func(view *resource.LocalView) resource.LocalResource {
		return &brokenLoad{LocalView: view}
	}))

	var failure error
	events.Register(core.EventResourceLoadFailed, "test", func(c core.EventContext, sender, listener interface{}) bool {
		failure = c.Err
		return true
	})

	p := create(t, rs, fx.player, nil)
	rs.Commit()
	ls.Update(ctx)

	assert.EqualError(t, failure, "no such file")
	assert.Nil(t, ls.GetResource(p.ResourceID()))

	p.Dispose()
	rs.Commit()
	ls.Update(ctx)
	assert.Zero(t, ls.Loaded())
}

func TestSubscribeReplaysState(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	rs := newTestRemote(t, 4096)

	p := create(t, rs, fx.player, resource.Props{"name": "early"})
	rs.Commit()
	b := create(t, rs, fx.blob, resource.Props{"data": []byte{1, 2}})

	sub := rs.Subscribe()
	ls := NewLocalResourceSystem(sub, nil, nil, nil)
	require.NoError(t, ls.Register(fx.player, nil))
	require.NoError(t, ls.Register(fx.blob, nil))

	assert.False(t, ls.Update(ctx), "no snapshot before the next commit")

	rs.Commit()
	require.True(t, ls.Update(ctx))

	pv, ok := ls.GetResource(p.ResourceID()).(*resource.LocalView)
	require.True(t, ok)
	assert.Equal(t, "early", pv.Text(0))

	bv, ok := ls.GetResource(b.ResourceID()).(*resource.LocalView)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, bv.ArrayBuffer(0))
	assert.Zero(t, sub.Messages.Len(), "blob creation was not delivered twice")
}

func TestMessageChannelDrain(t *testing.T) {
	c := NewMessageChannel(2)
	c.Send(
		Message{Seq: 1, Kind: MessageResourceCreated, ResourceID: 1},
		Message{Seq: 1, Kind: MessageStringSet, Handle: 1},
		Message{Seq: 2, Kind: MessageResourceDisposed, ResourceID: 1},
	)

	var kinds []MessageKind
	n := c.Drain(1, func(m Message) { kinds = append(kinds, m.Kind) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []MessageKind{MessageResourceCreated, MessageStringSet}, kinds)
	assert.Equal(t, 1, c.Len())

	assert.Zero(t, c.Drain(1, func(Message) {}))
	assert.Equal(t, 1, c.Drain(5, func(Message) {}))
}
