package testbed

import (
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/animares/engine"
	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/math"
	"github.com/spaghettifunk/animares/engine/resource"
	"github.com/spaghettifunk/animares/engine/scene"
	"github.com/spaghettifunk/animares/engine/systems"
)

const (
	orbiterCount  = 6
	orbitRadius   = 4.0
	contactRadius = 1.5
	// Handle the fake physics engine reports for the ground plane, which no
	// resource owns.
	groundHandle systems.ExternalHandle = 9000
)

type TestGame struct {
	*engine.Game
}

// gameState is split by loop: the writer fields are only touched from
// Update, the reader fields only from Sync.
type gameState struct {
	// writer
	elapsed   float64
	player    *scene.Player
	root      *scene.Node
	orbiters  []*scene.Node
	mesh      *scene.Mesh
	actors    []*scene.Actor
	sun       *scene.Light
	physics   *systems.HandleMap
	contacts  map[[2]int]bool
	unmatched int

	// set once before the loops start
	rootID resource.ResourceID

	// reader
	syncs   uint64
	lastSeq uint64
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				contacts: make(map[[2]int]bool),
			},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnSync = tg.Sync
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = engine.DefaultApplicationConfig()
	}
	if g.ApplicationConfig.Name == "" {
		g.ApplicationConfig.Name = "Anima Testbed"
	}
	return nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	if err := scene.RegisterLocal(g.SystemManager.Local(), map[resource.ResourceType]resource.LocalConstructor{
		scene.MeshType: newGPUMesh,
	}); err != nil {
		return err
	}

	state := g.state()
	rs := g.SystemManager.Remote()
	state.physics = g.SystemManager.HandleMap("physics")

	var err error
	if state.player, err = scene.NewPlayer(rs, &scene.PlayerProps{Name: "testbed"}); err != nil {
		return err
	}
	if state.root, err = scene.NewNode(rs, &scene.NodeProps{Name: "root"}); err != nil {
		return err
	}

	mat, err := scene.NewMaterial(rs, &scene.MaterialProps{
		Emissive: ptr(math.NewVec3(0.1, 0.1, 0.3)),
	})
	if err != nil {
		return err
	}
	state.mesh, err = scene.NewMesh(rs, &scene.MeshProps{
		Vertices:  cubeVertices(),
		Node:      state.root,
		Materials: map[int]*scene.Material{0: mat},
	})
	if err != nil {
		return err
	}

	for i := 0; i < orbiterCount; i++ {
		n, err := scene.NewNode(rs, &scene.NodeProps{
			Name:   fmt.Sprintf("orbiter-%d", i),
			Parent: state.root,
		})
		if err != nil {
			return err
		}
		a, err := scene.NewActor(rs, &scene.ActorProps{
			Name:  n.Name(),
			Owner: state.player,
			Speed: ptr(float32(1 + i%3)),
		})
		if err != nil {
			return err
		}
		state.orbiters = append(state.orbiters, n)
		state.actors = append(state.actors, a)
		state.physics.Bind(systems.ExternalHandle(100+i), a.ResourceID())
	}
	state.root.SetChildren(state.orbiters)
	state.rootID = state.root.ResourceID()

	state.sun, err = scene.NewLight(rs, &scene.LightProps{
		Target:    state.root,
		Intensity: ptr(float32(2)),
	})
	return err
}

// Update moves the orbiters and feeds the contacts of a pretend physics
// step back into the actors.
func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	state.elapsed += deltaTime

	positions := make([]math.Vec3, len(state.orbiters))
	for i, n := range state.orbiters {
		speed := float64(state.actors[i].Speed())
		angle := state.elapsed*speed + float64(i)*2*gomath.Pi/orbiterCount
		positions[i] = math.NewVec3(
			float32(orbitRadius*gomath.Cos(angle)),
			0,
			float32(orbitRadius*gomath.Sin(angle)),
		)
		n.SetPosition(positions[i])
		n.SetTransform(math.NewMat4Translation(positions[i]))
	}

	pairs := state.step(positions)
	state.unmatched += state.physics.DrainContacts(pairs, func(a, b resource.ResourceID, started bool) {
		if !started {
			return
		}
		for _, actor := range state.actors {
			if id := actor.ResourceID(); id == a || id == b {
				if h := actor.Health(); h > 0 {
					actor.SetHealth(h - 1)
				}
				state.player.SetScore(state.player.Score() + 1)
			}
		}
	})

	// flicker, held between 1 and 2
	state.sun.SetIntensity(math.Clamp(float32(1.5+0.8*gomath.Sin(state.elapsed)), 1, 2))
	return nil
}

// step reports orbiters that came within contactRadius of each other since
// the last call, plus a ground hit whenever an orbiter crosses x = 0.
func (s *gameState) step(positions []math.Vec3) []systems.ContactPair {
	var pairs []systems.ContactPair
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			dx := positions[i].X - positions[j].X
			dz := positions[i].Z - positions[j].Z
			near := dx*dx+dz*dz < contactRadius*contactRadius
			key := [2]int{i, j}
			if near != s.contacts[key] {
				s.contacts[key] = near
				pairs = append(pairs, systems.ContactPair{
					A:       systems.ExternalHandle(100 + i),
					B:       systems.ExternalHandle(100 + j),
					Started: near,
				})
			}
		}
		if gomath.Abs(float64(positions[i].X)) < 0.01 {
			pairs = append(pairs, systems.ContactPair{
				A:       systems.ExternalHandle(100 + i),
				B:       groundHandle,
				Started: true,
			})
		}
	}
	return pairs
}

// Sync reads the latest snapshot through the typed local views.
func (g *TestGame) Sync(deltaTime float64) error {
	state := g.state()
	local := g.SystemManager.Local()
	state.syncs++

	seq := local.Seq()
	if seq < state.lastSeq {
		return fmt.Errorf("snapshot went back from %d to %d", state.lastSeq, seq)
	}
	state.lastSeq = seq

	root, ok := local.GetResource(state.rootID).(*scene.NodeLocal)
	if !ok {
		return nil
	}
	if state.syncs%uint64(g.ApplicationConfig.TickRate) != 0 {
		return nil
	}

	for _, n := range root.Children() {
		p := n.Position()
		core.LogDebug("snapshot %d: %s at (%.2f, %.2f, %.2f)", seq, n.Name(), p.X, p.Y, p.Z)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	if state.player != nil {
		core.LogInfo("testbed done after %d syncs, final score %d, %d unmatched contacts", state.syncs, state.player.Score(), state.unmatched)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
