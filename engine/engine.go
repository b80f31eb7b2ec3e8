package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/systems"
)

type Stage uint32

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var stageNames = [...]string{
	"uninitialized", "booting", "boot complete", "initializing",
	"initialized", "running", "shutting down",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint32(s))
}

// Engine drives a Game with two loops: the writer loop updates remote
// resources and commits, the reader loop applies each published snapshot
// to the local resources.
type Engine struct {
	currentStage  atomic.Uint32
	gameInstance  *Game
	config        *ApplicationConfig
	events        *core.EventBus
	systemManager *systems.SystemManager

	writerClock   *core.Clock
	readerClock   *core.Clock
	writerMetrics *core.FrameMetrics
	readerMetrics *core.FrameMetrics

	cancel atomic.Pointer[context.CancelFunc]
}

type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer exports the resource metrics through reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// New boots the game and creates the resource systems from its config.
func New(g *Game, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine needs a game instance")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		gameInstance:  g,
		events:        core.NewEventBus(),
		writerClock:   core.NewClock(),
		readerClock:   core.NewClock(),
		writerMetrics: core.NewFrameMetrics(),
		readerMetrics: core.NewFrameMetrics(),
	}
	e.setStage(EngineStageBooting)

	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if g.FnBoot != nil {
		if err := g.FnBoot(); err != nil {
			return nil, fmt.Errorf("failed to boot game: %w", err)
		}
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	e.config = g.ApplicationConfig
	core.SetLogLevel(e.config.Level())

	smConfig := e.config.SystemManagerConfig()
	smConfig.Registerer = o.registerer
	sm, err := systems.NewSystemManager(smConfig, e.events)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	e.systemManager = sm

	e.setStage(EngineStageBootComplete)
	return e, nil
}

func (e *Engine) Stage() Stage {
	return Stage(e.currentStage.Load())
}

func (e *Engine) setStage(s Stage) {
	e.currentStage.Store(uint32(s))
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

// Metrics returns the frame metrics of the writer and the reader loop.
func (e *Engine) Metrics() (writer, reader *core.FrameMetrics) {
	return e.writerMetrics, e.readerMetrics
}

// Initialize hands the systems to the game and publishes the state it
// created, so the first reader tick already sees it.
func (e *Engine) Initialize() error {
	if e.Stage() != EngineStageBootComplete {
		return fmt.Errorf("initialize in stage %s: %w", e.Stage(), core.ErrAlreadyInitialized)
	}
	e.setStage(EngineStageInitializing)

	e.events.Register(core.EventApplicationQuit, e, e.onEvent)

	e.gameInstance.SystemManager = e.systemManager
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	seq := e.systemManager.Remote().Commit()

	core.LogInfo("%s initialized (session %s, first snapshot %d)", e.config.Name, e.systemManager.SessionID(), seq)
	e.setStage(EngineStageInitialized)
	return nil
}

// Run blocks until ctx is cancelled, Quit is called or a game hook fails.
func (e *Engine) Run(ctx context.Context) error {
	if e.Stage() != EngineStageInitialized {
		return fmt.Errorf("run in stage %s: %w", e.Stage(), core.ErrNotInitialized)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancel.Store(&cancel)
	e.setStage(EngineStageRunning)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.writerLoop(gctx)
	})
	g.Go(func() error {
		return e.readerLoop(gctx)
	})
	err := g.Wait()
	e.setStage(EngineStageInitialized)
	return err
}

// Quit asks a running engine to stop after the current tick.
func (e *Engine) Quit() {
	e.events.Fire(core.EventContext{Code: core.EventApplicationQuit}, e)
}

func (e *Engine) writerLoop(ctx context.Context) error {
	ticker := time.NewTicker(e.config.TickInterval())
	defer ticker.Stop()

	remote := e.systemManager.Remote()
	e.writerClock.Start()
	last := e.writerClock.Elapsed()
	var ticks uint32

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		e.writerClock.Update()
		now := e.writerClock.Elapsed()
		delta := now - last
		last = now

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta.Seconds()); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				return fmt.Errorf("game update: %w", err)
			}
		}
		remote.Commit()
		e.writerMetrics.Update(delta)

		ticks++
		if ticks%e.config.TickRate == 0 {
			fps, ms := e.writerMetrics.Frame()
			core.LogDebug("writer: %.0f ticks/s, %.3f ms per tick, %d live resources", fps, ms, remote.Len())
		}
	}
}

func (e *Engine) readerLoop(ctx context.Context) error {
	ticker := time.NewTicker(e.config.SyncInterval())
	defer ticker.Stop()

	local := e.systemManager.Local()
	e.readerClock.Start()
	last := e.readerClock.Elapsed()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		e.readerClock.Update()
		now := e.readerClock.Elapsed()

		if !local.Update(ctx) {
			continue
		}
		delta := now - last
		last = now

		if e.gameInstance.FnSync != nil {
			if err := e.gameInstance.FnSync(delta.Seconds()); err != nil {
				core.LogError("Game sync failed, shutting down: %s", err)
				return fmt.Errorf("game sync: %w", err)
			}
		}
		e.readerMetrics.Update(delta)
	}
}

// Shutdown releases every system. It is safe to call after a failed Run.
func (e *Engine) Shutdown(ctx context.Context) error {
	if e.Stage() == EngineStageUninitialized {
		return nil
	}
	if cancel := e.cancel.Load(); cancel != nil {
		(*cancel)()
	}
	e.setStage(EngineStageShuttingDown)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.systemManager.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	e.events.Shutdown()

	e.setStage(EngineStageUninitialized)
	return errors.Join(errs...)
}

func (e *Engine) onEvent(context core.EventContext, sender, listener interface{}) bool {
	switch context.Code {
	case core.EventApplicationQuit:
		core.LogInfo("EventApplicationQuit received, shutting down.")
		if cancel := e.cancel.Load(); cancel != nil {
			(*cancel)()
		}
		return true
	}
	return false
}
