package core

import "sync"

// EventCode identifies a lifecycle event. Application codes start at 0x100.
type EventCode int

const (
	// Shuts the engine down on the next tick.
	EventApplicationQuit EventCode = 0x01
	// A remote resource was registered with its manager.
	/* Context usage:
	 * ResourceID, ResourceType
	 */
	EventResourceCreated EventCode = 0x02
	// A remote resource was released by its manager.
	EventResourceDisposed EventCode = 0x03
	// A local resource finished Load on the reader side.
	EventResourceLoaded EventCode = 0x04
	// A local resource was disposed on the reader side.
	EventResourceUnloaded EventCode = 0x05
	// A local resource failed to load.
	/* Context usage:
	 * ResourceID, ResourceType, Err
	 */
	EventResourceLoadFailed EventCode = 0x06

	MaxEventCode EventCode = 0xFF
)

type EventContext struct {
	Code         EventCode
	ResourceID   uint32
	ResourceType uint32
	Err          error
}

// Should return true if handled.
type FnOnEvent func(ctx EventContext, sender interface{}, listener interface{}) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches lifecycle events synchronously on the firing goroutine.
type EventBus struct {
	mu         sync.RWMutex
	registered map[EventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Must be comparable.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (b *EventBus) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range b.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	b.registered[code] = append(b.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the listener was found and removed; otherwise false.
 */
func (b *EventBus) Unregister(code EventCode, listener interface{}) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			b.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If a handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (b *EventBus) Fire(ctx EventContext, sender interface{}) bool {
	b.mu.RLock()
	events := append([]*registeredEvent(nil), b.registered[ctx.Code]...)
	b.mu.RUnlock()

	for _, e := range events {
		if e.callback(ctx, sender, e.listener) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (b *EventBus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.registered)
}
