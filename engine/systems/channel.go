package systems

import (
	"sync"

	"github.com/spaghettifunk/animares/engine/containers"
	"github.com/spaghettifunk/animares/engine/resource"
)

// MessageKind tells the reader what changed outside the shared arena.
type MessageKind uint8

const (
	MessageResourceCreated MessageKind = iota + 1
	MessageResourceDisposed
	MessageStringSet
	MessageStringReleased
	MessageBufferSet
	MessageBufferReleased
)

func (k MessageKind) String() string {
	switch k {
	case MessageResourceCreated:
		return "resource-created"
	case MessageResourceDisposed:
		return "resource-disposed"
	case MessageStringSet:
		return "string-set"
	case MessageStringReleased:
		return "string-released"
	case MessageBufferSet:
		return "buffer-set"
	case MessageBufferReleased:
		return "buffer-released"
	}
	return "unknown"
}

// Message is a lifecycle record. Seq is the commit that made it visible.
type Message struct {
	Seq          uint64
	Kind         MessageKind
	ResourceID   resource.ResourceID
	ResourceType resource.ResourceType
	Ptr          uint32
	Handle       uint32
	Text         string
	Data         []byte
}

// MessageChannel carries lifecycle messages from one writer to one reader.
type MessageChannel struct {
	mu    sync.Mutex
	queue *containers.RingQueue[Message]
}

func NewMessageChannel(size int) *MessageChannel {
	return &MessageChannel{queue: containers.NewRingQueue[Message](size)}
}

// Send enqueues msgs in order.
func (c *MessageChannel) Send(msgs ...Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range msgs {
		c.queue.Enqueue(m)
	}
}

// Drain hands fn every queued message whose Seq is at most seq. Messages
// from later commits stay queued.
func (c *MessageChannel) Drain(seq uint64, fn func(Message)) int {
	var batch []Message
	c.mu.Lock()
	for {
		m, err := c.queue.Peek()
		if err != nil || m.Seq > seq {
			break
		}
		_, _ = c.queue.Dequeue()
		batch = append(batch, m)
	}
	c.mu.Unlock()

	for _, m := range batch {
		fn(m)
	}
	return len(batch)
}

func (c *MessageChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}
