// Package mqtt provides the broker connection with abstraction for testing.
package mqtt

import "time"

// Message is one raw broker message plus arrival metadata. The payload is
// opaque at this layer; parsing happens in the pipeline.
type Message struct {
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}

// Subscriber delivers broker messages to the pipeline.
type Subscriber interface {
	// Messages returns the channel of inbound messages. The channel is
	// bounded; the single consumer must keep draining it.
	Messages() <-chan Message

	// ConnectionLost reports an unexpected disconnect after a successful
	// subscription. The core does not reconnect: the run ends and retry
	// policy belongs to whoever restarts it.
	ConnectionLost() <-chan error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}
