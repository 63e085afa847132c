package mqtt

import "time"

// FakeSubscriber feeds scripted messages to the pipeline for tests.
type FakeSubscriber struct {
	messages chan Message
	lost     chan error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeSubscriber creates a FakeSubscriber with room for buffer queued
// messages.
func NewFakeSubscriber(buffer int) *FakeSubscriber {
	return &FakeSubscriber{
		messages:  make(chan Message, buffer),
		lost:      make(chan error, 1),
		Connected: true,
	}
}

// Deliver queues one message as if it arrived from the broker.
func (f *FakeSubscriber) Deliver(payload []byte, receivedAt time.Time) {
	f.messages <- Message{Topic: "fake", Payload: payload, ReceivedAt: receivedAt}
}

// DropConnection simulates an unexpected disconnect.
func (f *FakeSubscriber) DropConnection(err error) {
	f.Connected = false
	f.lost <- err
}

// EndOfMessages closes the message channel, as a clean shutdown would.
func (f *FakeSubscriber) EndOfMessages() {
	close(f.messages)
}

// Messages returns the scripted message channel.
func (f *FakeSubscriber) Messages() <-chan Message {
	return f.messages
}

// ConnectionLost returns the scripted disconnect channel.
func (f *FakeSubscriber) ConnectionLost() <-chan error {
	return f.lost
}

// IsConnected reports the scripted connection state.
func (f *FakeSubscriber) IsConnected() bool {
	return f.Connected
}

// Close marks the subscriber as closed.
func (f *FakeSubscriber) Close() error {
	f.Closed = true
	return nil
}
