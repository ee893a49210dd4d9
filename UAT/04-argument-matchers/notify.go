// Package matchers fans a message out over several channels. Its tests select stubs by
// predicate rather than by exact arguments.
package matchers

import (
	"errors"
	"fmt"
)

// Message is what a Notifier delivers.
type Message struct {
	Subject string
	Body    string
	Tags    []string
}

// Notifier delivers a message on one channel.
type Notifier interface {
	Send(channel string, priority int, msg Message) error
}

// Broadcast sends msg on every channel and reports each failed delivery.
func Broadcast(notifier Notifier, channels []string, priority int, msg Message) error {
	var errs []error

	for _, channel := range channels {
		err := notifier.Send(channel, priority, msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
		}
	}

	return errors.Join(errs...)
}
