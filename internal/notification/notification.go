// Package notification exposes a send-message capability to the rest of the
// core. Actual delivery is a collaborator behind the Sender interface.
package notification

import "context"

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a message. Implementations live at the edge of the system;
// the core only depends on this interface.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
