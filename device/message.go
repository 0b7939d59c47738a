// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

// Severity orders driver diagnostic messages.
type Severity int

// Message severities, least severe first
const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Category is a set of message kinds.
type Category uint32

// Message categories
const (
	CategoryGeneral Category = 1 << iota
	CategoryValidation
	CategoryPerformance

	CategoryAll = CategoryGeneral | CategoryValidation | CategoryPerformance
)

func (c Category) String() string {
	switch {
	case c&CategoryPerformance != 0:
		return "performance"
	case c&CategoryValidation != 0:
		return "validation"
	case c&CategoryGeneral != 0:
		return "general"
	default:
		return "none"
	}
}

// Message is one diagnostic emitted by the driver or one of its layers.
type Message struct {
	Severity Severity
	Category Category
	Layer    string
	Code     int32
	Text     string
}

// MessageHandler receives driver diagnostics.
type MessageHandler interface {
	// OnMessage handles a message. Returning true asks the driver to
	// abort the call that triggered the message.
	OnMessage(msg Message) (abort bool)
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(msg Message) bool

// OnMessage implements interface
func (f MessageHandlerFunc) OnMessage(msg Message) bool {
	return f(msg)
}
