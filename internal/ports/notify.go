package ports

import "context"

type Notifier interface {
	Send(ctx context.Context, text string) error
}

// WorkflowDisabler coupe les exécutions planifiées futures (ex: workflow CI).
type WorkflowDisabler interface {
	DisableWorkflow(ctx context.Context) error
}

type EventBus interface {
	Publish(topic string, payload []byte)
	Subscribe() (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}
