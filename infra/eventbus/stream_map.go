package eventbus

import (
	"fmt"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain/events"
)

// streamNameFor maps Transaction.Posted to <prefix>events:transaction:posted.
func streamNameFor(prefix string, eventType events.EventType) string {
	return prefix + nameFor("events", eventType)
}

func dlqStreamName(prefix string, eventType events.EventType) string {
	return streamNameFor(prefix, eventType) + "-DLQ"
}

func groupNameFor(prefix string, eventType events.EventType) string {
	return prefix + nameFor("group", eventType)
}

func nameFor(kind string, eventType events.EventType) string {
	parts := strings.Split(eventType.String(), ".")
	if len(parts) == 2 {
		return fmt.Sprintf("%s:%s:%s", kind, strings.ToLower(parts[0]), strings.ToLower(parts[1]))
	}
	return fmt.Sprintf("%s:%s", kind, strings.ToLower(eventType.String()))
}

// topicNameFor maps Transaction.Posted to <prefix>.transaction.posted.
func topicNameFor(prefix string, eventType events.EventType) string {
	return fmt.Sprintf("%s.%s", topicPrefix(prefix), strings.ToLower(eventType.String()))
}

func dlqTopicNameFor(prefix string, eventType events.EventType) string {
	return fmt.Sprintf("%s.dlq.%s", topicPrefix(prefix), strings.ToLower(eventType.String()))
}

func topicPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "ledger.events"
	}
	return prefix
}
