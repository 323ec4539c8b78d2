package muhasabah

import (
	"io"

	"github.com/MrEthical07/muhasabah/internal/audit"
	"github.com/sirupsen/logrus"
)

// AuditEvent is one security-relevant engine event.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards every event.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers events in a channel, mostly for tests.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// LogrusSink logs events as structured entries.
type LogrusSink = audit.LogrusSink

func NewChannelSink(buffer int) *ChannelSink { return audit.NewChannelSink(buffer) }

func NewJSONWriterSink(w io.Writer) *JSONWriterSink { return audit.NewJSONWriterSink(w) }

func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink { return audit.NewLogrusSink(logger) }
