package build

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultEventType is assigned to data lines that arrive before any
// "event:" line names the event.
const DefaultEventType = "output"

// Event is a single decoded server-sent event. Payload is the raw JSON
// of the event's data line; it has been validated but not yet mapped to
// a typed packet (see ParsePacket).
type Event struct {
	Type    string
	Payload json.RawMessage
}

// StreamDecoder incrementally parses an SSE byte stream into Events,
// tolerating arbitrary chunk boundaries: a single line may span several
// Feed calls and a single Feed call may carry many lines.
//
// Events are delivered to the emit callback synchronously, in the order
// their data lines complete. A data line whose payload is not valid
// JSON is dropped without an error; losing one frame is preferable to
// aborting the whole stream. Content left in the buffer when the stream
// ends never terminated with a newline and is discarded, not flushed.
type StreamDecoder struct {
	buf       []byte
	eventType string
	emit      func(Event)
}

// NewStreamDecoder creates a decoder that invokes emit for each
// complete event. One decoder serves exactly one stream; state is not
// reset between streams.
func NewStreamDecoder(emit func(Event)) *StreamDecoder {
	return &StreamDecoder{
		eventType: DefaultEventType,
		emit:      emit,
	}
}

// Feed consumes the next chunk of the stream, emitting zero or more
// events before returning.
func (d *StreamDecoder) Feed(chunk []byte) {
	d.buf = append(d.buf, chunk...)

	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return
		}
		line := string(d.buf[:i])
		d.buf = d.buf[i+1:]
		d.processLine(line)
	}
}

func (d *StreamDecoder) processLine(line string) {
	switch {
	case strings.HasPrefix(line, "event:"):
		d.eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))

	case strings.HasPrefix(line, "data:"):
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			return
		}
		if !json.Valid([]byte(data)) {
			// Malformed frame from the backend; skip just this event.
			return
		}
		d.emit(Event{Type: d.eventType, Payload: json.RawMessage(data)})

	default:
		// Comments, blank lines and unknown directives are ignored.
	}
}
