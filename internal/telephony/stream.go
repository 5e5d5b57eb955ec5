package telephony

import "encoding/json"

// Media-stream frame envelope. Twilio sends JSON text frames over the
// stream WebSocket; the event field discriminates the payload.
const (
	StreamEventConnected = "connected"
	StreamEventStart     = "start"
	StreamEventMedia     = "media"
	StreamEventStop      = "stop"
)

type StreamFrame struct {
	Event string `json:"event"`

	Start *StreamStart `json:"start,omitempty"`
	Media *StreamMedia `json:"media,omitempty"`
	Stop  *StreamStop  `json:"stop,omitempty"`
}

type StreamStart struct {
	StreamSID string `json:"streamSid"`
	CallSID   string `json:"callSid"`
}

type StreamMedia struct {
	// Payload is base64-encoded raw audio for one frame.
	Payload string `json:"payload"`
}

type StreamStop struct {
	CallSID string `json:"callSid"`
}

func ParseStreamFrame(data []byte) (StreamFrame, error) {
	var f StreamFrame
	err := json.Unmarshal(data, &f)
	return f, err
}
