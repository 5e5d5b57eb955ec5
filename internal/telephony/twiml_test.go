package telephony

import (
	"strings"
	"testing"
)

func TestRender_PlayGatherPause(t *testing.T) {
	out, err := Render(
		Play{URL: "https://unmute.example.com/audio/abc"},
		Gather{Input: "speech", Action: "https://unmute.example.com/webhooks/twilio/gather", Method: "POST", SpeechTimeout: "2"},
		Pause{Length: 3600},
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"<Response>",
		"<Play>https://unmute.example.com/audio/abc</Play>",
		`input="speech"`,
		`speechTimeout="2"`,
		`<Pause length="3600">`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in twiml:\n%s", want, out)
		}
	}
}

func TestRender_StartStream(t *testing.T) {
	out, err := Render(Start{Stream: &Stream{URL: "wss://unmute.example.com/webhooks/twilio/media"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<Stream url="wss://unmute.example.com/webhooks/twilio/media">`) {
		t.Fatalf("expected stream verb in twiml:\n%s", out)
	}
}

func TestRender_DTMFDigits(t *testing.T) {
	out, err := Render(Play{Digits: "1w2"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `digits="1w2"`) {
		t.Fatalf("expected digits attr in twiml:\n%s", out)
	}
}

func TestRender_EscapesText(t *testing.T) {
	out, err := Render(Say{Text: "fish & chips <now>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "fish &amp; chips &lt;now&gt;") {
		t.Fatalf("expected escaped text in twiml:\n%s", out)
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, s := range []string{StatusCompleted, StatusBusy, StatusFailed, StatusNoAnswer, StatusCanceled} {
		if !TerminalStatus(s) {
			t.Fatalf("expected %q terminal", s)
		}
	}
	for _, s := range []string{StatusQueued, StatusRinging, StatusInProgress, StatusAnswered, ""} {
		if TerminalStatus(s) {
			t.Fatalf("expected %q not terminal", s)
		}
	}
}
