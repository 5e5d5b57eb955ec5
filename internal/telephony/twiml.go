package telephony

import (
	"bytes"
	"encoding/xml"
)

// Minimal TwiML builder, kept free of any provider SDK dependency.
// Only the verbs this application emits are modeled.

type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type Say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type Play struct {
	XMLName xml.Name `xml:"Play"`
	// Digits sends DTMF tones instead of playing a URL.
	Digits string `xml:"digits,attr,omitempty"`
	URL    string `xml:",chardata"`
}

type Gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr,omitempty"`
	Action        string   `xml:"action,attr,omitempty"`
	Method        string   `xml:"method,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Verbs         []any    `xml:",any"`
}

type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// Start runs nested instructions without blocking call-flow progression.
// Used to fork the media stream while the call keeps gathering speech.
type Start struct {
	XMLName xml.Name `xml:"Start"`
	Stream  *Stream  `xml:"Stream,omitempty"`
}

type Stream struct {
	XMLName xml.Name `xml:"Stream"`
	URL     string   `xml:"url,attr"`
}

type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Render encodes verbs into a TwiML document.
func Render(verbs ...any) (string, error) {
	r := Response{Verbs: verbs}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
