package speech

import (
	"context"
	"strings"
)

// Enhancement is the result of a best-effort text cleanup step.
// Failures never block the pipeline: callers get the original text back,
// tagged with why enhancement was skipped.
type Enhancement struct {
	Text     string
	Enhanced bool
	Reason   string
}

const reformatPrompt = "You clean up text for a phone call. Fix casing, punctuation and " +
	"obvious spelling mistakes. Do not change the meaning, do not add or remove " +
	"information, do not answer questions. Reply with the cleaned text only."

// Reformat runs the completion adapter over a raw utterance and falls back
// to the original text when the adapter errors or returns nothing usable.
func Reformat(ctx context.Context, c Completer, text string) Enhancement {
	if c == nil {
		return Enhancement{Text: text, Reason: "no completer configured"}
	}
	out, err := c.Complete(ctx, []Message{
		{Role: "system", Content: reformatPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return Enhancement{Text: text, Reason: err.Error()}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return Enhancement{Text: text, Reason: "empty completion"}
	}
	return Enhancement{Text: out, Enhanced: true}
}

const summaryPrompt = "Summarize this phone conversation in two or three sentences. " +
	"\"User\" lines were typed by the caller and spoken aloud; \"Caller\" lines are " +
	"what the other party said. Write in plain language for the caller's call history."

// Summarize produces a short natural-language summary of a finished call.
// script is the role-tagged transcript ("User: ..." / "Caller: ..." lines).
// Unlike Reformat, errors are returned: the caller decides to swallow them.
func Summarize(ctx context.Context, c Completer, script string) (string, error) {
	out, err := c.Complete(ctx, []Message{
		{Role: "system", Content: summaryPrompt},
		{Role: "user", Content: script},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
