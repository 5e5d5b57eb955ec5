package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"unmute/internal/config"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements Synthesizer, Transcriber and Completer against
// the OpenAI REST API (audio/speech, audio/transcriptions, chat/completions).
type OpenAIClient struct {
	apiKey    string
	baseURL   string
	ttsModel  string
	sttModel  string
	chatModel string

	httpc *http.Client
}

// NewOpenAIClient builds a client from config. httpc may be nil.
// baseURL is injectable so tests can point the adapter at a fake vendor.
func NewOpenAIClient(cfg config.OpenAIConfig, httpc *http.Client) *OpenAIClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAIClient{
		apiKey:    cfg.APIKey,
		baseURL:   base,
		ttsModel:  cfg.TTSModel,
		sttModel:  cfg.STTModel,
		chatModel: cfg.ChatModel,
		httpc:     httpc,
	}
}

func (c *OpenAIClient) Configured() bool { return c.apiKey != "" }

type ttsRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format"`
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, string, error) {
	if !c.Configured() {
		return nil, "", fmt.Errorf("speech: openai api key not configured")
	}
	body, err := json.Marshal(ttsRequest{
		Model:          c.ttsModel,
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("speech: synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", vendorError("synthesis", resp)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return audio, "audio/mpeg", nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("speech: openai api key not configured")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(audio); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", c.sttModel); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", vendorError("transcription", resp)
	}
	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("speech: openai api key not configured")
	}
	body, err := json.Marshal(chatRequest{Model: c.chatModel, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", vendorError("completion", resp)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("speech: completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

type vendorErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func vendorError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed vendorErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("speech: %s failed (%d): %s", op, resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("speech: %s failed (%d)", op, resp.StatusCode)
}
