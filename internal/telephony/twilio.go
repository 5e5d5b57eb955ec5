package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"unmute/internal/config"
)

const defaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioProvider implements Provider against the Twilio REST API.
// Requests are form-encoded with basic auth, per Twilio convention.
type TwilioProvider struct {
	accountSID string
	authToken  string
	baseURL    string

	httpc *http.Client
}

// NewTwilioProvider builds the adapter from config. httpc may be nil.
// baseURL is injectable so tests can point the adapter at a fake API.
func NewTwilioProvider(cfg config.TwilioConfig, baseURL string, httpc *http.Client) *TwilioProvider {
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &TwilioProvider{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    baseURL,
		httpc:      httpc,
	}
}

func (p *TwilioProvider) Configured() bool {
	return p.accountSID != "" && p.authToken != ""
}

type twilioCall struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

func (p *TwilioProvider) PlaceCall(ctx context.Context, req PlaceCallRequest) (string, error) {
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Url", req.AnswerURL)
	form.Set("StatusCallback", req.StatusCallbackURL)
	for _, ev := range []string{"initiated", "ringing", "answered", "completed"} {
		form.Add("StatusCallbackEvent", ev)
	}
	form.Set("StatusCallbackMethod", http.MethodPost)
	if req.RecordingCallbackURL != "" {
		form.Set("Record", "true")
		form.Set("RecordingStatusCallback", req.RecordingCallbackURL)
		form.Set("RecordingStatusCallbackMethod", http.MethodPost)
	}

	var out twilioCall
	if err := p.do(ctx, http.MethodPost, p.callsURL(""), form, &out); err != nil {
		return "", err
	}
	if out.SID == "" {
		return "", fmt.Errorf("telephony: twilio returned no call sid")
	}
	return out.SID, nil
}

func (p *TwilioProvider) UpdateCall(ctx context.Context, callSID string, upd CallUpdate) error {
	if callSID == "" {
		return fmt.Errorf("telephony: call sid is required")
	}
	form := url.Values{}
	if upd.TwiML != "" {
		form.Set("Twiml", upd.TwiML)
	}
	if upd.Muted != nil {
		form.Set("Muted", strconv.FormatBool(*upd.Muted))
	}
	if upd.Status != "" {
		form.Set("Status", upd.Status)
	}
	if len(form) == 0 {
		return fmt.Errorf("telephony: empty call update")
	}
	return p.do(ctx, http.MethodPost, p.callsURL(callSID), form, nil)
}

func (p *TwilioProvider) FetchCallStatus(ctx context.Context, callSID string) (string, error) {
	if callSID == "" {
		return "", fmt.Errorf("telephony: call sid is required")
	}
	var out twilioCall
	if err := p.do(ctx, http.MethodGet, p.callsURL(callSID), nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

type twilioRecordingList struct {
	Recordings []struct {
		SID      string `json:"sid"`
		URI      string `json:"uri"`
		Duration string `json:"duration"`
	} `json:"recordings"`
}

func (p *TwilioProvider) ListRecordings(ctx context.Context, callSID string) ([]Recording, error) {
	if callSID == "" {
		return nil, fmt.Errorf("telephony: call sid is required")
	}
	u := fmt.Sprintf("%s/Accounts/%s/Recordings.json?CallSid=%s", p.baseURL, p.accountSID, url.QueryEscape(callSID))

	var out twilioRecordingList
	if err := p.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}

	recs := make([]Recording, 0, len(out.Recordings))
	for _, r := range out.Recordings {
		dur, _ := strconv.Atoi(r.Duration)
		recs = append(recs, Recording{
			SID: r.SID,
			// The API returns a .json URI; strip the extension for the media URL.
			URL:             "https://api.twilio.com" + strings.TrimSuffix(r.URI, ".json"),
			DurationSeconds: dur,
		})
	}
	return recs, nil
}

func (p *TwilioProvider) callsURL(callSID string) string {
	if callSID == "" {
		return fmt.Sprintf("%s/Accounts/%s/Calls.json", p.baseURL, p.accountSID)
	}
	return fmt.Sprintf("%s/Accounts/%s/Calls/%s.json", p.baseURL, p.accountSID, url.PathEscape(callSID))
}

func (p *TwilioProvider) do(ctx context.Context, method, rawURL string, form url.Values, out any) error {
	if !p.Configured() {
		return fmt.Errorf("telephony: twilio credentials not configured")
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("telephony: twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return twilioError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type twilioErrorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func twilioError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed twilioErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("telephony: twilio error %d (code %d): %s", resp.StatusCode, parsed.Code, parsed.Message)
	}
	return fmt.Errorf("telephony: twilio error %d", resp.StatusCode)
}
