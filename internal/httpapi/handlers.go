package httpapi

import (
	"errors"
	"net/http"
	"time"

	"unmute/internal/auth"
	"unmute/internal/history"
	"unmute/internal/session"
	"unmute/internal/telephony"
	"unmute/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth    *auth.Manager
	Calls   *session.Service
	History history.Repository
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Calls ---

type startCallRequest struct {
	PhoneNumber string  `json:"phone_number"`
	Voice       string  `json:"voice"`
	Speed       float64 `json:"speed"`
}

func (h Handlers) StartCall(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sess, err := h.Calls.StartCall(c.Request.Context(), mustUserID(c), req.PhoneNumber, req.Voice, req.Speed)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h Handlers) GetCall(c *gin.Context) {
	sess, err := h.Calls.Get(mustUserID(c), c.Param("sid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type speakRequest struct {
	Text string `json:"text"`
}

func (h Handlers) Speak(c *gin.Context) {
	var req speakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := h.Calls.Speak(c.Request.Context(), mustUserID(c), c.Param("sid"), req.Text)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (h Handlers) SetMuted(c *gin.Context) {
	var req muteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Calls.SetMuted(c.Request.Context(), mustUserID(c), c.Param("sid"), req.Muted); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"muted": req.Muted})
}

type digitsRequest struct {
	Digits string `json:"digits"`
}

func (h Handlers) SendDigits(c *gin.Context) {
	var req digitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Calls.SendDigits(c.Request.Context(), mustUserID(c), c.Param("sid"), req.Digits); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) EndCall(c *gin.Context) {
	if err := h.Calls.EndCall(c.Request.Context(), mustUserID(c), c.Param("sid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- History ---

func (h Handlers) ListHistory(c *gin.Context) {
	records, err := h.History.ListByUser(c.Request.Context(), mustUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"calls": records})
}

func (h Handlers) GetHistory(c *gin.Context) {
	rec, err := h.History.Get(c.Request.Context(), mustUserID(c), c.Param("sid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h Handlers) DeleteHistory(c *gin.Context) {
	if err := h.History.Delete(c.Request.Context(), mustUserID(c), c.Param("sid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetHistoryRecording serves stored recording bytes, falling back to a
// redirect when only the provider URL is on file.
func (h Handlers) GetHistoryRecording(c *gin.Context) {
	rec, err := h.History.Get(c.Request.Context(), mustUserID(c), c.Param("sid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	switch {
	case len(rec.RecordingData) > 0:
		c.Data(http.StatusOK, "audio/wav", rec.RecordingData)
	case rec.RecordingURL != nil:
		c.Redirect(http.StatusFound, *rec.RecordingURL)
	default:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no recording"})
	}
}

// --- Telephony webhooks ---
// Twilio retries on non-2xx responses, so parse failures are answered with
// 2xx after logging; only a malformed body gets a 400 back.

func (h Handlers) TwilioAnswer(c *gin.Context) {
	form, err := telephony.ParseStatusForm(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad form"})
		return
	}
	twiml, err := h.Calls.HandleAnswer(c.Request.Context(), form.CallSID)
	if err != nil {
		logger.FromGin(c).Error("answer webhook failed", "call_sid", form.CallSID, "err", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/xml", []byte(twiml))
}

func (h Handlers) TwilioStatus(c *gin.Context) {
	form, err := telephony.ParseStatusForm(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad form"})
		return
	}
	if err := h.Calls.HandleStatus(c.Request.Context(), form); err != nil {
		// Stale callbacks for evicted sessions are expected; anything
		// else is worth a log line but never a retry storm.
		if !errors.Is(err, session.ErrNotFound) {
			logger.FromGin(c).Warn("status webhook failed", "call_sid", form.CallSID, "err", err)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) TwilioGather(c *gin.Context) {
	form, err := telephony.ParseGatherForm(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad form"})
		return
	}
	twiml, err := h.Calls.HandleGather(c.Request.Context(), form)
	if err != nil {
		logger.FromGin(c).Error("gather webhook failed", "call_sid", form.CallSID, "err", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/xml", []byte(twiml))
}

func (h Handlers) TwilioRecording(c *gin.Context) {
	form, err := telephony.ParseRecordingForm(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad form"})
		return
	}
	if err := h.Calls.HandleRecording(c.Request.Context(), form); err != nil {
		logger.FromGin(c).Warn("recording webhook failed", "call_sid", form.CallSID, "err", err)
	}
	c.Status(http.StatusNoContent)
}

// --- helpers ---

func mustUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// abortWithError maps service errors onto the HTTP taxonomy. Upstream
// adapter failures keep their message so the UI can show what the vendor
// said.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotFound), errors.Is(err, history.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "call not found"})
	case errors.Is(err, session.ErrCallNotActive), errors.Is(err, session.ErrTooManyCalls):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotConfigured):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
