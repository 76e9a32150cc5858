package voice

import (
	"errors"
	"net/http"

	"booking-agent/internal/booking"
	"booking-agent/internal/session"
	"booking-agent/internal/telephony"
	"booking-agent/pkg/logger"

	"github.com/gin-gonic/gin"
)

// gatherPath is where Twilio posts recognized speech; relative URLs are
// resolved against the webhook URL that served the Gather.
const gatherPath = "/twilio/gather"

// lineUnknownCall is spoken when a webhook arrives for a call we do not know.
const lineUnknownCall = "Sorry, something went wrong with this call. Goodbye."

// Handlers groups the HTTP handlers for dependency injection. Keep them thin:
// parse input, call the service, write JSON or TwiML.
type Handlers struct {
	Svc *Service
}

type startCallRequest struct {
	CustomerName     string `json:"customerName"`
	HairdresserPhone string `json:"hairdresserPhone"`
	HairdresserName  string `json:"hairdresserName"`
	Service          string `json:"service"`
	PreferredDate    string `json:"preferredDate"`
	PreferredTime    string `json:"preferredTime"`
}

// StartCall handles POST /api/call.
func (h Handlers) StartCall(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sid, err := h.Svc.StartCall(c.Request.Context(), booking.Request{
		CustomerName:     req.CustomerName,
		HairdresserPhone: req.HairdresserPhone,
		HairdresserName:  req.HairdresserName,
		Service:          req.Service,
		PreferredDate:    req.PreferredDate,
		PreferredTime:    req.PreferredTime,
	})
	switch {
	case errors.Is(err, booking.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrNotConfigured):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "public base url not configured"})
		return
	case err != nil:
		logger.FromGin(c).Error("call start failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call placement failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"callSid": sid, "status": "calling"})
}

// GetCall handles GET /api/call/:id.
func (h Handlers) GetCall(c *gin.Context) {
	snap, err := h.Svc.Lookup(c.Param("id"))
	if errors.Is(err, session.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"callSid":           snap.ID,
		"status":            snap.Status,
		"twilioStatus":      snap.CarrierStatus,
		"transcript":        snap.Transcript,
		"appointmentResult": snap.Outcome,
	})
}

// VoiceAnswer handles POST /twilio/voice, invoked when the call is picked up.
func (h Handlers) VoiceAnswer(c *gin.Context) {
	form, ok := h.parseCallback(c)
	if !ok {
		return
	}
	d, err := h.Svc.Answered(c.Request.Context(), form.CallSid, form.CallStatus)
	if err != nil {
		h.unknownCall(c, form.CallSid, err)
		return
	}
	writeDecision(c, d)
}

// VoiceGather handles POST /twilio/gather, carrying recognized speech or an
// empty SpeechResult on the listening-window timeout.
func (h Handlers) VoiceGather(c *gin.Context) {
	form, ok := h.parseCallback(c)
	if !ok {
		return
	}
	d, err := h.Svc.SpokenInput(c.Request.Context(), form.CallSid, form.SpeechResult)
	if err != nil {
		h.unknownCall(c, form.CallSid, err)
		return
	}
	writeDecision(c, d)
}

// VoiceStatus handles POST /twilio/status lifecycle callbacks. Twilio ignores
// the response body here, so unknown sessions are logged and acknowledged.
func (h Handlers) VoiceStatus(c *gin.Context) {
	form, ok := h.parseCallback(c)
	if !ok {
		return
	}
	if err := h.Svc.CarrierStatus(c.Request.Context(), form.CallSid, form.CallStatus); err != nil {
		logger.FromGin(c).Warn("status callback for unknown call", "call_sid", form.CallSid, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h Handlers) parseCallback(c *gin.Context) (telephony.CallbackForm, bool) {
	form, err := telephony.ParseCallback(c.Request)
	if err != nil {
		logger.FromGin(c).Warn("webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return telephony.CallbackForm{}, false
	}
	return form, true
}

// unknownCall answers a webhook for an unknown session with a generic
// apology and hang-up instead of an error status the carrier would retry.
func (h Handlers) unknownCall(c *gin.Context, callSid string, err error) {
	logger.FromGin(c).Warn("webhook for unknown call", "call_sid", callSid, "err", err)
	writeTwiML(c, telephony.VoiceInstruction{Say: lineUnknownCall, Hangup: true})
}

func writeDecision(c *gin.Context, d session.Decision) {
	ins := telephony.VoiceInstruction{Say: d.Say}
	switch d.Action {
	case session.ActionListen:
		ins.Gather = true
		ins.GatherAction = gatherPath
	case session.ActionHangup:
		ins.Hangup = true
	case session.ActionConsult:
		// Consult decisions are resolved inside the service and never
		// reach the wire; treat a stray one as a hang-up.
		ins.Hangup = true
	}
	writeTwiML(c, ins)
}

func writeTwiML(c *gin.Context, ins telephony.VoiceInstruction) {
	twiml, err := telephony.RenderVoiceTwiML(ins)
	if err != nil {
		logger.FromGin(c).Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}
