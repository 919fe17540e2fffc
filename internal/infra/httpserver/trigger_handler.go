package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"cpghub_cleanup/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// triggerResponse is {ok, processed, emailsSent, deleted, errors} on success
// and {ok, error} on fatal failure.
type triggerResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	*app.Result
}

type TriggerHandler struct {
	runner app.CleanupRunner
	logger *logrus.Entry
}

func NewTriggerHandler(runner app.CleanupRunner, logger *logrus.Entry) *TriggerHandler {
	return &TriggerHandler{runner: runner, logger: logger}
}

func (h *TriggerHandler) Handle(c *gin.Context) {
	setCORSHeaders(c)
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}

	// Once started, the batch is not cancelled if the caller goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.runner.Run(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Cleanup trigger failed")
		writeJSON(c, http.StatusInternalServerError, triggerResponse{OK: false, Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, triggerResponse{OK: true, Result: result})
}

func setCORSHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "content-type, authorization")
}

func writeJSON(c *gin.Context, status int, body triggerResponse) {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"ok":false,"error":"encode response"}`)
	}
	c.Data(status, "application/json", payload)
}
