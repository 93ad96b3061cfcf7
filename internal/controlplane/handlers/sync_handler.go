package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallysync/tallysync/internal/session"
)

type SyncHandler struct {
	sess *session.Session
}

func NewSyncHandler(sess *session.Session) *SyncHandler {
	return &SyncHandler{sess: sess}
}

// Sync copies the source onto the destination and waits for it to finish.
func (h *SyncHandler) Sync(c *gin.Context) {
	out := h.sess.Sync(c.Request.Context())
	if out.OK() {
		c.PureJSON(http.StatusOK, &SyncResponse{
			Message: out.Message,
			Result:  out.Result,
		})
		return
	}

	status, code := http.StatusInternalServerError, ErrCodeSyncFailed
	switch {
	case errors.Is(out.Err, session.ErrSyncInProgress):
		status, code = http.StatusConflict, ErrCodeSyncInProgress
	case errors.Is(out.Err, session.ErrLocked):
		status, code = http.StatusConflict, ErrCodeSyncLocked
	case errors.Is(out.Err, session.ErrPickCanceled):
		status, code = http.StatusBadRequest, ErrCodeBadRequest
	}

	msg := out.Message
	if msg == "" {
		msg = out.Err.Error()
	}
	c.Abort()
	c.Error(out.Err)
	c.PureJSON(status, ControlPlaneError{
		ErrorCode: code,
		Error:     msg,
	})
}
