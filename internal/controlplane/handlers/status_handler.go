package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallysync/tallysync/internal/session"
)

type StatusHandler struct {
	sess *session.Session
}

func NewStatusHandler(sess *session.Session) *StatusHandler {
	return &StatusHandler{sess: sess}
}

// Status returns the session state.
func (h *StatusHandler) Status(c *gin.Context) {
	path := h.sess.Path()
	c.PureJSON(http.StatusOK, &StatusResponse{
		Path:        path,
		Source:      path,
		Destination: h.sess.Destination(),
		Syncing:     h.sess.Syncing(),
		LastSync:    h.sess.LastSync(),
	})
}
