package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallysync/tallysync/internal/session"
)

// ConfigHandler updates the sync source and destination.
type ConfigHandler struct {
	sess *session.Session
}

func NewConfigHandler(sess *session.Session) *ConfigHandler {
	return &ConfigHandler{sess: sess}
}

// SetSource also moves the browser to the new source.
func (h *ConfigHandler) SetSource(c *gin.Context) {
	h.set(c, h.sess.SetSource, h.sess.Path)
}

func (h *ConfigHandler) SetDestination(c *gin.Context) {
	h.set(c, h.sess.SetDestination, h.sess.Destination)
}

func (h *ConfigHandler) set(c *gin.Context, setter func(string) error, getter func() string) {
	var req SetPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, http.StatusBadRequest, ErrCodeBadRequest, err)
		return
	}

	if err := setter(req.Path); err != nil {
		code := ErrCodeBadRequest
		if errors.Is(err, session.ErrPathRejected) {
			code = ErrCodePathRejected
		}
		AbortWithError(c, http.StatusBadRequest, code, err)
		return
	}

	c.PureJSON(http.StatusOK, &SetPathResponse{Path: getter()})
}
