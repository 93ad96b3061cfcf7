package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tallysync/tallysync/internal/browser"
	"github.com/tallysync/tallysync/internal/session"
)

var errInvalidName = errors.New("name must be a single path element")

// ItemsHandler lists the current directory and moves around the tree.
type ItemsHandler struct {
	sess *session.Session
}

func NewItemsHandler(sess *session.Session) *ItemsHandler {
	return &ItemsHandler{sess: sess}
}

// GetItems lists the current directory, optionally keeping only names that
// start with q.
func (h *ItemsHandler) GetItems(c *gin.Context) {
	var req ItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, http.StatusBadRequest, ErrCodeBadRequest, err)
		return
	}
	h.respond(c, req.Query)
}

// Up moves to the parent directory. At the root this is a no-op.
func (h *ItemsHandler) Up(c *gin.Context) {
	h.sess.Up()
	h.respond(c, "")
}

// Into moves into a child of the current directory.
func (h *ItemsHandler) Into(c *gin.Context) {
	var req NavigateIntoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, http.StatusBadRequest, ErrCodeBadRequest, err)
		return
	}
	if !validName(req.Name) {
		AbortWithError(c, http.StatusBadRequest, ErrCodeBadRequest, errInvalidName)
		return
	}

	h.sess.Into(req.Name)
	h.respond(c, "")
}

func (h *ItemsHandler) respond(c *gin.Context, query string) {
	items := h.sess.Filtered(query)
	if items == nil {
		items = []browser.Entry{}
	}
	c.PureJSON(http.StatusOK, &ItemsResponse{
		Path:  h.sess.Path(),
		Items: items,
	})
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
