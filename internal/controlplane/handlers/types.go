package handlers

import "github.com/gin-gonic/gin"

const (
	ErrCodeBadRequest     string = "ERR_BAD_REQUEST"
	ErrCodePathRejected   string = "ERR_PATH_REJECTED"
	ErrCodeSyncInProgress string = "ERR_SYNC_IN_PROGRESS"
	ErrCodeSyncLocked     string = "ERR_SYNC_LOCKED"
	ErrCodeSyncFailed     string = "ERR_SYNC_FAILED"
)

type ControlPlaneError struct {
	ErrorCode string `json:"code"`
	Error     string `json:"error"`
}

func AbortWithError(c *gin.Context, status int, code string, err error) {
	c.Abort()
	c.Error(err)
	c.PureJSON(status, ControlPlaneError{
		ErrorCode: code,
		Error:     err.Error(),
	})
}
