package handlers

import "github.com/tallysync/tallysync/internal/dirsync"

type SyncResponse struct {
	Message string          `json:"message"`
	Result  *dirsync.Result `json:"result"`
}
