package handlers

import "github.com/tallysync/tallysync/internal/browser"

type ItemsRequest struct {
	Query string `form:"q"`
}

// ItemsResponse is a listing of the current directory.
type ItemsResponse struct {
	Path  string          `json:"path"`
	Items []browser.Entry `json:"items"`
}

type NavigateIntoRequest struct {
	Name string `json:"name" binding:"required"`
}
