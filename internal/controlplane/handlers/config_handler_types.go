package handlers

type SetPathRequest struct {
	Path string `json:"path" binding:"required"`
}

type SetPathResponse struct {
	Path string `json:"path"`
}
