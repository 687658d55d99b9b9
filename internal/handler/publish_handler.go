package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/viora/viora/internal/model"
)

// PublishServiceInterface は公開ハンドラーが必要とするサービスインターフェース。
type PublishServiceInterface interface {
	// Publish はプロンプトと画像URLを検証し、公開画像として永続化する。
	Publish(ctx context.Context, prompt, imageURL string) (*model.PublishedImage, error)
}

// PublishHandler は画像公開のHTTPハンドラー。
type PublishHandler struct {
	service PublishServiceInterface
}

// NewPublishHandler はPublishHandlerを生成する。
func NewPublishHandler(service PublishServiceInterface) *PublishHandler {
	return &PublishHandler{service: service}
}

// publishRequest は画像公開リクエストのボディ。
type publishRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}

// Publish は生成画像をフィードに公開する。
// POST /publish
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	img, err := h.service.Publish(r.Context(), req.Prompt, req.ImageURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toImageResponse(img))
}
