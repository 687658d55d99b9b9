package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viora/viora/internal/model"
)

// LikeServiceInterface はハートトグルハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	// ToggleHeart はハート数をアトミックに1増減し、更新後の画像を返す。
	ToggleHeart(ctx context.Context, id string, action model.HeartAction) (*model.PublishedImage, error)
}

// LikeHandler はハートトグルのHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface) *LikeHandler {
	return &LikeHandler{service: service}
}

// toggleHeartRequest はハートトグルリクエストのボディ。
type toggleHeartRequest struct {
	Action string `json:"action"`
}

// toggleHeartResponse はハートトグルのレスポンス。
type toggleHeartResponse struct {
	Success bool          `json:"success"`
	Data    imageResponse `json:"data"`
	Action  string        `json:"action"`
}

// ToggleHeart は指定画像のハート数を1増減する。
// POST /like/{id}
func (h *LikeHandler) ToggleHeart(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "id")

	var req toggleHeartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	img, err := h.service.ToggleHeart(r.Context(), imageID, model.HeartAction(req.Action))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toggleHeartResponse{
		Success: true,
		Data:    toImageResponse(img),
		Action:  req.Action,
	})
}
