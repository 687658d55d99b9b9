package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/viora/viora/internal/generate"
	"github.com/viora/viora/internal/model"
)

// GenerateServiceInterface は画像生成ハンドラーが必要とするサービスインターフェース。
type GenerateServiceInterface interface {
	// Generate はプロンプトを検証し、外部APIで画像を生成する。
	Generate(ctx context.Context, prompt string) (*generate.Result, error)
}

// GenerateHandler は画像生成プロキシのHTTPハンドラー。
type GenerateHandler struct {
	service GenerateServiceInterface
}

// NewGenerateHandler はGenerateHandlerを生成する。
func NewGenerateHandler(service GenerateServiceInterface) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// generateRequest は画像生成リクエストのボディ。
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// generateResponse は画像生成のレスポンス。
type generateResponse struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}

// Generate はプロンプトから画像を生成する。生成結果は公開されない。
// 公開するにはクライアントが別途 POST /publish を呼び出す。
// POST /generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	result, err := h.service.Generate(r.Context(), req.Prompt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generateResponse{
		Prompt:   result.Prompt,
		ImageURL: result.ImageURL,
	})
}
