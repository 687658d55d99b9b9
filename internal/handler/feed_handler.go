// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/viora/viora/internal/feed"
	"github.com/viora/viora/internal/model"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// ListPage は公開画像のページを取得する。
	ListPage(ctx context.Context, page, limit int) (*feed.Page, error)
	// SetHearts はハート数を指定値で上書きする（管理用オペレーション）。
	SetHearts(ctx context.Context, id string, hearts int) (*model.PublishedImage, error)
}

// FeedHandler はフィード閲覧のHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// --- レスポンス型 ---

// imageResponse は公開画像のAPIレスポンス。
// フィールド名はフロントエンドとの互換のためcamelCaseを使用する。
type imageResponse struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	Hearts    int       `json:"hearts"`
	CreatedAt time.Time `json:"createdAt"`
}

// feedPageResponse はフィード1ページ分のレスポンス。
type feedPageResponse struct {
	Images     []imageResponse `json:"images"`
	Page       int             `json:"page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// updateHeartsRequest はハート数上書きリクエストのボディ。
// Heartsは整数検証のためfloat64で受けてから変換する。
type updateHeartsRequest struct {
	ID     string   `json:"id"`
	Hearts *float64 `json:"hearts"`
}

// updateHeartsResponse はハート数上書きのレスポンス。
type updateHeartsResponse struct {
	Success bool          `json:"success"`
	Data    imageResponse `json:"data"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListFeed は公開画像フィードをページネーション付きで取得する。
// GET /feed?page=1&limit=20
func (h *FeedHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	page := feed.DefaultPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPageError(raw))
			return
		}
		page = parsed
	}

	limit := feed.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < feed.MinLimit || parsed > feed.MaxLimit {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidLimitError(raw))
			return
		}
		limit = parsed
	}

	result, err := h.service.ListPage(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	images := make([]imageResponse, 0, len(result.Images))
	for i := range result.Images {
		images = append(images, toImageResponse(&result.Images[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feedPageResponse{
		Images:     images,
		Page:       result.Page,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// UpdateHearts はハート数を直接上書きする（管理用オペレーション）。
// PUT /feed
func (h *FeedHandler) UpdateHearts(w http.ResponseWriter, r *http.Request) {
	var req updateHeartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	if req.Hearts == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidHeartsError("heartsが指定されていません"))
		return
	}
	if *req.Hearts != math.Trunc(*req.Hearts) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidHeartsError("整数を指定してください"))
		return
	}
	if *req.Hearts < 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidHeartsError("負の値は指定できません"))
		return
	}

	img, err := h.service.SetHearts(r.Context(), req.ID, int(*req.Hearts))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updateHeartsResponse{
		Success: true,
		Data:    toImageResponse(img),
	})
}

// --- ヘルパー関数 ---

// toImageResponse はmodel.PublishedImageからAPIレスポンスに変換する。
func toImageResponse(img *model.PublishedImage) imageResponse {
	return imageResponse{
		ID:        img.ID,
		Prompt:    img.Prompt,
		ImageURL:  img.ImageURL,
		Hearts:    img.Hearts,
		CreatedAt: img.CreatedAt,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidPage, model.ErrCodeInvalidLimit,
		model.ErrCodeInvalidPrompt, model.ErrCodeInvalidImageURL,
		model.ErrCodeInvalidImageID, model.ErrCodeInvalidAction,
		model.ErrCodeInvalidHearts:
		return http.StatusBadRequest
	case model.ErrCodeImageNotFound:
		return http.StatusNotFound
	case model.ErrCodeContentPolicyViolation:
		return http.StatusBadRequest
	case model.ErrCodeGenerationUnauthorized, model.ErrCodeGenerationRateLimited,
		model.ErrCodeGenerationFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
