package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viora/viora/internal/generate"
	"github.com/viora/viora/internal/model"
)

// mockGenerateService はGenerateServiceInterfaceのモック実装。
type mockGenerateService struct {
	generateFn func(ctx context.Context, prompt string) (*generate.Result, error)
}

func (m *mockGenerateService) Generate(ctx context.Context, prompt string) (*generate.Result, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt)
	}
	return nil, nil
}

func TestGenerateHandler_Generate_Success(t *testing.T) {
	svc := &mockGenerateService{
		generateFn: func(ctx context.Context, prompt string) (*generate.Result, error) {
			if prompt != "a mountain at sunset" {
				t.Errorf("prompt = %q, want %q", prompt, "a mountain at sunset")
			}
			return &generate.Result{
				Prompt:   prompt,
				ImageURL: "https://images.example.com/generated.png",
			}, nil
		},
	}
	h := NewGenerateHandler(svc)

	body := `{"prompt": "a mountain at sunset"}`
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Generate(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["prompt"] != "a mountain at sunset" {
		t.Errorf("prompt = %q, want %q", result["prompt"], "a mountain at sunset")
	}
	if result["imageUrl"] != "https://images.example.com/generated.png" {
		t.Errorf("imageUrl = %q, want %q", result["imageUrl"], "https://images.example.com/generated.png")
	}
}

func TestGenerateHandler_Generate_MalformedJSON(t *testing.T) {
	h := NewGenerateHandler(&mockGenerateService{})

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`not json`))
	w := httptest.NewRecorder()

	h.Generate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateHandler_Generate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *model.APIError
		wantStatus int
	}{
		{"無効なプロンプト", model.NewInvalidPromptError("プロンプトが空です"), http.StatusBadRequest},
		{"ポリシー違反", model.NewContentPolicyViolationError(), http.StatusBadRequest},
		{"認証失敗", model.NewGenerationUnauthorizedError(), http.StatusInternalServerError},
		{"レート制限", model.NewGenerationRateLimitedError(), http.StatusInternalServerError},
		{"生成失敗", model.NewGenerationFailedError(), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockGenerateService{
				generateFn: func(ctx context.Context, prompt string) (*generate.Result, error) {
					return nil, tt.err
				},
			}
			h := NewGenerateHandler(svc)

			body := `{"prompt": "prompt"}`
			req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(body))
			w := httptest.NewRecorder()

			h.Generate(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			errResp := parseAPIErrorResponse(t, w)
			if errResp["code"] != tt.err.Code {
				t.Errorf("code = %q, want %q", errResp["code"], tt.err.Code)
			}
		})
	}
}
