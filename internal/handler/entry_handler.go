package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/hefti/internal/model"
)

// EntryServiceInterface は記録ハンドラーが必要とするサービスインターフェース。
type EntryServiceInterface interface {
	// Get は指定IDの記録を返す。
	Get(ctx context.Context, id int64) (*model.Entry, error)
	// List は全記録をlogdate昇順で返す。
	List(ctx context.Context) ([]*model.Entry, error)
	// ListByWeek は指定したISO年・週番号に属する記録を返す。
	ListByWeek(ctx context.Context, year, week int) ([]*model.Entry, error)
	// Create は記録を作成し、採番されたIDを返す。
	Create(ctx context.Context, entry *model.Entry) (int64, error)
	// Update は記録を更新する。
	Update(ctx context.Context, entry *model.Entry) error
	// Delete は指定IDの記録を削除する。
	Delete(ctx context.Context, id int64) error
}

// EntryHandler は作業記録のHTTPハンドラー。
type EntryHandler struct {
	service EntryServiceInterface
}

// NewEntryHandler はEntryHandlerを生成する。
func NewEntryHandler(service EntryServiceInterface) *EntryHandler {
	return &EntryHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// entryRequest は記録の作成・更新リクエストのボディ。
// logdateは "2006-01-02" 形式で受け取る。
type entryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SpendTime   int    `json:"spend_time"`
	LogDate     string `json:"logdate"`
	EntryType   string `json:"entry_type"`
}

// entryResponse は記録1件のレスポンス。
type entryResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SpendTime   int    `json:"spend_time"`
	LogDate     string `json:"logdate"`
	EntryType   string `json:"entry_type"`
}

func toEntryResponse(e *model.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		SpendTime:   e.SpendTime,
		LogDate:     e.LogDate.Format("2006-01-02"),
		EntryType:   e.EntryType,
	}
}

// parseEntryRequest はリクエストボディをモデルに変換する。
func parseEntryRequest(r *http.Request) (*model.Entry, *model.APIError) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, model.NewInvalidRequestError("リクエストボディの解析に失敗しました")
	}

	var logDate time.Time
	if req.LogDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.LogDate, time.UTC)
		if err != nil {
			return nil, model.NewInvalidRequestError("logdateは YYYY-MM-DD 形式で指定してください")
		}
		logDate = d
	}

	return &model.Entry{
		Title:       req.Title,
		Description: req.Description,
		SpendTime:   req.SpendTime,
		LogDate:     logDate,
		EntryType:   req.EntryType,
	}, nil
}

// List は記録一覧を取得する。
// GET /api/entry?year=2019&week=36（yearとweekは任意。両方指定で週フィルタ）
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	weekStr := r.URL.Query().Get("week")

	var entries []*model.Entry
	var err error

	if yearStr != "" || weekStr != "" {
		year, yerr := strconv.Atoi(yearStr)
		wk, werr := strconv.Atoi(weekStr)
		if yerr != nil || werr != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("yearとweekは数値で両方指定してください"))
			return
		}
		entries, err = h.service.ListByWeek(r.Context(), year, wk)
	} else {
		entries, err = h.service.List(r.Context())
	}

	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get は記録1件を取得する。
// GET /api/entry/:id
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEntryResponse(entry))
}

// Create は記録を新規作成し、採番されたIDを返す。
// POST /api/entry
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	entry, apiErr := parseEntryRequest(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	id, err := h.service.Create(r.Context(), entry)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(id)
}

// Update は記録を更新する。
// PUT /api/entry/:id
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	entry, apiErr := parseEntryRequest(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	entry.ID = id

	if err := h.service.Update(r.Context(), entry); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete は記録を削除する。
// DELETE /api/entry/:id
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// entryIDParam はURLパスから記録IDを取り出す。不正なIDの場合は400を書き込む。
func entryIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("idは正の整数で指定してください"))
		return 0, false
	}
	return id, true
}

// --- 共通ヘルパー ---

// apiErrorResponse はAPIエラーレスポンスのJSON構造。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一フォーマットでエラーレスポンスを書き込む。
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
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
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
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidEntry, model.ErrCodeInvalidWeek, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bearerTokenFromHeader はAuthorizationヘッダーからベアラートークンを取り出す。
// 取り出せない場合は空文字列を返す。
func bearerTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
