package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/hefti/internal/model"
	"github.com/hitoshi/hefti/internal/report"
)

//go:embed templates/print.html
var printTemplateFS embed.FS

// ReportServiceInterface は報告書ハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	// BuildWeek は指定したISO年・週番号の報告書を組み立てる。
	BuildWeek(ctx context.Context, year, week int) (*report.WeekReport, error)
}

// PrintHandler は週次報告書の印刷ビューのHTTPハンドラー。
type PrintHandler struct {
	service ReportServiceInterface
	tmpl    *template.Template
}

// NewPrintHandler はPrintHandlerを生成する。
// 埋め込みテンプレートの解析に失敗した場合はエラーを返す。
func NewPrintHandler(service ReportServiceInterface) (*PrintHandler, error) {
	tmpl, err := template.New("print.html").Funcs(template.FuncMap{
		"toHours":  toHours,
		"dateFmt":  formatDate,
		"totalFor": totalSpendTime,
	}).ParseFS(printTemplateFS, "templates/print.html")
	if err != nil {
		return nil, fmt.Errorf("印刷テンプレートの解析に失敗しました: %w", err)
	}

	return &PrintHandler{
		service: service,
		tmpl:    tmpl,
	}, nil
}

// PrintWeek は指定週の報告書をHTMLで描画する。
// GET /print/:year/:week
func (h *PrintHandler) PrintWeek(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("yearは数値で指定してください"))
		return
	}
	wk, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("weekは数値で指定してください"))
		return
	}

	rep, err := h.service.BuildWeek(r.Context(), year, wk)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, rep); err != nil {
		// ヘッダー送信後のためステータスは変更できない。ログのみ残す。
		slog.Error("failed to render print view",
			slog.String("error", err.Error()),
		)
	}
}

// toHours は分単位の作業時間をドイツ語の時間表記に変換する。
// 60分なら "1 Stunde"、それ以外は "n Stunden"（端数は小数1桁）。
func toHours(minutes int) string {
	if minutes == 60 {
		return "1 Stunde"
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d Stunden", minutes/60)
	}
	return fmt.Sprintf("%.1f Stunden", float64(minutes)/60)
}

// formatDate は日付を "02.01.2006" 形式で整形する。
func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// totalSpendTime はグループ内の合計作業時間（分）を返す。
func totalSpendTime(entries []*model.Entry) int {
	total := 0
	for _, e := range entries {
		total += e.SpendTime
	}
	return total
}
