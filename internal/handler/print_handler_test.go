package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/hefti/internal/model"
	"github.com/hitoshi/hefti/internal/report"
)

// --- モック定義 ---

type mockReportService struct {
	buildWeekFn func(ctx context.Context, year, week int) (*report.WeekReport, error)
}

func (m *mockReportService) BuildWeek(ctx context.Context, year, week int) (*report.WeekReport, error) {
	return m.buildWeekFn(ctx, year, week)
}

func newPrintRouter(t *testing.T, svc ReportServiceInterface) http.Handler {
	t.Helper()
	h, err := NewPrintHandler(svc)
	if err != nil {
		t.Fatalf("failed to create print handler: %v", err)
	}
	r := chi.NewRouter()
	r.Get("/print/{year}/{week}", h.PrintWeek)
	return r
}

func sampleReport() *report.WeekReport {
	start := time.Date(2019, 9, 2, 0, 0, 0, 0, time.UTC)
	return &report.WeekReport{
		Year:         2019,
		Week:         36,
		Number:       1,
		TrainingYear: 1,
		DateStart:    start,
		DateEnd:      start.AddDate(0, 0, 6),
		Groups: []report.Group{
			{
				EntryType: "school",
				Entries: []*model.Entry{
					{ID: 1, Title: "Berufsschule", Description: "Unterricht", SpendTime: 480, LogDate: start, EntryType: "school"},
				},
			},
			{
				EntryType: "work",
				Entries: []*model.Entry{
					{ID: 2, Title: "Projektarbeit", SpendTime: 60, LogDate: start.AddDate(0, 0, 1), EntryType: "work"},
					{ID: 3, Title: "Code Review", SpendTime: 90, LogDate: start.AddDate(0, 0, 2), EntryType: "work"},
				},
			},
		},
	}
}

// --- テスト ---

// TestPrintHandler_RendersReport は報告書がHTMLとして描画されることを検証する。
func TestPrintHandler_RendersReport(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			if year != 2019 || week != 36 {
				t.Errorf("params = (%d, %d), want (2019, 36)", year, week)
			}
			return sampleReport(), nil
		},
	}
	router := newPrintRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/print/2019/36", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Ausbildungsnachweis Nr. 1",
		"Ausbildungsjahr: 1",
		"02.09.2019",
		"08.09.2019",
		"Berufsschule",
		"Projektarbeit",
		"school",
		"work",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

// TestPrintHandler_HourFormatting は作業時間の時間表記を検証する。
func TestPrintHandler_HourFormatting(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			return sampleReport(), nil
		},
	}
	router := newPrintRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/print/2019/36", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	// 480分 = 8 Stunden、60分 = 1 Stunde、90分 = 1.5 Stunden
	for _, want := range []string{"8 Stunden", "1 Stunde", "1.5 Stunden"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	// workグループの合計: 60 + 90 = 150分 = 2.5 Stunden
	if !strings.Contains(body, "2.5 Stunden") {
		t.Error("body does not contain group total 2.5 Stunden")
	}
}

// TestPrintHandler_EmptyWeek は記録ゼロ件の週でプレースホルダーが表示されることを検証する。
func TestPrintHandler_EmptyWeek(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			r := sampleReport()
			r.Groups = nil
			return r, nil
		},
	}
	router := newPrintRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/print/2019/36", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Keine Eintraege") {
		t.Error("body does not contain empty-week message")
	}
}

// TestPrintHandler_InvalidWeekIs400 は不正な週番号が400になることを検証する。
func TestPrintHandler_InvalidWeekIs400(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			return nil, model.NewInvalidWeekError(year, week)
		},
	}
	router := newPrintRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/print/2019/55", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestPrintHandler_NonNumericParamsIs400 は数値でない年・週が400になることを検証する。
func TestPrintHandler_NonNumericParamsIs400(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := newPrintRouter(t, svc)

	for _, path := range []string{"/print/abc/36", "/print/2019/xyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", path, w.Result().StatusCode, http.StatusBadRequest)
		}
	}
}

// TestPrintHandler_EscapesEntryText は記録テキストがHTMLエスケープされることを検証する。
func TestPrintHandler_EscapesEntryText(t *testing.T) {
	svc := &mockReportService{
		buildWeekFn: func(ctx context.Context, year, week int) (*report.WeekReport, error) {
			r := sampleReport()
			r.Groups = []report.Group{
				{
					EntryType: "work",
					Entries: []*model.Entry{
						{ID: 1, Title: "<script>alert(1)</script>", SpendTime: 60,
							LogDate: r.DateStart, EntryType: "work"},
					},
				},
			}
			return r, nil
		},
	}
	router := newPrintRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/print/2019/36", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("entry text was not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped script tag in body")
	}
}
