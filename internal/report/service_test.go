package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/hefti/internal/model"
)

// --- モック定義 ---

type mockEntryRepo struct {
	listByDateRangeFn func(ctx context.Context, from, to time.Time) ([]*model.Entry, error)
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id int64) (*model.Entry, error) {
	return nil, nil
}

func (m *mockEntryRepo) List(ctx context.Context) ([]*model.Entry, error) {
	return nil, nil
}

func (m *mockEntryRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
	return m.listByDateRangeFn(ctx, from, to)
}

func (m *mockEntryRepo) Create(ctx context.Context, entry *model.Entry) (int64, error) {
	return 0, nil
}

func (m *mockEntryRepo) Update(ctx context.Context, entry *model.Entry) (bool, error) {
	return false, nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

// 報告開始日: 2019年第36週の月曜日
var testStartDate = time.Date(2019, 9, 2, 0, 0, 0, 0, time.UTC)

func entryOn(id int64, entryType string, date time.Time) *model.Entry {
	return &model.Entry{
		ID:        id,
		Title:     "Eintrag",
		SpendTime: 60,
		LogDate:   date,
		EntryType: entryType,
	}
}

// --- テスト ---

// TestBuildWeek_FirstWeekIsNumberOne は開始週の報告書が第1号になることを検証する。
func TestBuildWeek_FirstWeekIsNumberOne(t *testing.T) {
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			return []*model.Entry{}, nil
		},
	}
	svc := NewService(repo, testStartDate)

	r, err := svc.BuildWeek(context.Background(), 2019, 36)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Number != 1 {
		t.Errorf("number = %d, want 1", r.Number)
	}
	if r.TrainingYear != 1 {
		t.Errorf("training year = %d, want 1", r.TrainingYear)
	}
}

// TestBuildWeek_NumberAdvancesWeekly は通し番号が週ごとに進むことを検証する。
func TestBuildWeek_NumberAdvancesWeekly(t *testing.T) {
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			return []*model.Entry{}, nil
		},
	}
	svc := NewService(repo, testStartDate)

	tests := []struct {
		year, week int
		wantNumber int
		wantYear   int
	}{
		{2019, 36, 1, 1},
		{2019, 37, 2, 1},
		{2020, 36, 53, 2},
		{2021, 36, 106, 3},
	}

	for _, tt := range tests {
		r, err := svc.BuildWeek(context.Background(), tt.year, tt.week)
		if err != nil {
			t.Fatalf("BuildWeek(%d, %d): unexpected error: %v", tt.year, tt.week, err)
		}
		if r.Number != tt.wantNumber {
			t.Errorf("BuildWeek(%d, %d).Number = %d, want %d", tt.year, tt.week, r.Number, tt.wantNumber)
		}
		if r.TrainingYear != tt.wantYear {
			t.Errorf("BuildWeek(%d, %d).TrainingYear = %d, want %d", tt.year, tt.week, r.TrainingYear, tt.wantYear)
		}
	}
}

// TestBuildWeek_SetsDateRange は報告書の日付範囲が月曜から日曜になることを検証する。
func TestBuildWeek_SetsDateRange(t *testing.T) {
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			return []*model.Entry{}, nil
		},
	}
	svc := NewService(repo, testStartDate)

	r, err := svc.BuildWeek(context.Background(), 2019, 36)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2019, 9, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2019, 9, 8, 0, 0, 0, 0, time.UTC)
	if !r.DateStart.Equal(wantStart) {
		t.Errorf("date start = %v, want %v", r.DateStart, wantStart)
	}
	if !r.DateEnd.Equal(wantEnd) {
		t.Errorf("date end = %v, want %v", r.DateEnd, wantEnd)
	}
}

// TestBuildWeek_GroupsByEntryType は記録が種別ごとにグループ化されることを検証する。
func TestBuildWeek_GroupsByEntryType(t *testing.T) {
	monday := time.Date(2019, 9, 2, 0, 0, 0, 0, time.UTC)
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			return []*model.Entry{
				entryOn(1, "work", monday),
				entryOn(2, "school", monday.AddDate(0, 0, 1)),
				entryOn(3, "work", monday.AddDate(0, 0, 2)),
			}, nil
		},
	}
	svc := NewService(repo, testStartDate)

	r, err := svc.BuildWeek(context.Background(), 2019, 36)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(r.Groups))
	}
	// グループは種別名の昇順
	if r.Groups[0].EntryType != "school" || r.Groups[1].EntryType != "work" {
		t.Errorf("group order = [%s, %s], want [school, work]",
			r.Groups[0].EntryType, r.Groups[1].EntryType)
	}
	if len(r.Groups[1].Entries) != 2 {
		t.Errorf("work entries = %d, want 2", len(r.Groups[1].Entries))
	}
	// グループ内はlogdate昇順を保つ
	if r.Groups[1].Entries[0].ID != 1 || r.Groups[1].Entries[1].ID != 3 {
		t.Errorf("work entry order = [%d, %d], want [1, 3]",
			r.Groups[1].Entries[0].ID, r.Groups[1].Entries[1].ID)
	}
}

// TestBuildWeek_InvalidWeek は不正な週番号がInvalidWeekエラーになることを検証する。
func TestBuildWeek_InvalidWeek(t *testing.T) {
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			t.Fatal("repository should not be called for invalid week")
			return nil, nil
		},
	}
	svc := NewService(repo, testStartDate)

	_, err := svc.BuildWeek(context.Background(), 2019, 55)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidWeek {
		t.Fatalf("expected invalid week error, got %v", err)
	}
}

// TestBuildWeek_RepositoryErrorWrapped は永続化層のエラーがラップされて返ることを検証する。
func TestBuildWeek_RepositoryErrorWrapped(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &mockEntryRepo{
		listByDateRangeFn: func(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
			return nil, dbErr
		},
	}
	svc := NewService(repo, testStartDate)

	_, err := svc.BuildWeek(context.Background(), 2019, 36)
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}
