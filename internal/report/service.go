// Package report は週次報告書の組み立てロジックを提供する。
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hitoshi/hefti/internal/model"
	"github.com/hitoshi/hefti/internal/repository"
	"github.com/hitoshi/hefti/internal/week"
)

// Group は同一種別の記録のまとまりを表す。
type Group struct {
	EntryType string
	Entries   []*model.Entry
}

// WeekReport は1週分の報告書を表す。
// Numberは報告開始日からの通し番号、TrainingYearは研修年度。
type WeekReport struct {
	Year         int
	Week         int
	Number       int
	TrainingYear int
	DateStart    time.Time
	DateEnd      time.Time
	Groups       []Group
}

// Service は週次報告書のサービス層。
type Service struct {
	repo      repository.EntryRepository
	startDate time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// startDateは報告書番号の起点となる日付（第1週の月曜日）。
func NewService(repo repository.EntryRepository, startDate time.Time) *Service {
	return &Service{
		repo:      repo,
		startDate: startDate,
	}
}

// BuildWeek は指定したISO年・週番号の報告書を組み立てる。
// 該当週の記録を種別ごとにグループ化し、通し番号と研修年度を算出する。
func (s *Service) BuildWeek(ctx context.Context, year, wk int) (*WeekReport, error) {
	if !week.Valid(year, wk) {
		return nil, model.NewInvalidWeekError(year, wk)
	}

	from, to := week.Range(year, wk)
	entries, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}

	number := s.reportNumber(from)

	return &WeekReport{
		Year:         year,
		Week:         wk,
		Number:       number,
		TrainingYear: (number-1)/52 + 1,
		DateStart:    from,
		DateEnd:      to,
		Groups:       groupByType(entries),
	}, nil
}

// reportNumber は報告開始日からの経過週数に基づく通し番号を返す。
// 開始週が第1号となる。
func (s *Service) reportNumber(weekStart time.Time) int {
	weeks := int(weekStart.Sub(s.startDate).Hours() / (24 * 7))
	return weeks + 1
}

// groupByType は記録を種別ごとにまとめる。
// グループは種別名の昇順、グループ内はlogdate昇順を保つ。
func groupByType(entries []*model.Entry) []Group {
	byType := make(map[string][]*model.Entry)
	for _, e := range entries {
		byType[e.EntryType] = append(byType[e.EntryType], e)
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	groups := make([]Group, 0, len(types))
	for _, t := range types {
		groups = append(groups, Group{
			EntryType: t,
			Entries:   byType[t],
		})
	}
	return groups
}
