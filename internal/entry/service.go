// Package entry は作業記録のドメインロジックを提供する。
package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/hefti/internal/model"
	"github.com/hitoshi/hefti/internal/repository"
	"github.com/hitoshi/hefti/internal/security"
	"github.com/hitoshi/hefti/internal/week"
)

// Service は作業記録のサービス層。
// バリデーションとサニタイズを行った上で永続化層に委譲する。
type Service struct {
	repo      repository.EntryRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.EntryRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// validate は記録の入力内容を検証する。
func validate(e *model.Entry) error {
	if e.Title == "" {
		return model.NewInvalidEntryError("タイトルは必須です")
	}
	if e.SpendTime <= 0 {
		return model.NewInvalidEntryError("作業時間は正の値で指定してください")
	}
	if e.EntryType == "" {
		return model.NewInvalidEntryError("記録種別は必須です")
	}
	if e.LogDate.IsZero() {
		return model.NewInvalidEntryError("記録日は必須です")
	}
	return nil
}

// sanitize はテキストフィールドをサニタイズする。
func (s *Service) sanitize(e *model.Entry) {
	e.Title = s.sanitizer.Sanitize(e.Title)
	e.Description = s.sanitizer.Sanitize(e.Description)
}

// Get は指定IDの記録を取得する。
func (s *Service) Get(ctx context.Context, id int64) (*model.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	if entry == nil {
		return nil, model.NewEntryNotFoundError(id)
	}
	return entry, nil
}

// List は全記録をlogdate昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("記録一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// ListByWeek は指定したISO年・週番号に属する記録をlogdate昇順で返す。
func (s *Service) ListByWeek(ctx context.Context, year, wk int) ([]*model.Entry, error) {
	if !week.Valid(year, wk) {
		return nil, model.NewInvalidWeekError(year, wk)
	}
	from, to := week.Range(year, wk)
	entries, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("記録一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// Create は記録を検証・サニタイズして作成し、採番されたIDを返す。
func (s *Service) Create(ctx context.Context, entry *model.Entry) (int64, error) {
	s.sanitize(entry)
	if err := validate(entry); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("記録の作成に失敗しました: %w", err)
	}

	slog.Info("記録を作成しました",
		slog.Int64("entry_id", id),
		slog.String("entry_type", entry.EntryType),
	)

	return id, nil
}

// Update は記録を検証・サニタイズして更新する。
// 対象が存在しない場合はEntryNotFoundエラーを返す。
func (s *Service) Update(ctx context.Context, entry *model.Entry) error {
	s.sanitize(entry)
	if err := validate(entry); err != nil {
		return err
	}

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return fmt.Errorf("記録の更新に失敗しました: %w", err)
	}
	if !updated {
		return model.NewEntryNotFoundError(entry.ID)
	}

	slog.Info("記録を更新しました",
		slog.Int64("entry_id", entry.ID),
	)

	return nil
}

// Delete は指定IDの記録を削除する。
// 対象が存在しない場合はEntryNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("記録の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewEntryNotFoundError(id)
	}

	slog.Info("記録を削除しました",
		slog.Int64("entry_id", id),
	)

	return nil
}
