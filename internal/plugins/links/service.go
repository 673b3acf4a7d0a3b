package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

const (
	maxTitleLength = 100
	maxURLLength   = 2048
)

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// LinkService defines the business logic for managing a user's links.
type LinkService interface {
	List(ctx context.Context, userID string) ([]Link, error)
	Create(ctx context.Context, userID, title, url string) (*Link, error)
	Update(ctx context.Context, userID string, linkID int64, title, url string) error
	Delete(ctx context.Context, userID string, linkID int64) error
	Reorder(ctx context.Context, userID string, items []ReorderItem) error
}

type linkService struct {
	repo LinkRepository
}

// NewLinkService creates a new link service.
func NewLinkService(repo LinkRepository) LinkService {
	return &linkService{repo: repo}
}

func (s *linkService) List(ctx context.Context, userID string) ([]Link, error) {
	links, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return links, nil
}

// Create appends the link at the end of the collection.
func (s *linkService) Create(ctx context.Context, userID, title, url string) (*Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if err := validateLink(title, url); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	link := &Link{
		UserID:    userID,
		Title:     title,
		URL:       url,
		Position:  count + 1,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("link created",
		slog.String("user_id", userID),
		slog.Int64("link_id", link.ID),
	)
	return link, nil
}

func (s *linkService) Update(ctx context.Context, userID string, linkID int64, title, url string) error {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if err := validateLink(title, url); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, userID, linkID, title, url); err != nil {
		return asAppError(err)
	}
	return nil
}

func (s *linkService) Delete(ctx context.Context, userID string, linkID int64) error {
	if err := s.repo.Delete(ctx, userID, linkID); err != nil {
		return asAppError(err)
	}
	slog.Info("link deleted",
		slog.String("user_id", userID),
		slog.Int64("link_id", linkID),
	)
	return nil
}

// Reorder applies new positions from a list of {id, position} rows. The
// rows must cover the collection exactly: each id once, positions forming
// a dense 1..n sequence, so the ordinal invariant survives the rewrite.
func (s *linkService) Reorder(ctx context.Context, userID string, items []ReorderItem) error {
	if len(items) == 0 {
		return apperror.NewBadRequest("at least one {id, position} entry is required")
	}

	seenID := make(map[int64]bool, len(items))
	seenPos := make(map[int]bool, len(items))
	for _, item := range items {
		if seenID[item.ID] {
			return apperror.NewBadRequest(fmt.Sprintf("link id %d appears more than once", item.ID))
		}
		seenID[item.ID] = true

		if item.Position < 1 || item.Position > len(items) {
			return apperror.NewBadRequest(fmt.Sprintf("position %d is outside 1..%d", item.Position, len(items)))
		}
		if seenPos[item.Position] {
			return apperror.NewBadRequest(fmt.Sprintf("position %d appears more than once", item.Position))
		}
		seenPos[item.Position] = true
	}

	if err := s.repo.Reorder(ctx, userID, items); err != nil {
		return asAppError(err)
	}
	return nil
}

func validateLink(title, url string) error {
	if title == "" {
		return apperror.NewBadRequest("title is required")
	}
	if len(title) > maxTitleLength {
		return apperror.NewBadRequest(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if url == "" {
		return apperror.NewBadRequest("url is required")
	}
	if len(url) > maxURLLength {
		return apperror.NewBadRequest(fmt.Sprintf("url must be at most %d characters", maxURLLength))
	}
	if !urlPattern.MatchString(url) {
		return apperror.NewBadRequest("url must start with http:// or https://")
	}
	return nil
}

// asAppError passes AppErrors through and wraps everything else.
func asAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
