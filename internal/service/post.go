// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate input, enforce
// ownership, and orchestrate repositories; repositories talk to the
// database. Services accept primitives plus an explicit caller identity and
// return domain errors — they know nothing about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/policy"
	"github.com/sakif/juicebox/internal/repository"
)

// Validation and pagination constants. The page size is fixed: every listing
// endpoint returns pages of ten.
const (
	MaxTitleLength = 255
	PerPage        = 10
)

// PostPage is the pagination envelope for post listings.
type PostPage struct {
	Data        []model.Post `json:"data"`
	CurrentPage int          `json:"current_page"`
	PerPage     int          `json:"per_page"`
	Total       int          `json:"total"`
}

// PostService handles business logic for blog posts.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService. The caller decides which repository
// implementation to inject — sqlite in production, a mock in tests.
func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

// List returns one fixed-size page of posts in creation order.
// Pages are 1-based; anything below 1 is treated as the first page.
func (s *PostService) List(ctx context.Context, page int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	posts, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  PerPage,
		Offset: (page - 1) * PerPage,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	return &PostPage{
		Data:        posts,
		CurrentPage: page,
		PerPage:     PerPage,
		Total:       total,
	}, nil
}

// Get returns the post or apperror.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Post")
	}

	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new post owned by the caller.
func (s *PostService) Create(ctx context.Context, callerID, title, content string) (*model.Post, error) {
	title = strings.TrimSpace(title)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "The content field is required.")
	}

	post := &model.Post{
		Title:   title,
		Content: content,
		UserID:  callerID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("userID", callerID),
	)

	return post, nil
}

// Update applies a partial update to a post owned by the caller.
//
// ORDER OF CHECKS:
// Not-found is checked before ownership, so probing an id that doesn't
// exist yields 404 (same as for the owner), while an existing post always
// yields 403 for a non-owner regardless of payload validity.
//
// nil title/content mean "leave unchanged"; provided fields are validated
// with the same rules as Create.
func (s *PostService) Update(ctx context.Context, callerID, id string, title, content *string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdate(callerID, post) {
		return nil, apperror.Forbidden("You are not authorized to update this post.")
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		post.Title = trimmed
	}
	if content != nil {
		if *content == "" {
			return nil, apperror.ValidationFailed("content", "The content field is required.")
		}
		post.Content = *content
	}

	if err := s.repo.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.String("id", post.ID))

	return post, nil
}

// Delete permanently removes a post owned by the caller.
func (s *PostService) Delete(ctx context.Context, callerID, id string) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDelete(callerID, post) {
		return apperror.Forbidden("You are not authorized to delete this post.")
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		s.logger.Error("failed to delete post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting post: %w", err)
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "The title field is required.")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("The title may not be greater than %d characters.", MaxTitleLength))
	}
	return nil
}
