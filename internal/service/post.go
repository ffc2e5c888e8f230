package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dataloader "github.com/graph-gophers/dataloader/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lireddit/internal/apperror"
	"lireddit/internal/loader"
	"lireddit/internal/models"
)

// MaxFeedLimit bounds a single feed page regardless of what the caller asks
// for.
const MaxFeedLimit = 50

type PostService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewPostService(db *gorm.DB, log *zap.SugaredLogger) *PostService {
	return &PostService{db: db, log: log}
}

// List returns one feed page, newest first. The cursor is a millisecond
// timestamp; only posts created strictly before it are returned. One extra
// row is fetched to decide hasMore without a count query. viewerID of 0
// means anonymous, in which case vote status stays null.
func (s *PostService) List(ctx context.Context, limit int, cursor string, viewerID int, loaders *loader.Loaders) (*models.PaginatedPosts, error) {
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if limit < 1 {
		limit = 1
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit + 1)
	if cursor != "" {
		ms, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, apperror.Validation("cursor", "cursor must be a millisecond timestamp")
		}
		query = query.Where("created_at < ?", time.UnixMilli(ms).UTC())
	}

	var rows []models.Post
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	hasMore := len(rows) == limit+1
	if hasMore {
		rows = rows[:limit]
	}

	posts, err := s.enrich(ctx, rows, viewerID, loaders)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedPosts{Posts: posts, HasMore: hasMore}, nil
}

// enrich attaches each post's creator and, when a viewer is known, the
// viewer's own vote. All keys are queued on the loaders before any thunk is
// resolved, so each loader issues a single bulk fetch for the whole page.
func (s *PostService) enrich(ctx context.Context, rows []models.Post, viewerID int, loaders *loader.Loaders) ([]models.FeedPost, error) {
	userThunks := make([]dataloader.Thunk[models.User], len(rows))
	var voteThunks []dataloader.Thunk[*models.Vote]
	if viewerID != 0 {
		voteThunks = make([]dataloader.Thunk[*models.Vote], len(rows))
	}

	for i, p := range rows {
		userThunks[i] = loaders.Users.Load(ctx, p.CreatorID)
		if viewerID != 0 {
			voteThunks[i] = loaders.Votes.Load(ctx, loader.VoteKey{UserID: viewerID, PostID: p.ID})
		}
	}

	posts := make([]models.FeedPost, len(rows))
	for i, p := range rows {
		creator, err := userThunks[i]()
		if err != nil {
			return nil, err
		}
		p.Creator = creator

		fp := models.FeedPost{Post: p, TextSnippet: p.TextSnippet()}
		if voteThunks != nil {
			vote, err := voteThunks[i]()
			if err != nil {
				return nil, err
			}
			if vote != nil {
				v := vote.Value
				fp.VoteStatus = &v
			}
		}
		posts[i] = fp
	}

	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Creator").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) Create(ctx context.Context, userID int, title, text string) (*models.Post, error) {
	if userID == 0 {
		return nil, apperror.NotAuthenticated()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("title", "title is required")
	}
	if text == "" {
		return nil, apperror.Validation("text", "text is required")
	}

	post := models.Post{
		Title:     title,
		Text:      text,
		CreatorID: userID,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Creator").First(&post, post.ID).Error; err != nil {
		return nil, err
	}

	s.log.Infow("post created", "id", post.ID, "creator_id", userID)
	return &post, nil
}

// Update changes a post's title and/or text. Only the creator may edit;
// a missing post is a benign not-found, not a hard failure.
func (s *PostService) Update(ctx context.Context, userID, id int, req models.UpdatePostRequest) (*models.Post, error) {
	if userID == 0 {
		return nil, apperror.NotAuthenticated()
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, err
	}

	if post.CreatorID != userID {
		return nil, apperror.NotAuthorized("you can only edit your own posts")
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Text != nil {
		post.Text = *req.Text
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Creator").First(&post, post.ID).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// Delete removes a post and, in the same transaction, every vote row
// attached to it. A missing post returns false rather than an error; a
// caller who is not the creator gets a hard authorization error.
func (s *PostService) Delete(ctx context.Context, userID, id int) (bool, error) {
	if userID == 0 {
		return false, apperror.NotAuthenticated()
	}

	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if post.CreatorID != userID {
			return apperror.NotAuthorized("you can only delete your own posts")
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.log.Infow("post deleted", "id", id, "creator_id", userID)
	}
	return deleted, nil
}
