package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lireddit/internal/apperror"
	"lireddit/internal/models"
)

// VoteService applies votes against the vote ledger and post points. The
// ledger row and the points column are only ever written together, inside one
// transaction, so the points value can never drift from the sum of the votes.
type VoteService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewVoteService(db *gorm.DB, log *zap.SugaredLogger) *VoteService {
	return &VoteService{db: db, log: log}
}

// Vote records userID's vote on postID. rawValue is sign-normalized: any
// positive value counts as +1, anything else as -1. Casting the same vote
// twice is a no-op; casting the opposite vote flips the row and swings the
// points by twice the new value.
func (s *VoteService) Vote(ctx context.Context, postID, userID, rawValue int) error {
	if userID == 0 {
		return apperror.NotAuthenticated()
	}

	value := NormalizeVote(rawValue)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("post", postID)
			}
			return err
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case err == nil && existing.Value == value:
			// re-applying the same vote must not double-count
			return nil
		case err == nil:
			// flip: the sum swings by twice the new value
			if err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Update("value", value).Error; err != nil {
				return err
			}
			return addPoints(tx, postID, 2*value)
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return addPoints(tx, postID, value)
		default:
			return err
		}
	})
}

// NormalizeVote collapses an arbitrary vote magnitude to +1 or -1.
func NormalizeVote(raw int) int {
	if raw > 0 {
		return 1
	}
	return -1
}

func addPoints(tx *gorm.DB, postID, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}
