// Package loader provides the per-request batch loaders that coalesce many
// individual lookups (creator by user id, viewer vote by (user, post) pair)
// into one bulk fetch each. A fresh Loaders is built for every inbound
// request; instances are never shared across requests, so a request can never
// observe another request's cached rows.
package loader

import (
	"context"

	dataloader "github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"lireddit/internal/apperror"
	"lireddit/internal/models"
)

// VoteKey identifies a single user's vote on a single post.
type VoteKey struct {
	UserID int
	PostID int
}

type Loaders struct {
	Users *dataloader.Loader[int, models.User]
	Votes *dataloader.Loader[VoteKey, *models.Vote]
}

// UserFetchFunc bulk-fetches users for a set of distinct ids.
type UserFetchFunc func(ctx context.Context, ids []int) ([]models.User, error)

// VoteFetchFunc bulk-fetches vote rows for a set of distinct (user, post) keys.
type VoteFetchFunc func(ctx context.Context, keys []VoteKey) ([]models.Vote, error)

// New builds request-scoped loaders backed by the database.
func New(db *gorm.DB) *Loaders {
	return &Loaders{
		Users: NewUserLoader(func(ctx context.Context, ids []int) ([]models.User, error) {
			var users []models.User
			err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
			return users, err
		}),
		Votes: NewVoteLoader(func(ctx context.Context, keys []VoteKey) ([]models.Vote, error) {
			pairs := make([][]interface{}, len(keys))
			for i, k := range keys {
				pairs[i] = []interface{}{k.UserID, k.PostID}
			}
			var votes []models.Vote
			err := db.WithContext(ctx).Where("(user_id, post_id) IN ?", pairs).Find(&votes).Error
			return votes, err
		}),
	}
}

// NewUserLoader returns a loader that resolves user ids to users. Results come
// back in key order; unknown ids resolve to a not-found error for that key
// only.
func NewUserLoader(fetch UserFetchFunc) *dataloader.Loader[int, models.User] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, ids []int) []*dataloader.Result[models.User] {
		results := make([]*dataloader.Result[models.User], len(ids))

		users, err := fetch(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[models.User]{Error: err}
			}
			return results
		}

		byID := make(map[int]models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}

		// reorder to match the incoming id order
		for i, id := range ids {
			if u, ok := byID[id]; ok {
				results[i] = &dataloader.Result[models.User]{Data: u}
			} else {
				results[i] = &dataloader.Result[models.User]{Error: apperror.NotFound("user", id)}
			}
		}
		return results
	})
}

// NewVoteLoader returns a loader that resolves (user, post) keys to vote rows.
// A pair with no vote resolves to nil, not an error.
func NewVoteLoader(fetch VoteFetchFunc) *dataloader.Loader[VoteKey, *models.Vote] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, keys []VoteKey) []*dataloader.Result[*models.Vote] {
		results := make([]*dataloader.Result[*models.Vote], len(keys))

		votes, err := fetch(ctx, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*models.Vote]{Error: err}
			}
			return results
		}

		byKey := make(map[VoteKey]models.Vote, len(votes))
		for _, v := range votes {
			byKey[VoteKey{UserID: v.UserID, PostID: v.PostID}] = v
		}

		for i, k := range keys {
			if v, ok := byKey[k]; ok {
				vote := v
				results[i] = &dataloader.Result[*models.Vote]{Data: &vote}
			} else {
				results[i] = &dataloader.Result[*models.Vote]{Data: nil}
			}
		}
		return results
	})
}
