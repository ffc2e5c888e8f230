package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lireddit/internal/middleware"
	"lireddit/internal/models"
	"lireddit/internal/service"
)

type PostHandler struct {
	posts *service.PostService
	votes *service.VoteService
}

func NewPostHandler(posts *service.PostService, votes *service.VoteService) *PostHandler {
	return &PostHandler{posts: posts, votes: votes}
}

// GetPosts returns one page of the feed. Anonymous readers get null vote
// status; logged-in readers get their own vote on each post.
func (h *PostHandler) GetPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	cursor := c.Query("cursor")

	page, err := h.posts.List(
		c.Request.Context(),
		limit,
		cursor,
		middleware.CurrentUserID(c),
		middleware.RequestLoaders(c),
	)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.CurrentUserID(c), input.Title, input.Text)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.CurrentUserID(c), id, input)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post and its votes (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	deleted, err := h.posts.Delete(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// VotePost records the caller's vote on a post (PROTECTED). The value is
// sign-normalized server side; the response carries no point count, the
// client updates its cache locally.
func (h *PostHandler) VotePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.votes.Vote(c.Request.Context(), id, middleware.CurrentUserID(c), input.Value); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
