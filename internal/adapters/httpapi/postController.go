package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"travelhub/internal/adapters/httpapi/respond"
	"travelhub/internal/core/integrity"
	postapp "travelhub/internal/core/post/service"
	postPort "travelhub/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		PlanID       *uint   `json:"plan_id"`
		Title        string  `json:"title" binding:"required"`
		Content      string  `json:"content" binding:"required"`
		ThumbnailURL *string `json:"thumbnail_url"`
		Destination  *string `json:"destination"`
		IsPublic     *bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), postapp.CreatePostInput{
		UserID:       userID,
		PlanID:       req.PlanID,
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		Destination:  req.Destination,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ViewPost counts a view; private posts are only shown to their author.
func (ctl *PostController) ViewPost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res, err := ctl.pc.ViewPost(c.Request.Context(), id)
	if err == nil && !res.IsPublic && res.UserID != userID {
		err = fmt.Errorf("post %d: %w", id, integrity.ErrNotFound)
	}
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	res, err := ctl.pc.ListPosts(c.Request.Context(), postPort.ListQuery{
		Destination: c.Query("destination"),
		Sort:        postPort.SortOrder(c.DefaultQuery("sort", string(postPort.SortLatest))),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

func (ctl *PostController) LikePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.pc.LikePost(c.Request.Context(), id, userID); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) UnlikePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.pc.UnlikePost(c.Request.Context(), id, userID); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListThread returns top-level comments, or the replies of ?parent=<id>.
func (ctl *PostController) ListThread(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	parentID, ok := optionalUint(c, "parent")
	if !ok {
		return
	}
	res, err := ctl.pc.ListThread(c.Request.Context(), id, parentID)
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

func (ctl *PostController) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ParentID *uint  `json:"parent_comment_id"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.AddComment(c.Request.Context(), id, userID, req.ParentID, req.Content)
	if err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.pc.DeleteComment(c.Request.Context(), id, userID); err != nil {
		respond.Error(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
