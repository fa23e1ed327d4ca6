package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/gin-gonic/gin"
)

type createCommunityRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type createPostRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	CommunityID string `json:"communityId" binding:"required"`
}

type createCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	PostID   string  `json:"postId" binding:"required"`
	ParentID *string `json:"parentId"`
}

func (s *Server) listCommunities(c *gin.Context) {
	list, err := s.communities.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, msgCommunityNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createCommunity(c *gin.Context) {
	var req createCommunityRequest
	if !s.bindJSON(c, &req, msgNameRequired) {
		return
	}

	created, err := s.communities.Create(c.Request.Context(), req.Name, req.Description, identity(c).UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, created)
	case errors.Is(err, common.ErrValidation):
		abortWithError(c, http.StatusBadRequest, msgNameRequired)
	case errors.Is(err, common.ErrAlreadyExists):
		abortWithError(c, http.StatusBadRequest, msgCommunityExists)
	default:
		s.fail(c, err, msgCommunityNotFound)
	}
}

func (s *Server) getCommunity(c *gin.Context) {
	community, err := s.communities.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err, msgCommunityNotFound)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (s *Server) listPosts(c *gin.Context) {
	var viewerID string
	if id, ok := auth.IdentityFrom(c.Request.Context()); ok {
		viewerID = id.UserID
	}

	list, err := s.posts.List(c.Request.Context(), c.Query("communityId"), viewerID)
	if err != nil {
		s.fail(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if !s.bindJSON(c, &req, msgMissingFields) {
		return
	}

	p, err := s.posts.Create(c.Request.Context(), req.Title, req.Content, req.CommunityID, identity(c).UserID)
	if err != nil {
		s.fail(c, err, msgCommunityNotFound)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getPost(c *gin.Context) {
	p, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) toggleUpvote(c *gin.Context) {
	upvoted, err := s.posts.ToggleUpvote(c.Request.Context(), identity(c).UserID, c.Param("id"))
	if err != nil {
		s.fail(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvoted": upvoted})
}

func (s *Server) listComments(c *gin.Context) {
	list, err := s.comments.List(c.Request.Context(), c.Param("postId"))
	if err != nil {
		s.fail(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createComment(c *gin.Context) {
	var req createCommentRequest
	if !s.bindJSON(c, &req, msgCommentFields) {
		return
	}

	comment, err := s.comments.Create(c.Request.Context(), services.CreateCommentInput{
		Content:  req.Content,
		PostID:   req.PostID,
		ParentID: req.ParentID,
		AuthorID: identity(c).UserID,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, comment)
	case errors.Is(err, common.ErrValidation):
		abortWithError(c, http.StatusBadRequest, msgCommentFields)
	case errors.Is(err, services.ErrInvalidParent):
		abortWithError(c, http.StatusBadRequest, msgInvalidParent)
	default:
		s.fail(c, err, msgPostNotFound)
	}
}
