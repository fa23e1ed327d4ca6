package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Username *string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func newAuthResponse(r *services.AuthResult) authResponse {
	return authResponse{User: r.User, AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if !s.bindJSON(c, &req, msgMissingFields) {
		return
	}

	res, err := s.users.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			abortWithError(c, http.StatusBadRequest, msgUserExists)
		case errors.Is(err, common.ErrValidation):
			abortWithError(c, http.StatusBadRequest, msgMissingFields)
		default:
			s.internalError(c, err)
		}
		return
	}

	s.logger.Info(c.Request.Context(), "user signed up", "user_id", res.User.ID)
	c.JSON(http.StatusCreated, newAuthResponse(res))
}

// login answers every failure, including a malformed body, with the same
// 401 so callers cannot tell which part of the credentials was wrong.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			abortWithError(c, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(res))
}

func (s *Server) refreshToken(c *gin.Context) {
	var req refreshRequest
	// an unreadable body is treated like a missing token
	_ = c.ShouldBindJSON(&req)

	access, err := s.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			abortWithError(c, http.StatusUnauthorized, msgRefreshTokenRequired)
		case errors.Is(err, common.ErrInvalidToken):
			abortWithError(c, http.StatusUnauthorized, msgInvalidRefreshToken)
		case errors.Is(err, common.ErrRefreshTokenExpired):
			abortWithError(c, http.StatusUnauthorized, msgExpiredRefreshToken)
		default:
			s.logger.Error(c.Request.Context(), "refresh failed", "err", err)
			abortWithError(c, http.StatusUnauthorized, msgInvalidRefreshToken)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := s.users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		s.fail(c, err, msgInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgLoggedOut})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.users.Me(c.Request.Context(), identity(c).UserID)
	if err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	url, key, err := s.avatars.PresignUpload(c.Request.Context(), identity(c).UserID)
	if err != nil {
		s.fail(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": url, "key": key})
}
