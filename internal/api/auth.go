package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/middleware"
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := s.engine.Register(c.Request.Context(), muhasabah.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Location: req.Location,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		User:   toUserJSON(res.User),
		Tokens: tokensJSON{Access: res.AccessToken, Refresh: res.RefreshToken},
	})
}

// login answers with the access token in the body and the refresh token in
// an HttpOnly cookie scoped to the refresh endpoint.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := s.engine.Login(c.Request.Context(), req.identifier(), req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.engine.Transport().SetRefreshCookie(c.Writer, res.RefreshToken)
	c.JSON(http.StatusOK, authResponse{
		User:   toUserJSON(res.User),
		Tokens: tokensJSON{Access: res.AccessToken},
	})
}

func (s *Server) refresh(c *gin.Context) {
	// the body is optional; the cookie is the fallback
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
			return
		}
	}

	token, _ := s.engine.Transport().RefreshToken(c.Request, req.Refresh)
	access, err := s.engine.Refresh(c.Request.Context(), token)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// logout only clears the cookie; issued tokens stay valid until expiry.
func (s *Server) logout(c *gin.Context) {
	token, _ := middleware.BearerToken(c.GetHeader("Authorization"))
	if err := s.engine.Logout(c.Request.Context(), token); err != nil {
		s.writeError(c, err)
		return
	}

	s.engine.Transport().ClearRefreshCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}
