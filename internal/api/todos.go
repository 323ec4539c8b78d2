package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/muhasabah/middleware"
	"github.com/MrEthical07/muhasabah/todo"
)

func (s *Server) listDefaults(c *gin.Context) {
	defaults, err := s.todos.Defaults(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]defaultTodoJSON, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, toDefaultTodoJSON(d))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listPersonal(c *gin.Context) {
	owner := ownerID(c)
	todos, err := s.todos.List(c.Request.Context(), owner)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]personalTodoJSON, 0, len(todos))
	for _, t := range todos {
		out = append(out, toPersonalTodoJSON(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createPersonal(c *gin.Context) {
	var req personalTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := s.todos.Create(c.Request.Context(), ownerID(c), req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPersonalTodoJSON(created))
}

func (s *Server) getPersonal(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		s.writeError(c, todo.ErrNotFound)
		return
	}

	t, err := s.todos.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPersonalTodoJSON(t))
}

// updatePersonal serves PUT (category and title required) and PATCH (partial).
func (s *Server) updatePersonal(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		s.writeError(c, todo.ErrNotFound)
		return
	}

	var req personalTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	t, err := s.todos.Update(c.Request.Context(), ownerID(c), id, req.input(), partial)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPersonalTodoJSON(t))
}

func (s *Server) deletePersonal(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		s.writeError(c, todo.ErrNotFound)
		return
	}

	if err := s.todos.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownerID is only called behind the auth guard.
func ownerID(c *gin.Context) uint {
	res, ok := middleware.AuthResult(c)
	if !ok {
		return 0
	}
	return res.UserID
}

func todoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
