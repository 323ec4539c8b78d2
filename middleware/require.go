package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/muhasabah"
)

// RequireAuth is Guard in ModeStateless.
func RequireAuth(engine *muhasabah.Engine) gin.HandlerFunc {
	return Guard(engine, ModeStateless)
}

// RequireActiveUser is Guard in ModeActiveUser.
func RequireActiveUser(engine *muhasabah.Engine) gin.HandlerFunc {
	return Guard(engine, ModeActiveUser)
}
