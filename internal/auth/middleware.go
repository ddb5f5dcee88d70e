package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// Session keys
const (
	sessionUserID = "user_id"
)

// Context keys set by LoadUser
const (
	ctxUser   = "user"
	ctxUserID = "user_id"
)

// LoadUser resolves the session to a database user and stashes it in the
// request context. It never aborts; anonymous requests pass through so
// public pages can still tailor output to a logged-in viewer.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(sessionUserID)
		if raw == nil {
			c.Next()
			return
		}

		id, ok := raw.(uint)
		if !ok {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			// Stale session referencing a deleted account.
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(ctxUser, &user)
		c.Set(ctxUserID, user.ID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user for this request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// RequireAuth aborts anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireEmployer aborts requests from anyone without the employer role.
func RequireEmployer() gin.HandlerFunc {
	return requireRole(func(u *models.User) bool { return u.IsEmployer })
}

// RequireSeeker aborts requests from anyone without the seeker role.
func RequireSeeker() gin.HandlerFunc {
	return requireRole(func(u *models.User) bool { return u.IsSeeker })
}

// RequireStaff aborts requests from anyone without the staff role.
func RequireStaff() gin.HandlerFunc {
	return requireRole(func(u *models.User) bool { return u.IsStaff })
}

func requireRole(allowed func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !allowed(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
