package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/models"
)

func injectUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUser, user)
		c.Set(ctxUserID, user.ID)
		c.Next()
	}
}

func performRequest(t *testing.T, user *models.User, guard gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		r.Use(injectUser(user))
	}
	r.GET("/protected", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAuth(t *testing.T) {
	if code := performRequest(t, nil, RequireAuth()); code != http.StatusUnauthorized {
		t.Errorf("anonymous request got %d, want 401", code)
	}
	user := &models.User{IsSeeker: true}
	user.ID = 1
	if code := performRequest(t, user, RequireAuth()); code != http.StatusOK {
		t.Errorf("authenticated request got %d, want 200", code)
	}
}

func TestRequireRole(t *testing.T) {
	employer := &models.User{IsEmployer: true}
	employer.ID = 1
	seeker := &models.User{IsSeeker: true}
	seeker.ID = 2
	staff := &models.User{IsStaff: true}
	staff.ID = 3

	tests := []struct {
		name  string
		user  *models.User
		guard gin.HandlerFunc
		want  int
	}{
		{"employer passes employer gate", employer, RequireEmployer(), http.StatusOK},
		{"seeker blocked from employer gate", seeker, RequireEmployer(), http.StatusForbidden},
		{"anonymous blocked from employer gate", nil, RequireEmployer(), http.StatusUnauthorized},
		{"seeker passes seeker gate", seeker, RequireSeeker(), http.StatusOK},
		{"employer blocked from seeker gate", employer, RequireSeeker(), http.StatusForbidden},
		{"staff passes staff gate", staff, RequireStaff(), http.StatusOK},
		{"employer blocked from staff gate", employer, RequireStaff(), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := performRequest(t, tt.user, tt.guard); code != tt.want {
				t.Errorf("got %d, want %d", code, tt.want)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := CurrentUser(c); ok {
		t.Error("expected no user on a fresh context")
	}

	user := &models.User{Name: "Erin"}
	user.ID = 9
	c.Set(ctxUser, user)

	got, ok := CurrentUser(c)
	if !ok || got.ID != 9 {
		t.Errorf("CurrentUser = %+v, %v", got, ok)
	}
}
