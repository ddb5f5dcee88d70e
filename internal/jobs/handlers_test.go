package jobs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobportal/jobportal/internal/models"
)

func postJob(t *testing.T, user *models.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Set("user_id", user.ID)
	})

	h := NewHandlers(NewService(nil), nil)
	r.POST("/jobs", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRejectsNonEmployer(t *testing.T) {
	seeker := &models.User{IsSeeker: true}
	seeker.ID = 2

	w := postJob(t, seeker, `{"title":"Backend Engineer","company":"Acme","description":"d","requirements":"r","location":"Berlin","job_type":"full_time","salary":"negotiable"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCreateRejectsInvalidJobType(t *testing.T) {
	employer := &models.User{IsEmployer: true}
	employer.ID = 1

	w := postJob(t, employer, `{"title":"Backend Engineer","company":"Acme","description":"d","requirements":"r","location":"Berlin","job_type":"weekend","salary":"negotiable"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "job_type") {
		t.Errorf("response should name the failing field: %s", w.Body.String())
	}
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	employer := &models.User{IsEmployer: true}
	employer.ID = 1

	w := postJob(t, employer, `{"company":"Acme","description":"d","requirements":"r","location":"Berlin","job_type":"full_time","salary":"negotiable"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	employer := &models.User{IsEmployer: true}
	employer.ID = 1

	w := postJob(t, employer, `{"title":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
