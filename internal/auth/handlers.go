package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jobportal/jobportal/internal/activity"
	"github.com/jobportal/jobportal/internal/httperr"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notify"
	"github.com/jobportal/jobportal/internal/storage"
	"github.com/markbates/goth/gothic"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role values accepted at registration.
const (
	RoleEmployer = "employer"
	RoleSeeker   = "seeker"
)

// Handlers bundles the account endpoints and their collaborators.
type Handlers struct {
	db           *gorm.DB
	dispatcher   *notify.Dispatcher
	recorder     *activity.Recorder
	enqueueEmail notify.EmailEnqueuer
	files        *storage.Files
	siteURL      string
}

// NewHandlers creates the account Handlers. enqueueEmail may be nil to
// disable outbound mail.
func NewHandlers(db *gorm.DB, dispatcher *notify.Dispatcher, recorder *activity.Recorder, enqueueEmail notify.EmailEnqueuer, files *storage.Files, siteURL string) *Handlers {
	return &Handlers{
		db:           db,
		dispatcher:   dispatcher,
		recorder:     recorder,
		enqueueEmail: enqueueEmail,
		files:        files,
		siteURL:      siteURL,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=employer seeker"`
}

// Register creates a local account with the chosen role and sends the
// verification email.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Abort(c, fmt.Errorf("hash password: %w", err))
		return
	}

	user := models.User{
		Email:             req.Email,
		Name:              req.Name,
		PasswordHash:      string(hash),
		IsEmployer:        req.Role == RoleEmployer,
		IsSeeker:          req.Role == RoleSeeker,
		VerificationToken: uuid.New().String(),
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "An account with this email already exists.",
			})
			return
		}
		httperr.Abort(c, fmt.Errorf("create user: %w", err))
		return
	}

	h.sendVerificationEmail(&user)
	h.recorder.Record(c.Request.Context(), user.ID, models.ActivityCreate,
		"Registered account", activity.MetaFromRequest(c))

	h.startSession(c, &user)
	c.JSON(http.StatusCreated, userResponse(&user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a local account.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	h.onLogin(c, &user)
	c.JSON(http.StatusOK, userResponse(&user))
}

// Logout clears the session.
func (h *Handlers) Logout(c *gin.Context) {
	if user, ok := CurrentUser(c); ok {
		h.recorder.Record(c.Request.Context(), user.ID, models.ActivityLogout,
			fmt.Sprintf("User logged out at %s", time.Now().UTC().Format(time.RFC3339)),
			activity.MetaFromRequest(c))
	}

	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// VerifyEmail completes email verification from the emailed token link.
func (h *Handlers) VerifyEmail(c *gin.Context) {
	token := c.Param("token")

	var user models.User
	if err := h.db.Where("verification_token = ? AND verification_token <> ''", token).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "invalid_token"})
		return
	}

	updates := map[string]interface{}{
		"email_verified":     true,
		"verification_token": "",
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("verify email: %w", err))
		return
	}

	if h.enqueueEmail != nil {
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Your email has been successfully verified. Welcome to Job Portal!</p>",
			user.Name)
		_ = h.enqueueEmail(user.Email, "Email Verified - Welcome to Job Portal!", body)
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// GoogleLogin initiates the Google OAuth flow.
func (h *Handlers) GoogleLogin(c *gin.Context) {
	// Gothic requires the "provider" query parameter
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// GoogleCallback completes the OAuth flow. First-time social users end up
// roleless and are redirected to the role-selection step; role is fixed once
// chosen.
func (h *Handlers) GoogleCallback(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.Redirect(http.StatusFound, "/login?error=auth_failed")
		return
	}

	var user models.User
	result := h.db.Where("email = ?", gothUser.Email).First(&user)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		user = models.User{
			Email:         gothUser.Email,
			Name:          gothUser.Name,
			EmailVerified: true, // the provider vouches for the address
		}
		if err := h.db.Create(&user).Error; err != nil {
			httperr.Abort(c, fmt.Errorf("create social user: %w", err))
			return
		}
	case result.Error != nil:
		httperr.Abort(c, fmt.Errorf("load user: %w", result.Error))
		return
	}

	var profile datatypes.JSON
	if raw, err := json.Marshal(gothUser.RawData); err == nil {
		profile = raw
	}

	identity := models.AuthIdentity{
		UserID:         user.ID,
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
		AccessToken:    gothUser.AccessToken,
		RefreshToken:   gothUser.RefreshToken,
		ProfileData:    profile,
	}
	if !gothUser.ExpiresAt.IsZero() {
		identity.TokenExpiry = &gothUser.ExpiresAt
	}
	h.db.Where("provider = ? AND provider_user_id = ?", gothUser.Provider, gothUser.UserID).
		Assign(models.AuthIdentity{
			AccessToken:  gothUser.AccessToken,
			RefreshToken: gothUser.RefreshToken,
			TokenExpiry:  identity.TokenExpiry,
			ProfileData:  profile,
		}).
		FirstOrCreate(&identity)

	h.onLogin(c, &user)

	if !user.HasRole() {
		c.Redirect(http.StatusFound, "/choose-role")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

type chooseRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=employer seeker"`
}

// ChooseRole completes the deferred role-selection step for social signups.
// The role is fixed at first choice and never changes afterwards.
func (h *Handlers) ChooseRole(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user.HasRole() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   "role_already_set",
			"message": "Your account role has already been chosen.",
		})
		return
	}

	var req chooseRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	updates := map[string]interface{}{
		"is_employer": req.Role == RoleEmployer,
		"is_seeker":   req.Role == RoleSeeker,
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		httperr.Abort(c, fmt.Errorf("set role: %w", err))
		return
	}

	h.recorder.Record(c.Request.Context(), user.ID, models.ActivityUpdate,
		"Selected role: "+req.Role, activity.MetaFromRequest(c))
	c.JSON(http.StatusOK, userResponse(user))
}

// onLogin updates the login timestamp, starts the session, and fires the
// login-side effects (audit row, welcome-back notification).
func (h *Handlers) onLogin(c *gin.Context, user *models.User) {
	now := time.Now()
	h.db.Model(user).Update("last_login_at", now)

	h.startSession(c, user)

	h.recorder.Record(c.Request.Context(), user.ID, models.ActivityLogin,
		fmt.Sprintf("User logged in at %s", now.UTC().Format(time.RFC3339)),
		activity.MetaFromRequest(c))

	// Best-effort; login proceeds even if the notification write fails.
	_ = h.dispatcher.Notify(c.Request.Context(), user,
		"Welcome Back!",
		fmt.Sprintf("You have successfully logged in at %s", now.UTC().Format("2006-01-02 15:04:05")),
		models.NotificationInfo,
	)
}

func (h *Handlers) startSession(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	_ = session.Save()
}

func (h *Handlers) sendVerificationEmail(user *models.User) {
	if h.enqueueEmail == nil {
		return
	}
	verifyURL := fmt.Sprintf("%s/auth/verify/%s", h.siteURL, user.VerificationToken)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to Job Portal! Please verify your email by clicking the link below.</p><p><a href=%q>Verify your email</a></p>",
		user.Name, verifyURL)
	_ = h.enqueueEmail(user.Email, "Welcome to Job Portal - Verify Your Email", body)
}

// userResponse is the account shape returned to clients.
func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"email":          u.Email,
		"name":           u.Name,
		"is_employer":    u.IsEmployer,
		"is_seeker":      u.IsSeeker,
		"is_staff":       u.IsStaff,
		"email_verified": u.EmailVerified,
	}
}
