package handlers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/services"
)

// AuthAPI is implemented by *services.AuthService.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

type AuthHandler struct {
	auth AuthAPI
	log  *logger.Logger
}

func NewAuthHandler(auth AuthAPI, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var form struct {
		Email    string `form:"email" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RequestReset handles POST /auth/request-reset.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var form struct {
		Email string `form:"email" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), form.Email); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email"})
}

var resetFormTmpl = template.Must(template.New("reset").Parse(`<html>
    <head>
        <title>Reset Password</title>
    </head>
    <body>
        <h2>Reset Password</h2>
        <form action="/auth/reset-password" method="post">
            <input type="hidden" name="token" value="{{.}}" />
            <label>New Password:</label>
            <input type="password" name="new_password" required />
            <button type="submit">Reset</button>
        </form>
    </body>
</html>
`))

// ResetForm handles GET /auth/reset-password, the page the e-mailed link opens.
func (h *AuthHandler) ResetForm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := resetFormTmpl.Execute(c.Writer, token); err != nil {
		_ = c.Error(err)
	}
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form struct {
		Token       string `form:"token" binding:"required"`
		NewPassword string `form:"new_password" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.CompletePasswordReset(c.Request.Context(), form.Token, form.NewPassword); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
