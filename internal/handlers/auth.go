package handlers

import (
	"errors"
	"net/http"

	"notevault/internal/auth"
	"notevault/internal/dto"
	"notevault/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, signin, password reset and MFA rotation.
type AuthHandler struct {
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Signup godoc
// @Summary      Start signup: propose an MFA secret
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "Desired credentials"
// @Success      200   {object}  dto.SignupResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	secret, uri, err := h.userSvc.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.SignupResponse{
		Secret:        secret,
		EnrollmentURI: uri,
		Message:       "scan the QR code and verify",
	})
}

// VerifySignup godoc
// @Summary      Finish signup: prove the MFA secret and create the account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifySignupRequest  true  "Credentials, proposed secret and current code"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/signup/verify [post]
func (h *AuthHandler) VerifySignup(c *gin.Context) {
	var req dto.VerifySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := h.userSvc.VerifyAndCreate(c.Request.Context(), req.Username, req.Password, req.Secret, req.MfaCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrMalformedMfaCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidMfaCode):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid MFA code"})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "user registered successfully"})
}

// Signin godoc
// @Summary      Sign in and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.userSvc.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signin failed"})
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// ResetPassword godoc
// @Summary      Reset the password, vouched for by the stored MFA secret
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "Username, new password and current code"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/resetpw [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.userSvc.ResetPassword(c.Request.Context(), req.Username, req.NewPassword, req.MfaCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrMalformedMfaCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidMfaCode):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid MFA code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password reset failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "password reset successful"})
}

// RefreshMfa godoc
// @Summary      Start MFA rotation: propose a replacement secret
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RefreshMfaRequest  true  "Current MFA code"
// @Success      200   {object}  dto.RefreshMfaResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/refresh-mfa [post]
func (h *AuthHandler) RefreshMfa(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.RefreshMfaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	secret, uri, err := h.userSvc.RotateMfaStart(c.Request.Context(), user, req.CurrentMfaCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedMfaCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidMfaCode):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid current MFA code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mfa refresh failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.RefreshMfaResponse{NewSecret: secret, EnrollmentURI: uri})
}

// ConfirmMfaUpdate godoc
// @Summary      Finish MFA rotation: prove the new secret and swap it in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ConfirmMfaRequest  true  "New secret and current code for it"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/confirm-mfa-update [post]
func (h *AuthHandler) ConfirmMfaUpdate(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.ConfirmMfaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.userSvc.RotateMfaConfirm(c.Request.Context(), user, req.NewSecret, req.Code)
	if err != nil {
		switch {
		// 400, not 403: identity is already proven, a failed code here
		// just means a bad enrollment scan.
		case errors.Is(err, service.ErrMalformedMfaCode), errors.Is(err, service.ErrInvalidMfaCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification failed, try scanning again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mfa update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "MFA successfully updated"})
}
