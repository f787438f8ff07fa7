package dto

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required"`
}

// SignupResponse returns the proposed MFA secret and its enrollment URI.
// Nothing is persisted yet; the client must come back through /auth/signup/verify.
type SignupResponse struct {
	Secret        string `json:"secret"`
	EnrollmentURI string `json:"enrollmentUri"`
	Message       string `json:"message"`
}

// VerifySignupRequest is the JSON body for POST /auth/signup/verify.
type VerifySignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
	MfaCode  string `json:"mfaCode" binding:"required"`
}

// SigninRequest is the JSON body for POST /auth/signin.
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the bearer token issued on successful signin.
type TokenResponse struct {
	Token string `json:"token"`
}

// ResetPasswordRequest is the JSON body for POST /auth/resetpw.
type ResetPasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
	MfaCode     string `json:"mfaCode" binding:"required"`
}

// RefreshMfaRequest is the JSON body for POST /auth/refresh-mfa (auth required).
type RefreshMfaRequest struct {
	CurrentMfaCode string `json:"currentMfaCode" binding:"required"`
}

// RefreshMfaResponse returns the proposed replacement secret. The stored
// secret is untouched until /auth/confirm-mfa-update proves the new one.
type RefreshMfaResponse struct {
	NewSecret     string `json:"newSecret"`
	EnrollmentURI string `json:"enrollmentUri"`
}

// ConfirmMfaRequest is the JSON body for POST /auth/confirm-mfa-update (auth required).
type ConfirmMfaRequest struct {
	NewSecret string `json:"newSecret" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// MessageResponse is a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
