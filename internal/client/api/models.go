package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the identity record returned by the SIGT API.
type User struct {
	ID           string  `json:"id"`
	DisplayID    int     `json:"displayId"`
	FormattedID  string  `json:"formattedId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	CPF          string  `json:"cpf"`
	PhoneNumber  string  `json:"phoneNumber"`
	Status       string  `json:"status"`
	ApprovedDate *string `json:"approvedDate"`
	AvatarURL    *string `json:"avatarUrl"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Driver is the secondary profile attached to users registered as drivers.
type Driver struct {
	ID                      string `json:"id"`
	DisplayID               int    `json:"displayId"`
	FormattedID             string `json:"formattedId"`
	DriverLicenseNumber     string `json:"driverLicenseNumber"`
	DriverLicenseExpiration string `json:"driverLicenseExpiration"`
	Status                  string `json:"status"`
	UserID                  string `json:"userId"`
	CompanyID               string `json:"companyId,omitempty"`
	CreatedAt               string `json:"createdAt"`
	UpdatedAt               string `json:"updatedAt"`
}

// TokenSet carries the token pair issued on login.
//
// ExpiresIn keeps its wire name but is an absolute expiry instant in Unix
// milliseconds, not a duration: the server compares it against "now".
type TokenSet struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// ExpiresAt resolves the token expiry instant. When ExpiresIn is unset it
// falls back to the exp claim of the access token, if it is a JWT. A zero
// time means the expiry is unknown.
func (t TokenSet) ExpiresAt() time.Time {
	if t.ExpiresIn > 0 {
		return time.UnixMilli(t.ExpiresIn)
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.AccessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login. Driver is nil for
// standard accounts.
type LoginResponse struct {
	BackendTokens TokenSet `json:"backendTokens"`
	User          User     `json:"user"`
	Driver        *Driver  `json:"driver,omitempty"`
}

// DocumentType is a server-defined category an uploaded file must be tagged
// with before registration is submitted.
type DocumentType struct {
	ID           string `json:"id"`
	DisplayID    int    `json:"displayId"`
	DocumentType string `json:"documentType"`
	Status       string `json:"status"`
}

// CourseType is a driver credential selectable during registration.
type CourseType struct {
	ID         string `json:"id"`
	DisplayID  int    `json:"displayId"`
	CourseName string `json:"courseName"`
	Status     string `json:"status"`
}
