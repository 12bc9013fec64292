package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/golang-jwt/jwt/v5"
	localCache "github.com/hoacouncil/canvass/pkg/internal/cache"
	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/mailer"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionValidFor      = 24 * time.Hour
	verificationValidFor = 15 * time.Minute
	resetValidFor        = 2 * time.Hour
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password: %v", err)
	}
	return string(hash), nil
}

// Authenticate checks email, password and, when enabled, the TOTP code.
// It intentionally collapses every failure into the same message so the
// login endpoint cannot be used to enumerate accounts.
func Authenticate(email, password, totpCode string) (models.Admin, error) {
	invalid := fmt.Errorf("invalid credentials")

	admin, err := GetAdminWithEmail(email)
	if err != nil {
		return admin, invalid
	}
	if admin.Pending() {
		return admin, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return admin, invalid
	}
	if admin.TotpEnabled && !totp.Validate(totpCode, admin.TotpSecret) {
		return admin, fmt.Errorf("invalid two-factor code")
	}

	return admin, nil
}

// IssueSessionToken signs the admin's identity and role into the capability
// token carried in an HTTP-only cookie or bearer header.
func IssueSessionToken(admin models.Admin) (string, error) {
	claims := jwt.MapClaims{
		"id":    admin.ID,
		"email": admin.Email,
		"role":  admin.Role,
		"exp":   time.Now().Add(sessionValidFor).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(viper.GetString("security.jwt_secret")))
	if err != nil {
		return "", fmt.Errorf("unable to sign session token: %v", err)
	}
	return signed, nil
}

func ParseSessionToken(raw string) (models.Admin, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil || !token.Valid {
		return models.Admin{}, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Admin{}, fmt.Errorf("invalid session token")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return models.Admin{}, fmt.Errorf("invalid session token")
	}

	// Role and email are re-read from the database so role changes and
	// deletions take effect on the next request, not at token expiry.
	return GetAdminWithID(uint(id))
}

func verificationKey(email string) string {
	return fmt.Sprintf("email-verification#%s", strings.ToLower(email))
}

// SignUpAdmin registers a root admin (no inviter). The account stays LIMITED
// until the emailed verification code is redeemed.
func SignUpAdmin(email, name, password string) (models.Admin, error) {
	var count int64
	if err := database.C.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.Admin{}, fmt.Errorf("unable to check for existing admin: %v", err)
	}
	if count > 0 {
		return models.Admin{}, fmt.Errorf("an admin with this email already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}

	admin := models.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.AdminRoleLimited,
	}
	if err := database.C.Create(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to create admin: %v", err)
	}

	if err := IssueVerificationCode(admin); err != nil {
		log.Warn().Err(err).Uint("admin", admin.ID).Msg("Account created but verification email failed.")
	}

	return admin, nil
}

// IssueVerificationCode stores a short-lived code in the expiring KV store
// and emails it. Redemption deletes the entry, so codes are single use.
func IssueVerificationCode(admin models.Admin) error {
	code, err := RandomToken(4)
	if err != nil {
		return err
	}

	marshal := marshaler.New(cache.New[any](localCache.S))
	if err := marshal.Set(
		context.Background(),
		verificationKey(admin.Email),
		code,
		store.WithExpiration(verificationValidFor),
	); err != nil {
		return fmt.Errorf("unable to store verification code: %v", err)
	}

	subject, body := mailer.VerificationBody(admin.Name, code)
	return mailer.Send(admin.Email, subject, body)
}

// VerifyEmail redeems a verification code and promotes the account to FULL.
func VerifyEmail(email, code string) (models.Admin, error) {
	admin, err := GetAdminWithEmail(email)
	if err != nil {
		return admin, fmt.Errorf("invalid verification code")
	}

	marshal := marshaler.New(cache.New[any](localCache.S))
	ctx := context.Background()

	stored, err := marshal.Get(ctx, verificationKey(email), new(string))
	if err != nil {
		return admin, fmt.Errorf("invalid verification code")
	}
	if expected, ok := stored.(*string); !ok || *expected != code {
		return admin, fmt.Errorf("invalid verification code")
	}
	_ = marshal.Delete(ctx, verificationKey(email))

	if admin.Role == models.AdminRoleLimited {
		admin.Role = models.AdminRoleFull
	}
	if err := database.C.Save(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to verify email: %v", err)
	}
	return admin, nil
}

// RequestPasswordReset responds identically whether or not the account
// exists, so the endpoint cannot be used to probe for registrations.
func RequestPasswordReset(email string) {
	admin, err := GetAdminWithEmail(email)
	if err != nil || admin.Pending() {
		return
	}

	token, err := RandomToken(24)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to mint password reset token.")
		return
	}
	expiry := time.Now().Add(resetValidFor)

	admin.ResetToken = &token
	admin.ResetExpiresAt = &expiry
	if err := database.C.Save(&admin).Error; err != nil {
		log.Warn().Err(err).Uint("admin", admin.ID).Msg("Unable to persist password reset token.")
		return
	}

	subject, body := mailer.PasswordResetBody(admin.Name, mailer.ResetLink(token))
	if err := mailer.Send(admin.Email, subject, body); err != nil {
		log.Warn().Err(err).Uint("admin", admin.ID).Msg("Password reset email failed.")
	}
}

func ResetPassword(token, password string) (models.Admin, error) {
	var admin models.Admin
	if err := database.C.Where("reset_token = ?", token).First(&admin).Error; err != nil {
		return admin, fmt.Errorf("invalid reset token")
	}
	if admin.ResetExpiresAt == nil || time.Now().After(*admin.ResetExpiresAt) {
		return admin, fmt.Errorf("reset token has expired")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return admin, err
	}

	admin.PasswordHash = hash
	admin.ResetToken = nil
	admin.ResetExpiresAt = nil
	if err := database.C.Save(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to reset password: %v", err)
	}
	return admin, nil
}

// BeginTwoFactor mints a TOTP secret for the admin but does not enable it
// until ConfirmTwoFactor sees a valid code. This is the self-service path;
// it never goes through the invite-tree management check.
func BeginTwoFactor(admin models.Admin) (models.Admin, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Canvass",
		AccountName: admin.Email,
	})
	if err != nil {
		return admin, "", fmt.Errorf("unable to generate totp secret: %v", err)
	}

	admin.TotpSecret = key.Secret()
	admin.TotpEnabled = false
	if err := database.C.Save(&admin).Error; err != nil {
		return admin, "", fmt.Errorf("unable to store totp secret: %v", err)
	}
	return admin, key.URL(), nil
}

func ConfirmTwoFactor(admin models.Admin, code string) (models.Admin, error) {
	if admin.TotpSecret == "" {
		return admin, fmt.Errorf("two-factor setup has not been started")
	}
	if !totp.Validate(code, admin.TotpSecret) {
		return admin, fmt.Errorf("invalid two-factor code")
	}

	admin.TotpEnabled = true
	if err := database.C.Save(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to enable two-factor: %v", err)
	}
	return admin, nil
}

func DisableTwoFactor(admin models.Admin) (models.Admin, error) {
	admin.TotpEnabled = false
	admin.TotpSecret = ""
	if err := database.C.Save(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to disable two-factor: %v", err)
	}
	return admin, nil
}
