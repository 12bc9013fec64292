package services

import (
	"testing"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func TestAutoCleanupSweepsExpiredInvites(t *testing.T) {
	useTestDatabase(t)

	expired := time.Now().Add(-time.Hour)
	token := "expired-invite"
	pending := models.Admin{
		Email: "pending@example.com", Name: "Pending",
		Role:        models.AdminRoleViewOnly,
		InviteToken: &token, InviteExpiresAt: &expired,
	}
	if err := database.C.Create(&pending).Error; err != nil {
		t.Fatalf("unable to seed pending admin: %v", err)
	}

	DoAutoDatabaseCleanup()

	var rows int64
	database.C.Unscoped().Model(&models.Admin{}).
		Where("email = ?", pending.Email).Count(&rows)
	if rows != 0 {
		t.Fatalf("expired invite still present (%d rows)", rows)
	}

	// The swept email must be free for a fresh signup or invite; a lingering
	// row would trip the unique index.
	again := models.Admin{Email: "pending@example.com", Name: "Second Try", Role: models.AdminRoleViewOnly}
	if err := database.C.Create(&again).Error; err != nil {
		t.Fatalf("unable to reuse a swept email: %v", err)
	}
}

func TestAutoCleanupClearsExpiredResetTokens(t *testing.T) {
	useTestDatabase(t)

	expired := time.Now().Add(-time.Minute)
	token := "stale-reset"
	admin := models.Admin{
		Email: "board@example.com", Name: "Board", PasswordHash: "x",
		Role:       models.AdminRoleFull,
		ResetToken: &token, ResetExpiresAt: &expired,
	}
	if err := database.C.Create(&admin).Error; err != nil {
		t.Fatalf("unable to seed admin: %v", err)
	}

	DoAutoDatabaseCleanup()

	var reloaded models.Admin
	if err := database.C.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("admin with a live password was swept: %v", err)
	}
	if reloaded.ResetToken != nil || reloaded.ResetExpiresAt != nil {
		t.Error("expired reset token was not cleared")
	}
}
