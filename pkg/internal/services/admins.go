package services

import (
	"fmt"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/mailer"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Cap on upward walks through the invite chain. The chain is acyclic by
// construction, so the cap only matters when rows were corrupted by hand.
const inviteChainDepthCap = 64

const inviteValidFor = 7 * 24 * time.Hour

// inviteChainContains walks upward from descendantID via the parent index and
// reports whether ancestorID appears on the chain. Missing rows fail closed.
func inviteChainContains(parents map[uint]*uint, ancestorID, descendantID uint) bool {
	cursor := descendantID
	for i := 0; i < inviteChainDepthCap; i++ {
		parent, ok := parents[cursor]
		if !ok || parent == nil {
			return false
		}
		if *parent == ancestorID {
			return true
		}
		cursor = *parent
	}
	return false
}

// canManageWithin decides management purely on the invite tree. Self is never
// manageable here; the self-service 2FA path does not go through this check.
func canManageWithin(parents map[uint]*uint, adminID, targetID uint) bool {
	if adminID == targetID {
		return false
	}
	return inviteChainContains(parents, adminID, targetID)
}

func adminParentIndex() (map[uint]*uint, error) {
	var admins []models.Admin
	if err := database.C.Select("id", "invited_by_id").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("unable to load admin directory: %v", err)
	}

	parents := make(map[uint]*uint, len(admins))
	for _, admin := range admins {
		parents[admin.ID] = admin.InvitedByID
	}
	return parents, nil
}

func IsInInviteTree(ancestorID, descendantID uint) bool {
	parents, err := adminParentIndex()
	if err != nil {
		log.Warn().Err(err).Msg("Invite tree walk failed closed.")
		return false
	}
	return inviteChainContains(parents, ancestorID, descendantID)
}

// CanManage reports whether the acting admin may administratively modify or
// delete the target. It does not check the acting admin's role; callers gate
// destructive operations on the FULL role separately.
func CanManage(adminID, targetID uint) bool {
	if adminID == targetID {
		return false
	}
	return IsInInviteTree(adminID, targetID)
}

// GetManagedAdmins returns every strict descendant of the given admin in the
// invite tree. The full-directory scan is O(N x depth), which is fine at
// admin-directory scale.
func GetManagedAdmins(adminID uint) ([]models.Admin, error) {
	var admins []models.Admin
	if err := database.C.Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("unable to load admin directory: %v", err)
	}

	parents := make(map[uint]*uint, len(admins))
	for _, admin := range admins {
		parents[admin.ID] = admin.InvitedByID
	}

	managed := lo.Filter(admins, func(item models.Admin, index int) bool {
		return inviteChainContains(parents, adminID, item.ID)
	})
	return managed, nil
}

func GetAdminWithID(id uint) (models.Admin, error) {
	var admin models.Admin
	if err := database.C.Where("id = ?", id).First(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to get admin by id: %v", err)
	}
	return admin, nil
}

func GetAdminWithEmail(email string) (models.Admin, error) {
	var admin models.Admin
	if err := database.C.Where("email = ?", email).First(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to get admin by email: %v", err)
	}
	return admin, nil
}

// NewInvite creates a pending admin under the issuer and emails the
// acceptance link. The issuer must already be verified as FULL by the caller.
func NewInvite(issuer models.Admin, email, name, role string) (models.Admin, error) {
	var count int64
	if err := database.C.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.Admin{}, fmt.Errorf("unable to check for existing admin: %v", err)
	}
	if count > 0 {
		return models.Admin{}, fmt.Errorf("an admin with this email already exists")
	}

	token, err := RandomToken(24)
	if err != nil {
		return models.Admin{}, err
	}
	expiry := time.Now().Add(inviteValidFor)

	admin := models.Admin{
		Email:           email,
		Name:            name,
		Role:            role,
		InvitedByID:     &issuer.ID,
		InviteToken:     &token,
		InviteExpiresAt: &expiry,
	}
	if err := database.C.Create(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to create invite: %v", err)
	}

	subject, body := mailer.AdminInviteBody(admin.Name, issuer.Name, mailer.InviteLink(token))
	if err := mailer.Send(admin.Email, subject, body); err != nil {
		log.Warn().Err(err).Uint("admin", admin.ID).Msg("Invite created but invite email failed.")
	}

	return admin, nil
}

func GetInviteWithToken(token string) (models.Admin, error) {
	var admin models.Admin
	if err := database.C.Where("invite_token = ?", token).First(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to find invite: %v", err)
	}
	if admin.InviteExpiresAt == nil || time.Now().After(*admin.InviteExpiresAt) {
		return admin, fmt.Errorf("invite has expired")
	}
	return admin, nil
}

// AcceptInvite finishes the invited admin's signup by setting the name and
// password and consuming the invite token.
func AcceptInvite(token, name, password string) (models.Admin, error) {
	admin, err := GetInviteWithToken(token)
	if err != nil {
		return admin, err
	}
	if !admin.Pending() {
		return admin, fmt.Errorf("invite has already been accepted")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return admin, err
	}

	if name != "" {
		admin.Name = name
	}
	admin.PasswordHash = hash
	admin.InviteToken = nil
	admin.InviteExpiresAt = nil

	if err := database.C.Save(&admin).Error; err != nil {
		return admin, fmt.Errorf("unable to accept invite: %v", err)
	}
	return admin, nil
}

// ChangeAdminRole re-tiers a managed admin. Self role changes are rejected
// regardless of what the tree walk would say.
func ChangeAdminRole(actor, target models.Admin, role string) (models.Admin, error) {
	if actor.ID == target.ID {
		return target, fmt.Errorf("you cannot change your own role")
	}
	if !CanManage(actor.ID, target.ID) {
		return target, fmt.Errorf("admin is not in your invite tree")
	}

	target.Role = role
	if err := database.C.Save(&target).Error; err != nil {
		return target, fmt.Errorf("unable to change admin role: %v", err)
	}
	return target, nil
}

// DeleteAdmin removes a managed admin. Descendants of the deleted admin keep
// their rows; any later tree walk through the gap fails closed. The delete is
// hard so the unique email can be invited or registered again.
func DeleteAdmin(actor, target models.Admin) error {
	if actor.ID == target.ID {
		return fmt.Errorf("you cannot delete yourself")
	}
	if !CanManage(actor.ID, target.ID) {
		return fmt.Errorf("admin is not in your invite tree")
	}

	return database.C.Unscoped().Delete(&target).Error
}
