package services

import (
	"testing"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func ptr(v uint) *uint { return &v }

// Directory: 1 is a root, 1 invited 2, 2 invited 3, 3 invited 4.
// 10 is an unrelated root that invited 11.
func testParentIndex() map[uint]*uint {
	return map[uint]*uint{
		1:  nil,
		2:  ptr(1),
		3:  ptr(2),
		4:  ptr(3),
		10: nil,
		11: ptr(10),
	}
}

func TestInviteChainContains(t *testing.T) {
	parents := testParentIndex()

	tests := []struct {
		name       string
		ancestor   uint
		descendant uint
		want       bool
	}{
		{"direct parent", 1, 2, true},
		{"grandparent", 1, 3, true},
		{"deep chain", 1, 4, true},
		{"mid chain", 2, 4, true},
		{"inverted", 4, 1, false},
		{"sibling trees", 1, 11, false},
		{"sibling trees reversed", 10, 2, false},
		{"root has no ancestors", 2, 1, false},
		{"unknown descendant fails closed", 1, 99, false},
		{"unknown ancestor", 99, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inviteChainContains(parents, tt.ancestor, tt.descendant); got != tt.want {
				t.Errorf("inviteChainContains(%d, %d) = %v, want %v", tt.ancestor, tt.descendant, got, tt.want)
			}
		})
	}
}

func TestInviteChainMissingLink(t *testing.T) {
	// Admin 2 was deleted mid-tree: 3 points at a row that no longer exists.
	parents := map[uint]*uint{
		1: nil,
		3: ptr(2),
		4: ptr(3),
	}

	if inviteChainContains(parents, 1, 4) {
		t.Error("walk through a deleted admin should fail closed")
	}
	if !inviteChainContains(parents, 3, 4) {
		t.Error("intact portion of the chain should still resolve")
	}
}

func TestInviteChainCorruptedCycle(t *testing.T) {
	// Never produced by the application, but the walk must not spin forever.
	parents := map[uint]*uint{
		5: ptr(6),
		6: ptr(5),
	}

	if inviteChainContains(parents, 1, 5) {
		t.Error("cycle walk should fail closed")
	}
}

func TestCanManageWithin(t *testing.T) {
	parents := testParentIndex()

	tests := []struct {
		name   string
		admin  uint
		target uint
		want   bool
	}{
		{"ancestor manages descendant", 1, 4, true},
		{"mid-tree manages child", 2, 3, true},
		{"descendant cannot manage ancestor", 3, 1, false},
		{"self is never manageable", 2, 2, false},
		{"root self", 1, 1, false},
		{"unrelated admins", 2, 11, false},
		{"unrelated reversed", 11, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canManageWithin(parents, tt.admin, tt.target); got != tt.want {
				t.Errorf("canManageWithin(%d, %d) = %v, want %v", tt.admin, tt.target, got, tt.want)
			}
		})
	}
}

func TestDeleteAdminFreesEmail(t *testing.T) {
	useTestDatabase(t)

	root := models.Admin{Email: "root@example.com", Name: "Root", PasswordHash: "x", Role: models.AdminRoleFull}
	if err := database.C.Create(&root).Error; err != nil {
		t.Fatalf("unable to seed root admin: %v", err)
	}
	child := models.Admin{
		Email: "child@example.com", Name: "Child", PasswordHash: "x",
		Role: models.AdminRoleViewOnly, InvitedByID: &root.ID,
	}
	if err := database.C.Create(&child).Error; err != nil {
		t.Fatalf("unable to seed child admin: %v", err)
	}

	if err := DeleteAdmin(root, child); err != nil {
		t.Fatalf("DeleteAdmin() error = %v", err)
	}

	// The deleted admin's email must be free for a new invite; a lingering
	// row would trip the unique index.
	again := models.Admin{
		Email: "child@example.com", Name: "Child Again",
		Role: models.AdminRoleViewOnly, InvitedByID: &root.ID,
	}
	if err := database.C.Create(&again).Error; err != nil {
		t.Fatalf("unable to reuse email after admin deletion: %v", err)
	}
}
