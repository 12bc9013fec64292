package services

import (
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup sweeps expired bearer tokens: pending invites that
// were never accepted are removed, stale reset tokens are cleared. The
// verification-code store expires its own entries by TTL.
func DoAutoDatabaseCleanup() {
	now := time.Now()

	// Hard delete: the email carries a unique index, so a soft-deleted row
	// would block the address from ever being invited again.
	deleted := database.C.Unscoped().
		Where("password_hash = '' AND invite_expires_at IS NOT NULL AND invite_expires_at < ?", now).
		Delete(&models.Admin{})
	if deleted.Error != nil {
		log.Warn().Err(deleted.Error).Msg("Unable to sweep expired invites.")
	} else if deleted.RowsAffected > 0 {
		log.Info().Int64("count", deleted.RowsAffected).Msg("Swept expired admin invites.")
	}

	cleared := database.C.Model(&models.Admin{}).
		Where("reset_expires_at IS NOT NULL AND reset_expires_at < ?", now).
		Updates(map[string]any{"reset_token": nil, "reset_expires_at": nil})
	if cleared.Error != nil {
		log.Warn().Err(cleared.Error).Msg("Unable to sweep expired reset tokens.")
	} else if cleared.RowsAffected > 0 {
		log.Info().Int64("count", cleared.RowsAffected).Msg("Swept expired password reset tokens.")
	}
}
