package database

import (
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Admin{},
	&models.MemberList{},
	&models.Member{},
	&models.Survey{},
	&models.Question{},
	&models.Response{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Answer{},
			&models.Reminder{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
