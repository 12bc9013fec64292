package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"gorm.io/gorm"
)

func ListMemberLists() ([]models.MemberList, error) {
	var lists []models.MemberList
	if err := database.C.Preload("Members").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("unable to list member lists: %v", err)
	}
	return lists, nil
}

func GetMemberListWithID(id uint) (models.MemberList, error) {
	var list models.MemberList
	if err := database.C.Preload("Members").Where("id = ?", id).First(&list).Error; err != nil {
		return list, fmt.Errorf("unable to get member list: %v", err)
	}
	return list, nil
}

func NewMemberList(name string) (models.MemberList, error) {
	list := models.MemberList{Name: name}
	if err := database.C.Create(&list).Error; err != nil {
		return list, fmt.Errorf("unable to create member list: %v", err)
	}
	return list, nil
}

func RenameMemberList(list models.MemberList, name string) (models.MemberList, error) {
	list.Name = name
	if err := database.C.Save(&list).Error; err != nil {
		return list, fmt.Errorf("unable to rename member list: %v", err)
	}
	return list, nil
}

// DeleteMemberList removes the list and any member that belonged to no other
// list afterwards.
func DeleteMemberList(list models.MemberList) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		members := list.Members
		if err := tx.Model(&list).Association("Members").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&list).Error; err != nil {
			return err
		}
		for _, member := range members {
			if err := deleteMemberIfOrphaned(tx, member); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddMember attaches a member to the list, reusing an existing row when the
// email is already known so members can belong to several lists.
func AddMember(list models.MemberList, lot, name, email, address string) (models.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var member models.Member
	err := database.C.Where("email = ?", email).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		member = models.Member{Lot: lot, Name: name, Email: email, Address: address}
		if err := database.C.Create(&member).Error; err != nil {
			return member, fmt.Errorf("unable to create member: %v", err)
		}
	} else if err != nil {
		return member, fmt.Errorf("unable to look up member: %v", err)
	}

	if err := database.C.Model(&list).Association("Members").Append(&member); err != nil {
		return member, fmt.Errorf("unable to attach member to list: %v", err)
	}
	return member, nil
}

// RemoveMember detaches a member from the list and deletes the member row
// once no list membership remains.
func RemoveMember(list models.MemberList, member models.Member) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&list).Association("Members").Delete(&member); err != nil {
			return err
		}
		return deleteMemberIfOrphaned(tx, member)
	})
}

func deleteMemberIfOrphaned(tx *gorm.DB, member models.Member) error {
	count := tx.Model(&member).Association("Lists").Count()
	if count > 0 {
		return nil
	}
	return tx.Delete(&member).Error
}

// ImportMembers reads lot,name,email,address rows and attaches each to the
// list. A header row is skipped when the email column does not look like an
// address. Returns the number of members imported.
func ImportMembers(list models.MemberList, source io.Reader) (int, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	imported := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("malformed csv at line %d: %v", line, err)
		}
		if line == 1 && !strings.Contains(record[2], "@") {
			continue
		}

		if _, err := AddMember(list, record[0], record[1], record[2], record[3]); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
