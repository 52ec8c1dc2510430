package models

import "gorm.io/gorm"

const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

type User struct {
	gorm.Model
	ShopID   uint   `json:"shop_id" gorm:"index;not null"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone" gorm:"uniqueIndex"`
	PinHash  string `json:"-"`
	Role     string `json:"role" gorm:"default:'STAFF'"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
	Shop     Shop   `json:"-" gorm:"foreignKey:ShopID"`
}
