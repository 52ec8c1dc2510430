package models

import "gorm.io/gorm"

type Shop struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	OwnerName  string `json:"owner_name"`
	OwnerPhone string `json:"owner_phone"`
	Address    string `json:"address"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
}
