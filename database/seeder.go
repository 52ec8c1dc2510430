package database

import (
	"log"

	"shopguard/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedShop(db)
	SeedUsers(db)
	SeedCatalog(db)
}

func SeedShop(db *gorm.DB) {
	shop := models.Shop{
		Name:       "Demo Shop",
		OwnerName:  "Demo Owner",
		OwnerPhone: "+254700000001",
	}

	var existing models.Shop
	if err := db.Where("name = ?", shop.Name).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&shop).Error; err != nil {
				log.Fatalf("Failed to seed shop: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedUsers(db *gorm.DB) {
	var shop models.Shop
	if err := db.First(&shop).Error; err != nil {
		return
	}

	users := []models.User{
		{ShopID: shop.ID, FullName: "Demo Owner", Phone: "+254700000001", Role: models.RoleOwner},
		{ShopID: shop.ID, FullName: "Demo Staff", Phone: "+254700000002", Role: models.RoleStaff},
	}

	for _, u := range users {
		var existing models.User
		if err := db.Where("phone = ?", u.Phone).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				hash, hashErr := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
				if hashErr != nil {
					log.Fatalf("Failed to hash seed PIN: %v", hashErr)
				}
				u.PinHash = string(hash)
				db.Create(&u)
			}
		}
	}
}

func SeedCatalog(db *gorm.DB) {
	var shop models.Shop
	if err := db.First(&shop).Error; err != nil {
		return
	}

	skus := []models.SKU{
		{Brand: "King's Oil", Size: "5L", IsCarton: false, UnitsPerCarton: 12},
		{Brand: "King's Oil", Size: "1L", IsCarton: false, UnitsPerCarton: 12},
		{Brand: "King's Oil", Size: "1L", IsCarton: true, UnitsPerCarton: 12},
	}

	for _, s := range skus {
		var existing models.SKU
		err := db.Where("brand = ? AND size = ? AND is_carton = ?", s.Brand, s.Size, s.IsCarton).
			First(&existing).Error
		if err != gorm.ErrRecordNotFound {
			continue
		}
		if err := db.Create(&s).Error; err != nil {
			log.Printf("Failed to seed SKU %s %s: %v", s.Brand, s.Size, err)
			continue
		}
		inv := models.Inventory{
			ShopID:       shop.ID,
			SkuID:        s.ID,
			Quantity:     100,
			CostPrice:    20,
			SellingPrice: 25,
			ReorderLevel: 10,
		}
		db.Create(&inv)
	}
}
