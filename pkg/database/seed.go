package database

import (
	"log"

	"github.com/Jigden18/portal-backend/internal/domain/job"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts the reference data the application expects: supported
// currencies and the job category list. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	currencies := []job.Currency{
		{Code: "BTN", Symbol: "Nu."},
		{Code: "USD", Symbol: "$"},
		{Code: "EUR", Symbol: "€"},
		{Code: "GBP", Symbol: "£"},
		{Code: "JPY", Symbol: "¥"},
		{Code: "AUD", Symbol: "A$"},
		{Code: "CAD", Symbol: "C$"},
		{Code: "INR", Symbol: "₹"},
		{Code: "CNY", Symbol: "¥"},
		{Code: "CHF", Symbol: "CHF"},
		{Code: "NZD", Symbol: "NZ$"},
		{Code: "ZAR", Symbol: "R"},
		{Code: "SGD", Symbol: "S$"},
		{Code: "HKD", Symbol: "HK$"},
		{Code: "SEK", Symbol: "kr"},
		{Code: "NOK", Symbol: "kr"},
		{Code: "MXN", Symbol: "$"},
		{Code: "BRL", Symbol: "R$"},
		{Code: "RUB", Symbol: "₽"},
		{Code: "KRW", Symbol: "₩"},
		{Code: "TRY", Symbol: "₺"},
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"symbol"}),
	}).Create(&currencies).Error; err != nil {
		return err
	}

	categories := []job.Category{
		{Name: "Content Writer", Icon: "/icons/edit.svg"},
		{Name: "Art & Design", Icon: "/icons/palette.svg"},
		{Name: "Human Resources", Icon: "/icons/users.svg"},
		{Name: "Programmer", Icon: "/icons/code.svg"},
		{Name: "Finance", Icon: "/icons/wallet-minimal.svg"},
		{Name: "Customer Service", Icon: "/icons/headphones.svg"},
		{Name: "Food & Restaurant", Icon: "/icons/utensils-crossed.svg"},
		{Name: "Music Producer", Icon: "/icons/music.svg"},
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"icon"}),
	}).Create(&categories).Error; err != nil {
		return err
	}

	log.Println("Reference data seeded")
	return nil
}
