package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant. Every table carries company_id.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
