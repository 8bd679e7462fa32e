package models

// All lists every persisted model, in dependency order, for gorm AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Media{},
		&Product{},
		&ProductImage{},
		&Page{},
		&Global{},
		&AdminUser{},
	}
}
