package schema

import (
	"gorm.io/gorm"
)

// AllModels returns the schema models for GORM AutoMigrate.
// Admin unit tables share one model and are migrated by Migrate.
func AllModels() []any {
	return []any{
		&Place{},
		&HierarchyEdge{},
		&Country{},
		&ImportRun{},
		&AlternateName{},
	}
}

// AllDDL returns DDL generators for every table, admin tables included.
func AllDDL() []DDLGenerator {
	res := []DDLGenerator{
		Place{},
		HierarchyEdge{},
		Country{},
		ImportRun{},
		AlternateName{},
	}
	for _, l := range AdminLevels() {
		res = append(res, l)
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	for _, l := range AdminLevels() {
		err := db.Table(l.TableName()).AutoMigrate(&AdminUnit{})
		if err != nil {
			return err
		}
	}
	return nil
}
