package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Beikwaw/RezTek/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.Admin{},
		&model.MaintenanceRequest{},
		&model.Feedback{},
		&model.StockItem{},
		&model.StockTransaction{},
	))

	return db
}

func seedTenant(t *testing.T, db *gorm.DB, email string) *model.Tenant {
	t.Helper()
	tenant := model.Tenant{
		Name:          "Thabo",
		Surname:       "Nkosi",
		Email:         email,
		Password:      "hashed",
		ContactNumber: "0712345678",
		RoomNumber:    "A101",
		Residence:     model.ResidenceSaltRiver,
		TenantCode:    "THA1234" + email,
	}
	require.NoError(t, db.Create(&tenant).Error)
	return &tenant
}
