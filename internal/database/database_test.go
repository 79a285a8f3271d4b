package database_test

import (
	"testing"

	"github.com/mautops/testimonial-gin/internal/config"
	"github.com/mautops/testimonial-gin/internal/database"
	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildDSN 测试 DSN 构建
func TestBuildDSN(t *testing.T) {
	dsn := database.BuildDSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "shop", Password: "secret", DBName: "testimonial", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=shop password=secret dbname=testimonial sslmode=disable", dsn)
}

// TestDialectorUnsupported 测试不支持的驱动
func TestDialectorUnsupported(t *testing.T) {
	_, err := database.Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

// TestConnectAndMigrateSQLite 测试 sqlite 连接与迁移
func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	// 重复迁移是幂等的
	require.NoError(t, database.Migrate(db))

	assert.True(t, db.Migrator().HasTable("testimonials"))
	assert.True(t, db.Migrator().HasTable("audit_logs"))
	assert.True(t, db.Migrator().HasIndex(&model.TestimonialModel{}, "idx_testimonials_status_created_at"))
	assert.True(t, database.CheckHealth(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

// TestCheckHealthNil 测试空连接
func TestCheckHealthNil(t *testing.T) {
	assert.False(t, database.CheckHealth(nil))
}
