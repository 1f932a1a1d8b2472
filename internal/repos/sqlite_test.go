package repos

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/brightloop/brightloop-backend/internal/platform/logger"
)

// openTestDB opens a per-test in-memory sqlite database. Tables are
// created with raw DDL because the models' postgres column defaults
// (uuid_generate_v4) don't exist in sqlite; tests set IDs in Go.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := []string{
		`CREATE TABLE standard (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			jurisdiction TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			grade_level TEXT NOT NULL DEFAULT '',
			statement TEXT NOT NULL DEFAULT '',
			description TEXT,
			external_id TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE (code, jurisdiction)
		)`,
		`CREATE TABLE standard_component (
			id TEXT PRIMARY KEY,
			standard_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE student_skill_record (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'manual',
			earned_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE (user_id, skill_id)
		)`,
		`CREATE TABLE daily_plan (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			plan_date DATETIME NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			activities TEXT,
			objectives TEXT,
			reason TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'low',
			requirement_id TEXT,
			estimated_credit REAL NOT NULL DEFAULT 0,
			target_standards TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE (user_id, plan_date)
		)`,
		`CREATE TABLE credit_total (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			requirement_id TEXT NOT NULL,
			earned_credits REAL NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE (user_id, requirement_id)
		)`,
		`CREATE TABLE standard_progress (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			standard_id TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT 'developing',
			source_type TEXT NOT NULL DEFAULT 'manual',
			source_id TEXT,
			demonstrated_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE (user_id, standard_id)
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	return db
}

func repoTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}
