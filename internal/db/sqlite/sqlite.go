// Package sqlite открывает встроенную базу SQLite через gorm
// (драйвер glebarez, без cgo). Режим для локальной разработки.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pragmas — WAL и ожидание блокировки вместо немедленного SQLITE_BUSY.
const pragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open открывает (и при необходимости создаёт) файл базы.
func Open(ctx context.Context, path string) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог базы: %w", err)
	}

	dsn := path
	if path != ":memory:" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + pragmas
	}

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	// SQLite пишет в один поток
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", path).Info("SQLite открыта")
	return db, nil
}

func ensureDir(path string) error {
	candidate := strings.TrimPrefix(strings.TrimSpace(path), "file:")
	if candidate == "" || candidate == ":memory:" {
		return nil
	}
	if i := strings.Index(candidate, "?"); i >= 0 {
		candidate = candidate[:i]
	}
	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
