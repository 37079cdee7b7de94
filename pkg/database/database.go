package database

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/models"
)

// sqliteSchema declares the tables with their foreign keys, which SQLite
// cannot add to an existing table.
//
//go:embed schema_sqlite.sql
var sqliteSchema string

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite3"
)

// ParseURL splits a DATABASE_URL into a gorm dialect and the DSN its driver expects.
func ParseURL(url string) (dialect, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url
	case strings.HasPrefix(url, "mysql://"):
		dsn = strings.TrimPrefix(url, "mysql://")
		if !strings.Contains(dsn, "parseTime=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return DialectMySQL, dsn
	case strings.HasPrefix(url, "sqlite3://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite3://")
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://")
	default:
		return DialectSQLite, url
	}
}

// withForeignKeys turns on foreign key enforcement for a go-sqlite3 DSN.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

// Open connects to the database named by url. SQLite handles are limited to a
// single connection so that ":memory:" databases are shared by every query.
func Open(url string, log *logrus.Logger) (*gorm.DB, error) {
	dialect, dsn := ParseURL(url)
	if dialect == DialectSQLite {
		dsn = withForeignKeys(dsn)
	}
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.DB().SetMaxOpenConns(1)
	}
	if log != nil {
		db.SetLogger(log.WithField("component", "gorm"))
		db.LogMode(log.IsLevelEnabled(logrus.DebugLevel))
	}
	return db, nil
}

// Migrate creates the users, videos and embed_configs tables with their
// unique indexes and the videos.uploader_id and embed_configs.video_id
// foreign keys. SQLite gets its tables from sqliteSchema before AutoMigrate
// adds indexes and missing columns; other servers get the keys by ALTER TABLE.
func Migrate(db *gorm.DB) error {
	sqlite := db.Dialect().GetName() == DialectSQLite
	if sqlite {
		if err := db.Exec(sqliteSchema).Error; err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	if err := db.AutoMigrate(&models.User{}, &models.Video{}, &models.EmbedConfig{}).Error; err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if sqlite {
		return nil
	}
	if err := db.Model(&models.Video{}).AddForeignKey("uploader_id", "users(id)", "RESTRICT", "RESTRICT").Error; err != nil {
		return fmt.Errorf("videos.uploader_id foreign key: %w", err)
	}
	if err := db.Model(&models.EmbedConfig{}).AddForeignKey("video_id", "videos(id)", "RESTRICT", "RESTRICT").Error; err != nil {
		return fmt.Errorf("embed_configs.video_id foreign key: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err was raised by a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
