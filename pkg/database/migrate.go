package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate 执行内嵌 SQL 迁移，幂等
func Migrate(cfg *config.DatabaseConfig, log *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("初始化迁移器失败: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("数据库结构已是最新")
			return nil
		}
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	log.Info("数据库迁移完成")
	return nil
}
