package database

import (
	"database/sql"
	"desitasty_backend/internal/pkg/config"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase 初始化数据库连接
func InitDatabase() *gorm.DB {
	cfg := config.GlobalConfig.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	// 配置 GORM
	logLevel := logger.Warn
	if config.GlobalConfig.App.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true, // 预编译 SQL 缓存
		TranslateError:                           true, // 把方言错误翻译成 gorm.ErrDuplicatedKey 等
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 获取底层 SQL DB 对象以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}

	configureConnectionPool(sqlDB)

	return db
}

// configureConnectionPool 配置数据库连接池
// 超出 MaxOpenConns 的请求会排队等待空闲连接，超时由调用方的 context 控制
func configureConnectionPool(sqlDB *sql.DB) {
	// 连接池上限，webhook 并发投递也经由该池串行化获取连接
	sqlDB.SetMaxOpenConns(50)

	// 最大空闲连接数
	sqlDB.SetMaxIdleConns(10)

	// 连接最大生命周期，避免长连接被中间设备掐断
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 连接最大空闲时间
	sqlDB.SetConnMaxIdleTime(time.Minute * 30)

	log.Println("Database connection pool configured successfully")
}
