package database

import (
	"fmt"
	"log"
	"sync"

	"shopguard/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

var (
	db      *gorm.DB
	dbMutex sync.Mutex
)

// Connect opens the configured database and stores the shared handle.
func Connect() (*gorm.DB, error) {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if db != nil {
		return db, nil
	}

	_, dialector := getDSNAndDialector(config.DBName)
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db = conn
	return db, nil
}

// GetDB returns the shared connection. Connect must have been called.
func GetDB() *gorm.DB {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db
}

func getDSNAndDialector(dbName string) (string, gorm.Dialector) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn)
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn)
	default:
		log.Fatalf("Unsupported DB_DRIVER: %s", config.DBDriver)
		return "", nil
	}
}

// EnsureDatabaseExists connects to the server without a database name
// and creates the target database when missing.
func EnsureDatabaseExists(dbName string) {
	var dsn string
	var conn *gorm.DB
	var err error

	switch config.DBDriver {
	case "postgres":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort)
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		conn, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "mssql":
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		conn, err = gorm.Open(sqlserver.Open(dsn), &gorm.Config{})
	default:
		log.Fatalf("Unsupported DB_DRIVER: %s", config.DBDriver)
	}

	if err != nil {
		log.Fatalf("Failed to connect to DB server: %v", err)
	}

	exists, err := checkDatabaseExists(conn, dbName)
	if err != nil {
		log.Fatalf("Error checking database existence: %v", err)
	}
	if exists {
		return
	}

	if err := conn.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		log.Fatalf("Failed to create database %s: %v", dbName, err)
	}
	fmt.Println("Database created:", dbName)
}

func checkDatabaseExists(conn *gorm.DB, dbName string) (bool, error) {
	var count int64
	var query string

	switch config.DBDriver {
	case "postgres":
		query = "SELECT COUNT(*) FROM pg_database WHERE datname = ?"
	case "mysql":
		query = "SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = ?"
	case "mssql":
		query = "SELECT COUNT(*) FROM sys.databases WHERE name = ?"
	}

	if err := conn.Raw(query, dbName).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
