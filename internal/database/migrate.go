package database

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Table definitions used only for schema migration. Queries go through
// database/sql in the repositories package.

type credentialTable struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (credentialTable) TableName() string { return "credentials" }

type employeeTable struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Department  string    `gorm:"type:varchar(128);not null"`
	Role        string    `gorm:"type:varchar(16);not null"`
	JoiningDate time.Time `gorm:"type:date;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (employeeTable) TableName() string { return "employees" }

type leaveRequestTable struct {
	ID            string     `gorm:"type:char(36);primaryKey"`
	UserID        string     `gorm:"type:varchar(32);not null;index:idx_leave_user_status,priority:1"`
	LeaveType     string     `gorm:"type:varchar(20);not null"`
	FromDate      time.Time  `gorm:"type:date;not null"`
	ToDate        time.Time  `gorm:"type:date;not null"`
	Reason        string     `gorm:"type:text"`
	Status        string     `gorm:"type:varchar(10);not null;index:idx_leave_user_status,priority:2;index:idx_leave_status"`
	DaysRequested int        `gorm:"not null"`
	AppliedAt     time.Time  `gorm:"not null;index"`
	ProcessedAt   *time.Time
}

func (leaveRequestTable) TableName() string { return "leave_requests" }

type counterTable struct {
	Name string `gorm:"type:varchar(64);primaryKey"`
	Seq  int64  `gorm:"not null"`
}

func (counterTable) TableName() string { return "counters" }

// Migrate creates or updates the schema on an existing connection pool.
func Migrate(db *sql.DB) error {
	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open gorm on pool: %w", err)
	}
	if err := gdb.AutoMigrate(&credentialTable{}, &employeeTable{}, &leaveRequestTable{}, &counterTable{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
