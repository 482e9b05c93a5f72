package store

import (
	"errors"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the database handle. It is created once at process start and
// closed explicitly, both in the serve command and in tests.
type Store struct {
	db *gorm.DB
}

func New(dsn string) (*Store, error) {
	// SQLite keeps foreign keys off by default; turn them on for every
	// connection so the owning-user reference is actually checked.
	if !strings.Contains(dsn, "_pragma") {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&User{}, &Todo{}); err != nil {
		return nil, err
	}

	return &Store{db}, nil
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (s *Store) CreateUser(user *User) error {
	return s.db.Create(user).Error
}

// UserByUsername returns (nil, nil) when no user exists with that name.
func (s *Store) UserByUsername(username string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Store) CreateTodo(todo *Todo) error {
	return s.db.Create(todo).Error
}

// TodosByUserID lists a user's items in insertion order.
func (s *Store) TodosByUserID(userID uint64) ([]Todo, error) {
	todos := []Todo{}
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&todos).Error; err != nil {
		return nil, err
	}

	return todos, nil
}
