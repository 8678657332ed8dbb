package database

import (
	"fmt"
	"strings"

	"github.com/botblog/backend/models"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// PostRepo is the post store every handler and the bot scheduler work against.
// Implementations must treat Add, Update and Delete as critical sections.
type PostRepo interface {
	FindAll() ([]models.Post, error)
	FindByID(id int64) (*models.Post, error)
	Add(post *models.Post) error
	Update(id int64, apply func(*models.Post)) (*models.Post, error)
	Delete(id int64) error
	Count() (int, error)
}

type Database struct {
	driver   string
	postRepo PostRepo
	close    func() error
}

// New initializes the post store selected by driver. An empty driver means memory.
func New(driver string) (Database, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return Database{
			driver:   DriverMemory,
			postRepo: NewMemoryPostRepo(),
			close:    func() error { return nil },
		}, nil
	case DriverSQLite:
		db, err := OpenSQLite(NewMemoryDSN())
		if err != nil {
			return Database{}, fmt.Errorf("open sqlite: %w", err)
		}
		repo, err := NewSQLitePostRepo(db)
		if err != nil {
			return Database{}, fmt.Errorf("prepare sqlite post repo: %w", err)
		}
		return Database{
			driver:   DriverSQLite,
			postRepo: repo,
			close:    repo.Close,
		}, nil
	default:
		return Database{}, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// Accessor methods

func (d Database) Driver() string {
	return d.driver
}

func (d Database) PostRepo() PostRepo {
	return d.postRepo
}

func (d Database) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}
