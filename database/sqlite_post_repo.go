package database

import (
	"errors"
	"sync"

	"github.com/botblog/backend/errs"
	"github.com/botblog/backend/models"
	"gorm.io/gorm"
)

// SQLitePostRepo stores posts in a gorm-managed sqlite table. The id counter
// stays in the repo so ids are never reused even after deletes.
type SQLitePostRepo struct {
	mu     sync.Mutex
	db     *gorm.DB
	nextID int64
}

func NewSQLitePostRepo(db *gorm.DB) (*SQLitePostRepo, error) {
	if err := db.AutoMigrate(&models.Post{}); err != nil {
		return nil, err
	}

	var maxID int64
	if err := db.Model(&models.Post{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return nil, err
	}

	return &SQLitePostRepo{db: db, nextID: maxID + 1}, nil
}

// GetDB returns the underlying database connection for debugging purposes
func (r *SQLitePostRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all posts ordered by id, which is insertion order
func (r *SQLitePostRepo) FindAll() ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := r.db.Order("id ASC").Find(&posts).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "posts", err)
	}
	for i := range posts {
		normalizeTimes(&posts[i])
	}
	return posts, nil
}

// FindByID returns a post by its ID
func (r *SQLitePostRepo) FindByID(id int64) (*models.Post, error) {
	return findPost(r.db, id)
}

// Add inserts post with the next counter value
func (r *SQLitePostRepo) Add(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID
	if err := r.db.Create(post).Error; err != nil {
		post.ID = 0
		return errs.NewDatabaseError("create", "post", err)
	}
	r.nextID++
	return nil
}

// Update loads, mutates and saves the post inside one transaction
func (r *SQLitePostRepo) Update(id int64, apply func(*models.Post)) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated *models.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		post, err := findPost(tx, id)
		if err != nil {
			return err
		}
		apply(post)
		post.ID = id
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}
	return updated, nil
}

// Delete removes a post by id
func (r *SQLitePostRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", "post", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("Post")
	}
	return nil
}

func (r *SQLitePostRepo) Count() (int, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "posts", err)
	}
	return int(count), nil
}

func (r *SQLitePostRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func findPost(db *gorm.DB, id int64) (*models.Post, error) {
	var post models.Post
	err := db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("Post")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	normalizeTimes(&post)
	return &post, nil
}

// sqlite hands timestamps back with a fixed zone; keep them in UTC like the memory store.
func normalizeTimes(post *models.Post) {
	post.CreatedAt = post.CreatedAt.UTC()
	if post.UpdatedAt != nil {
		updatedAt := post.UpdatedAt.UTC()
		post.UpdatedAt = &updatedAt
	}
}
