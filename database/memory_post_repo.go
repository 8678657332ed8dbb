package database

import (
	"sync"

	"github.com/botblog/backend/errs"
	"github.com/botblog/backend/models"
)

// MemoryPostRepo keeps posts in insertion order in a slice. Lookups are
// linear scans; ids come from a counter that never goes backwards.
type MemoryPostRepo struct {
	mu     sync.RWMutex
	posts  []models.Post
	nextID int64
}

func NewMemoryPostRepo() *MemoryPostRepo {
	return &MemoryPostRepo{nextID: 1}
}

// FindAll returns a copy of every stored post in insertion order
func (r *MemoryPostRepo) FindAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, len(r.posts))
	copy(posts, r.posts)
	return posts, nil
}

// FindByID returns a copy of the first post carrying id
func (r *MemoryPostRepo) FindByID(id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, errs.NewNotFound("Post")
	}
	post := r.posts[i]
	return &post, nil
}

// Add assigns the next id to post and appends it
func (r *MemoryPostRepo) Add(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID
	r.nextID++
	r.posts = append(r.posts, *post)
	return nil
}

// Update runs apply against the stored post while holding the write lock
func (r *MemoryPostRepo) Update(id int64, apply func(*models.Post)) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, errs.NewNotFound("Post")
	}
	apply(&r.posts[i])
	// the id is owned by the store
	r.posts[i].ID = id

	post := r.posts[i]
	return &post, nil
}

// Delete removes the post, keeping the relative order of the others
func (r *MemoryPostRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return errs.NewNotFound("Post")
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

func (r *MemoryPostRepo) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts), nil
}

// caller holds r.mu
func (r *MemoryPostRepo) indexOf(id int64) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}
