package database

import (
	"sync"
	"testing"
	"time"

	"github.com/botblog/backend/errs"
	"github.com/botblog/backend/models"
)

type repoFactory func(t *testing.T) PostRepo

func postRepoFactories() map[string]repoFactory {
	return map[string]repoFactory{
		"memory": func(t *testing.T) PostRepo {
			t.Helper()
			return NewMemoryPostRepo()
		},
		"sqlite": func(t *testing.T) PostRepo {
			t.Helper()
			db, err := OpenSQLite(NewMemoryDSN())
			if err != nil {
				t.Fatalf("open sqlite failed: %v", err)
			}
			repo, err := NewSQLitePostRepo(db)
			if err != nil {
				t.Fatalf("prepare sqlite repo failed: %v", err)
			}
			t.Cleanup(func() {
				_ = repo.Close()
			})
			return repo
		},
	}
}

func newTestPost(title string) *models.Post {
	return &models.Post{
		Title:     title,
		Content:   title + " content",
		Author:    models.DefaultAuthor,
		CreatedAt: models.Stamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func mustAdd(t *testing.T, repo PostRepo, title string) *models.Post {
	t.Helper()
	post := newTestPost(title)
	if err := repo.Add(post); err != nil {
		t.Fatalf("add %q failed: %v", title, err)
	}
	return post
}

func TestPostRepoAddAssignsIncreasingIDs(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)

			first := mustAdd(t, repo, "first")
			second := mustAdd(t, repo, "second")
			if first.ID != 1 {
				t.Fatalf("first id want 1 got %d", first.ID)
			}
			if second.ID != first.ID+1 {
				t.Fatalf("second id want %d got %d", first.ID+1, second.ID)
			}

			if err := repo.Delete(second.ID); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			third := mustAdd(t, repo, "third")
			if third.ID <= second.ID {
				t.Fatalf("ids must not be reused after delete: got %d after %d", third.ID, second.ID)
			}
		})
	}
}

func TestPostRepoFindAllKeepsInsertionOrder(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)

			posts, err := repo.FindAll()
			if err != nil {
				t.Fatalf("find all on empty repo failed: %v", err)
			}
			if posts == nil || len(posts) != 0 {
				t.Fatalf("empty repo should list an empty non-nil slice, got %#v", posts)
			}

			for _, title := range []string{"a", "b", "c"} {
				mustAdd(t, repo, title)
			}
			posts, err = repo.FindAll()
			if err != nil {
				t.Fatalf("find all failed: %v", err)
			}
			if len(posts) != 3 {
				t.Fatalf("len want 3 got %d", len(posts))
			}
			for i, title := range []string{"a", "b", "c"} {
				if posts[i].Title != title {
					t.Fatalf("posts[%d] want %q got %q", i, title, posts[i].Title)
				}
			}
		})
	}
}

func TestPostRepoFindByID(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			created := mustAdd(t, repo, "lookup")

			got, err := repo.FindByID(created.ID)
			if err != nil {
				t.Fatalf("find by id failed: %v", err)
			}
			if got.Title != "lookup" || got.Content != "lookup content" || got.Author != models.DefaultAuthor {
				t.Fatalf("unexpected post: %#v", got)
			}
			if !got.CreatedAt.Equal(created.CreatedAt) {
				t.Fatalf("createdAt want %s got %s", created.CreatedAt, got.CreatedAt)
			}
			if got.UpdatedAt != nil {
				t.Fatalf("fresh post should have no updatedAt, got %s", got.UpdatedAt)
			}

			_, err = repo.FindByID(99999)
			if !errs.IsNotFound(err) {
				t.Fatalf("missing id should be not found, got %v", err)
			}
		})
	}
}

func TestPostRepoUpdate(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			created := mustAdd(t, repo, "original")
			stamp := models.Stamp(time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC))

			updated, err := repo.Update(created.ID, func(p *models.Post) {
				p.Content = "changed"
				p.ID = 777
				p.UpdatedAt = &stamp
			})
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if updated.ID != created.ID {
				t.Fatalf("update must not change id: want %d got %d", created.ID, updated.ID)
			}
			if updated.Title != "original" || updated.Content != "changed" {
				t.Fatalf("unexpected updated post: %#v", updated)
			}

			got, err := repo.FindByID(created.ID)
			if err != nil {
				t.Fatalf("find after update failed: %v", err)
			}
			if got.Content != "changed" {
				t.Fatalf("stored content want changed got %q", got.Content)
			}
			if got.UpdatedAt == nil || !got.UpdatedAt.Equal(stamp) {
				t.Fatalf("stored updatedAt want %s got %v", stamp, got.UpdatedAt)
			}

			_, err = repo.Update(99999, func(p *models.Post) {})
			if !errs.IsNotFound(err) {
				t.Fatalf("update of missing id should be not found, got %v", err)
			}
		})
	}
}

func TestPostRepoDelete(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)
			a := mustAdd(t, repo, "a")
			b := mustAdd(t, repo, "b")
			c := mustAdd(t, repo, "c")

			if err := repo.Delete(b.ID); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			count, err := repo.Count()
			if err != nil {
				t.Fatalf("count failed: %v", err)
			}
			if count != 2 {
				t.Fatalf("count want 2 got %d", count)
			}
			posts, _ := repo.FindAll()
			if posts[0].ID != a.ID || posts[1].ID != c.ID {
				t.Fatalf("remaining order want [%d %d] got [%d %d]", a.ID, c.ID, posts[0].ID, posts[1].ID)
			}
			if _, err := repo.FindByID(b.ID); !errs.IsNotFound(err) {
				t.Fatalf("deleted post should be not found, got %v", err)
			}

			for i := 0; i < 3; i++ {
				if err := repo.Delete(b.ID); !errs.IsNotFound(err) {
					t.Fatalf("repeated delete #%d should be not found, got %v", i, err)
				}
			}
		})
	}
}

func TestPostRepoConcurrentAddsYieldUniqueIDs(t *testing.T) {
	for name, factory := range postRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := factory(t)

			const workers = 40
			ids := make(chan int64, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					post := newTestPost("concurrent")
					if err := repo.Add(post); err != nil {
						t.Errorf("concurrent add failed: %v", err)
						return
					}
					ids <- post.ID
				}()
			}
			wg.Wait()
			close(ids)

			seen := make(map[int64]bool, workers)
			for id := range ids {
				if seen[id] {
					t.Fatalf("duplicate id %d", id)
				}
				seen[id] = true
			}
			if len(seen) != workers {
				t.Fatalf("unique ids want %d got %d", workers, len(seen))
			}
			count, _ := repo.Count()
			if count != workers {
				t.Fatalf("count want %d got %d", workers, count)
			}
		})
	}
}

func TestMemoryPostRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryPostRepo()
	created := mustAdd(t, repo, "stable")

	got, _ := repo.FindByID(created.ID)
	got.Title = "mutated outside"
	created.Title = "mutated caller copy"

	posts, _ := repo.FindAll()
	posts[0].Content = "mutated list copy"

	stored, _ := repo.FindByID(created.ID)
	if stored.Title != "stable" || stored.Content != "stable content" {
		t.Fatalf("store leaked internal state: %#v", stored)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("default driver failed: %v", err)
	}
	if db.Driver() != DriverMemory {
		t.Fatalf("default driver want memory got %s", db.Driver())
	}
	if _, ok := db.PostRepo().(*MemoryPostRepo); !ok {
		t.Fatalf("memory driver should build MemoryPostRepo, got %T", db.PostRepo())
	}

	sqliteDB, err := New("SQLite")
	if err != nil {
		t.Fatalf("sqlite driver failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqliteDB.Close()
	})
	if _, ok := sqliteDB.PostRepo().(*SQLitePostRepo); !ok {
		t.Fatalf("sqlite driver should build SQLitePostRepo, got %T", sqliteDB.PostRepo())
	}

	if _, err := New("postgres"); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
