package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"backoffice/internal/entity"
	"backoffice/internal/testutil"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, repo UserRepository, email string, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{Name: "Test", Email: email, PasswordHash: "hash", Role: role, Status: entity.UserStatusActive}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserRepositoryFindMissing(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	user, err := repo.FindByEmail(ctx, "nobody@example.com")
	if err != nil || user != nil {
		t.Fatalf("FindByEmail = %v, %v; want nil, nil", user, err)
	}
	lookup, err := repo.FindByResetToken(ctx, "missing")
	if err != nil || lookup != nil {
		t.Fatalf("FindByResetToken = %v, %v; want nil, nil", lookup, err)
	}
}

func TestUserRepositoryEmailIsCaseSensitive(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	seedUser(t, repo, "Jane@Example.com", entity.UserRoleUser)

	user, err := repo.FindByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user != nil {
		t.Fatal("lookup should not fold case")
	}
}

func TestUserRepositoryConsumeResetToken(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	user := seedUser(t, repo, "reset@example.com", entity.UserRoleUser)
	now := time.Now().UTC()

	if err := repo.SetResetToken(ctx, user.ID, "digest-1", now.Add(15*time.Minute)); err != nil {
		t.Fatalf("set token: %v", err)
	}
	lookup, err := repo.FindByResetToken(ctx, "digest-1")
	if err != nil || lookup == nil {
		t.Fatalf("lookup = %v, %v", lookup, err)
	}
	if lookup.ID != user.ID {
		t.Fatalf("lookup id = %v, want %v", lookup.ID, user.ID)
	}

	consumed, err := repo.ConsumeResetToken(ctx, "digest-1", "new-hash", now)
	if err != nil || !consumed {
		t.Fatalf("consume = %v, %v; want true", consumed, err)
	}
	again, err := repo.ConsumeResetToken(ctx, "digest-1", "other-hash", now)
	if err != nil || again {
		t.Fatalf("second consume = %v, %v; want false", again, err)
	}

	stored, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash != "new-hash" {
		t.Fatalf("password hash = %q", stored.PasswordHash)
	}
	if stored.ResetToken != nil || stored.ResetExpires != nil {
		t.Fatal("reset fields should be cleared together")
	}
}

func TestUserRepositoryConsumeSkipsExpiredToken(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	user := seedUser(t, repo, "late@example.com", entity.UserRoleUser)
	now := time.Now().UTC()

	if err := repo.SetResetToken(ctx, user.ID, "digest-old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("set token: %v", err)
	}
	consumed, err := repo.ConsumeResetToken(ctx, "digest-old", "new-hash", now)
	if err != nil || consumed {
		t.Fatalf("consume = %v, %v; want false", consumed, err)
	}
	cleared, err := repo.ClearResetToken(ctx, "digest-old")
	if err != nil || !cleared {
		t.Fatalf("clear = %v, %v; want true", cleared, err)
	}
	cleared, err = repo.ClearResetToken(ctx, "digest-old")
	if err != nil || cleared {
		t.Fatalf("second clear = %v, %v; want false", cleared, err)
	}

	stored, _ := repo.FindByID(ctx, user.ID)
	if stored.PasswordHash != "hash" {
		t.Fatal("expired token must not change the password")
	}
}

func TestUserRepositoryConcurrentConsume(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	user := seedUser(t, repo, "race@example.com", entity.UserRoleUser)
	now := time.Now().UTC()
	if err := repo.SetResetToken(ctx, user.ID, "digest-race", now.Add(15*time.Minute)); err != nil {
		t.Fatalf("set token: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.ConsumeResetToken(ctx, "digest-race", "hash", now)
			if err != nil {
				t.Errorf("consume: %v", err)
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for ok := range results {
		if ok {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want 1", successes)
	}
}

func TestUserRepositoryListSkipsAdmins(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	seedUser(t, repo, "admin@example.com", entity.UserRoleAdmin)
	seedUser(t, repo, "sales@example.com", entity.UserRoleSalesman)
	seedUser(t, repo, "user@example.com", entity.UserRoleUser)

	users, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	for _, user := range users {
		if user.Role == entity.UserRoleAdmin {
			t.Fatal("admins must not be listed")
		}
	}

	limited, err := repo.List(context.Background(), 1, 0)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited list = %d, %v", len(limited), err)
	}
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	user := seedUser(t, repo, "gone@example.com", entity.UserRoleUser)

	deleted, err := repo.Delete(context.Background(), user.ID)
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}
	deleted, err = repo.Delete(context.Background(), user.ID)
	if err != nil || deleted {
		t.Fatalf("second delete = %v, %v", deleted, err)
	}
}

func TestUserRepositoryUpdateTouchesOnlyGivenColumns(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	user := seedUser(t, repo, "edit@example.com", entity.UserRoleUser)
	if err := repo.SetResetToken(ctx, user.ID, "digest", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("set token: %v", err)
	}

	name := "Edited"
	inactive := entity.UserStatusInactive
	found, err := repo.Update(ctx, user.ID, UserChanges{Name: &name, Status: &inactive})
	if err != nil || !found {
		t.Fatalf("update = %v, %v", found, err)
	}
	got, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Edited" || got.Status != entity.UserStatusInactive {
		t.Fatalf("changes not applied: %+v", got)
	}
	if got.PasswordHash != "hash" || got.ResetToken == nil || *got.ResetToken != "digest" {
		t.Fatalf("untouched columns changed: hash=%q token=%v", got.PasswordHash, got.ResetToken)
	}

	found, err = repo.Update(ctx, user.ID, UserChanges{Name: &name})
	if err != nil || !found {
		t.Fatalf("same-value update = %v, %v", found, err)
	}
	found, err = repo.Update(ctx, uuid.New(), UserChanges{Name: &name})
	if err != nil || found {
		t.Fatalf("missing user update = %v, %v", found, err)
	}
}

func TestUserRepositoryUpdateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	seedUser(t, repo, "taken@example.com", entity.UserRoleUser)
	other := seedUser(t, repo, "other@example.com", entity.UserRoleUser)

	email := "taken@example.com"
	if _, err := repo.Update(context.Background(), other.ID, UserChanges{Email: &email}); err != ErrDuplicateEmail {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}
