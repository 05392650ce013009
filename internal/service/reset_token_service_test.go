package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
	"backoffice/internal/testutil"
)

func newResetFixture(t *testing.T) (*ResetTokenService, repository.UserRepository, *fakeClock, *entity.User) {
	t.Helper()
	users := repository.NewUserRepository(testutil.NewDB(t))
	user := &entity.User{Name: "R", Email: "r@example.com", PasswordHash: "old", Role: entity.UserRoleUser}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock := &fakeClock{now: time.Now().UTC()}
	return NewResetTokenService(users, clock, 0), users, clock, user
}

func TestResetTokenServiceDefaults(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	if svc.TTL() != 15*time.Minute {
		t.Fatalf("ttl = %v", svc.TTL())
	}
}

func TestResetTokenServiceReissueReplacesPrevious(t *testing.T) {
	svc, _, _, user := newResetFixture(t)
	ctx := context.Background()

	first, _, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, _, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}

	outcome, err := svc.Consume(ctx, first, "h1")
	if err != nil || outcome.Result != ResetNotFound {
		t.Fatalf("old token = %v, %v; want not_found", outcome.Result, err)
	}
	outcome, err = svc.Consume(ctx, second, "h2")
	if err != nil || outcome.Result != ResetConsumed || outcome.UserID != user.ID {
		t.Fatalf("new token = %+v, %v; want consumed", outcome, err)
	}
}

func TestResetTokenServiceExpiry(t *testing.T) {
	svc, users, clock, user := newResetFixture(t)
	ctx := context.Background()

	token, expiresAt, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := clock.Now().Add(15 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	clock.Advance(15*time.Minute + time.Second)
	outcome, err := svc.Consume(ctx, token, "new")
	if err != nil || outcome.Result != ResetExpired {
		t.Fatalf("outcome = %v, %v; want expired", outcome.Result, err)
	}
	stored, _ := users.FindByID(ctx, user.ID)
	if stored.PasswordHash != "old" {
		t.Fatal("expired token changed the password")
	}
	if stored.ResetToken != nil {
		t.Fatal("expired token not cleared")
	}
}

func TestResetTokenServiceAcceptsAtExpiryInstant(t *testing.T) {
	svc, _, clock, user := newResetFixture(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	clock.Advance(15 * time.Minute)
	outcome, err := svc.Consume(ctx, token, "new")
	if err != nil || outcome.Result != ResetConsumed {
		t.Fatalf("outcome = %v, %v; want consumed", outcome.Result, err)
	}
}

func TestResetTokenServiceConcurrentConsume(t *testing.T) {
	svc, _, _, user := newResetFixture(t)
	ctx := context.Background()
	token, _, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const workers = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.Consume(ctx, token, "hash")
			if err != nil {
				t.Errorf("consume: %v", err)
				return
			}
			if outcome.Result == ResetExpired {
				t.Errorf("live token reported expired")
			}
			if outcome.Result == ResetConsumed {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if consumed != 1 {
		t.Fatalf("consumed %d times, want 1", consumed)
	}
}

func TestConsumeResultString(t *testing.T) {
	if ResetConsumed.String() != "consumed" || ResetExpired.String() != "expired" || ResetNotFound.String() != "not_found" {
		t.Fatal("unexpected ConsumeResult strings")
	}
}
