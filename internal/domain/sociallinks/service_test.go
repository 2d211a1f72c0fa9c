package sociallinks

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	next int64
	byID map[int64]Link
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Link{}}
}

func (r *testRepo) ListByProfile(ctx context.Context, profileID string) ([]Link, error) {
	out := make([]Link, 0)
	for _, l := range r.byID {
		if l.ProfileID == profileID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *testRepo) Create(ctx context.Context, l Link) (Link, error) {
	r.next++
	l.ID = r.next
	r.byID[l.ID] = l
	return l, nil
}

func (r *testRepo) Update(ctx context.Context, l Link) error {
	cur, ok := r.byID[l.ID]
	if !ok || cur.ProfileID != l.ProfileID {
		return ErrNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) Delete(ctx context.Context, profileID string, id int64) error {
	cur, ok := r.byID[id]
	if !ok || cur.ProfileID != profileID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestAdd_AssignsIDAndTrims(t *testing.T) {
	svc := NewService(newTestRepo())

	l, err := svc.Add(context.Background(), "U1", Input{Platform: " instagram ", URL: "https://instagram.com/ana"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if l.ID == 0 || l.ProfileID != "U1" || l.Platform != "instagram" {
		t.Fatalf("unexpected link %+v", l)
	}
}

func TestAdd_RequiresPlatformAndURL(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Add(context.Background(), "U1", Input{Platform: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Add(context.Background(), "U1", Input{URL: "https://x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateAndDelete_AreOwnerScoped(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	l, _ := svc.Add(context.Background(), "U1", Input{Platform: "facebook", URL: "https://fb.com/ana"})

	if _, err := svc.Update(context.Background(), "U2", l.ID, Input{Platform: "x", URL: "https://x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "U2", l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	up, err := svc.Update(context.Background(), "U1", l.ID, Input{Platform: "facebook", URL: "https://fb.com/anna"})
	if err != nil {
		t.Fatalf("expected owner update to pass, got %v", err)
	}
	if up.URL != "https://fb.com/anna" || repo.byID[l.ID].URL != up.URL {
		t.Fatalf("update not persisted: %+v", repo.byID[l.ID])
	}

	if err := svc.Delete(context.Background(), "U1", l.ID); err != nil {
		t.Fatalf("expected owner delete to pass, got %v", err)
	}
	items, _ := svc.List(context.Background(), "U1")
	if len(items) != 0 {
		t.Fatalf("expected no links, got %d", len(items))
	}
}
