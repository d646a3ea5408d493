package services

import (
	"context"
	"errors"
	"testing"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

func TestPermissionFor_Tiers(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	owner := seedUser(rm, "owner", "owner", false)
	viewer := seedUser(rm, "viewer", "viewer", false)
	editor := seedUser(rm, "editor", "editor", false)
	manager := seedUser(rm, "manager", "manager", false)
	stranger := seedUser(rm, "stranger", "stranger", false)
	admin := seedUser(rm, "admin", "admin", true)

	seedHumidor(rm, "h1", owner.ID, "office")
	seedShare(rm, "h1", viewer.ID, models.PermissionView)
	seedShare(rm, "h1", editor.ID, models.PermissionEdit)
	seedShare(rm, "h1", manager.ID, models.PermissionFull)

	s := NewAccessService(rm)

	tests := []struct {
		userID string
		want   models.PermissionLevel
	}{
		{owner.ID, models.PermissionFull},
		{viewer.ID, models.PermissionView},
		{editor.ID, models.PermissionEdit},
		{manager.ID, models.PermissionFull},
		{stranger.ID, models.PermissionNone},
		// the admin flag grants nothing on ordinary humidor access
		{admin.ID, models.PermissionNone},
	}
	for _, tc := range tests {
		got, err := s.PermissionFor(context.Background(), db, tc.userID, "h1")
		if err != nil {
			t.Fatalf("PermissionFor(%s): %v", tc.userID, err)
		}
		if got != tc.want {
			t.Fatalf("PermissionFor(%s): want %q, got %q", tc.userID, tc.want, got)
		}
	}
}

func TestPermissionFor_MissingHumidor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	seedUser(rm, "u1", "alice", false)

	s := NewAccessService(rm)
	_, err := s.PermissionFor(context.Background(), db, "u1", "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPermissionFor_OwnershipBeatsStrayShare(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	owner := seedUser(rm, "owner", "owner", false)
	seedHumidor(rm, "h1", owner.ID, "office")
	// stray self-share at a lower tier must not demote the owner
	seedShare(rm, "h1", owner.ID, models.PermissionView)

	s := NewAccessService(rm)
	got, err := s.PermissionFor(context.Background(), db, owner.ID, "h1")
	if err != nil || got != models.PermissionFull {
		t.Fatalf("owner with stray share: want full, got %q err=%v", got, err)
	}
}

func TestPermissionForCigar_ResolvesThroughHumidor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	owner := seedUser(rm, "owner", "owner", false)
	viewer := seedUser(rm, "viewer", "viewer", false)
	seedHumidor(rm, "h1", owner.ID, "office")
	seedShare(rm, "h1", viewer.ID, models.PermissionView)
	seedCigar(rm, "c1", "h1", "robusto")

	s := NewAccessService(rm)

	level, cigar, err := s.PermissionForCigar(context.Background(), db, viewer.ID, "c1")
	if err != nil || level != models.PermissionView || cigar.ID != "c1" {
		t.Fatalf("viewer on cigar: level=%q cigar=%+v err=%v", level, cigar, err)
	}

	if _, _, err := s.PermissionForCigar(context.Background(), db, owner.ID, "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("missing cigar: want ErrorNotFound, got %v", err)
	}
}

func TestPermissionForCigar_BrokenChain(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	owner := seedUser(rm, "owner", "owner", false)
	seedHumidor(rm, "h1", owner.ID, "office")
	seedCigar(rm, "c1", "h1", "robusto")
	// orphan the cigar
	delete(rm.store.humidors, "h1")

	s := NewAccessService(rm)
	_, _, err := s.PermissionForCigar(context.Background(), db, owner.ID, "c1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("broken chain: want ErrorNotFound, got %v", err)
	}
}
