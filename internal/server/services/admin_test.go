package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

// The count-then-mutate sequence behind the guard is only sound when the
// two concurrent demotions cannot both read "one other admin left". That
// requires serializable isolation, read committed is not enough.
func TestAdminGuard_RunsSerializable(t *testing.T) {
	if adminGuardTxOptions == nil || adminGuardTxOptions.Isolation != sql.LevelSerializable {
		t.Fatalf("last-admin guard must run at serializable isolation, got %+v", adminGuardTxOptions)
	}
}

func TestSetAdminFlag_LastAdminGuard(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	s := NewAdminService(db, rm, testLogger())

	// sole active admin cannot demote themselves
	expectRollback(mock)
	err := s.SetAdminFlag(context.Background(), admin, admin.ID, false)
	if !errors.Is(err, common.ErrorInvariantViolation) {
		t.Fatalf("sole admin demotion: want ErrorInvariantViolation, got %v", err)
	}
	if !rm.store.users["a1"].IsAdmin {
		t.Fatalf("guarded demotion must not mutate")
	}

	// with a second active admin the demotion goes through
	seedUser(rm, "a2", "root2", true)
	expectTx(mock)
	if err := s.SetAdminFlag(context.Background(), admin, admin.ID, false); err != nil {
		t.Fatalf("demotion with backup admin: %v", err)
	}
	if rm.store.users["a1"].IsAdmin {
		t.Fatalf("demotion did not apply")
	}
}

func TestSetAdminFlag_InactiveAdminDoesNotCount(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	frozen := seedUser(rm, "a2", "root2", true)
	frozen.IsActive = false

	s := NewAdminService(db, rm, testLogger())

	expectRollback(mock)
	err := s.SetAdminFlag(context.Background(), admin, admin.ID, false)
	if !errors.Is(err, common.ErrorInvariantViolation) {
		t.Fatalf("inactive admin must not satisfy the guard, got %v", err)
	}
}

func TestSetAdminFlag_PromotionSkipsGuard(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	user := seedUser(rm, "u1", "alice", false)

	s := NewAdminService(db, rm, testLogger())

	expectTx(mock)
	if err := s.SetAdminFlag(context.Background(), admin, user.ID, true); err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if !rm.store.users["u1"].IsAdmin {
		t.Fatalf("promotion did not apply")
	}
}

func TestSetActiveFlag_LastAdminGuard(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	user := seedUser(rm, "u1", "alice", false)

	s := NewAdminService(db, rm, testLogger())

	// deactivating the sole active admin is rejected
	expectRollback(mock)
	err := s.SetActiveFlag(context.Background(), admin, admin.ID, false)
	if !errors.Is(err, common.ErrorInvariantViolation) {
		t.Fatalf("deactivate sole admin: want ErrorInvariantViolation, got %v", err)
	}

	// deactivating an ordinary user is fine
	expectTx(mock)
	if err := s.SetActiveFlag(context.Background(), admin, user.ID, false); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
	if rm.store.users["u1"].IsActive {
		t.Fatalf("deactivation did not apply")
	}
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	user := seedUser(rm, "u1", "alice", false)
	target := seedUser(rm, "u2", "bob", false)

	s := NewAdminService(db, rm, testLogger())

	if _, err := s.CreateUser(context.Background(), user, "x", "x@example.com", "", "pw", false); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("CreateUser: want ErrorForbidden, got %v", err)
	}
	if _, err := s.GetUser(context.Background(), user, target.ID); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("GetUser: want ErrorForbidden, got %v", err)
	}
	if err := s.SetAdminFlag(context.Background(), user, target.ID, true); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("SetAdminFlag: want ErrorForbidden, got %v", err)
	}
	if err := s.SetActiveFlag(context.Background(), user, target.ID, false); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("SetActiveFlag: want ErrorForbidden, got %v", err)
	}
	if _, err := s.TransferOwnership(context.Background(), user, "u2", "u1"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("TransferOwnership: want ErrorForbidden, got %v", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	from := seedUser(rm, "u1", "alice", false)
	to := seedUser(rm, "u2", "bob", false)
	grantee := seedUser(rm, "u3", "carol", false)

	seedHumidor(rm, "h1", from.ID, "office")
	seedHumidor(rm, "h2", from.ID, "home")
	seedCigar(rm, "c1", "h1", "robusto")
	seedCigar(rm, "c2", "h1", "toro")
	seedCigar(rm, "c3", "h2", "corona")
	seedShare(rm, "h1", grantee.ID, models.PermissionEdit)
	rm.store.publicShares["t1"] = &models.PublicShare{ID: "t1", HumidorID: "h1", CreatedBy: from.ID}

	// the recipient's own holdings must not be counted
	seedHumidor(rm, "h3", to.ID, "garage")
	seedCigar(rm, "c4", "h3", "lancero")

	s := NewAdminService(db, rm, testLogger())

	expectTx(mock)
	res, err := s.TransferOwnership(context.Background(), admin, from.ID, to.ID)
	if err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if res.HumidorsMoved != 2 || res.CigarsMoved != 3 || res.SharesRemoved != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	for _, id := range []string{"h1", "h2"} {
		if rm.store.humidors[id].UserID != to.ID {
			t.Fatalf("humidor %s not reassigned", id)
		}
	}
	if len(rm.store.shares) != 0 {
		t.Fatalf("shares must not survive the transfer")
	}
	if len(rm.store.publicShares) != 0 {
		t.Fatalf("public tokens must not survive the transfer")
	}
	// cigars follow their humidor untouched
	if rm.store.cigars["c1"].HumidorID != "h1" {
		t.Fatalf("cigar binding changed")
	}
}

func TestTransferOwnership_Validation(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	admin := seedUser(rm, "a1", "root", true)
	seedUser(rm, "u1", "alice", false)

	s := NewAdminService(db, rm, testLogger())

	if _, err := s.TransferOwnership(context.Background(), admin, "u1", "u1"); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("self transfer: want ErrorInvalidArgument, got %v", err)
	}

	expectRollback(mock)
	if _, err := s.TransferOwnership(context.Background(), admin, "u1", "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown recipient: want ErrorNotFound, got %v", err)
	}
}
