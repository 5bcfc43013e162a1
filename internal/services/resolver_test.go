package services

import (
	"errors"
	"testing"

	"timetable/internal/models"
	"timetable/internal/repository"

	"github.com/google/uuid"
)

func newResolver(t *testing.T) (*ResolverService, *testFixtures) {
	t.Helper()
	db := newTestDB(t)
	fx := &testFixtures{
		alice: mustCreateUser(t, db, "alice", models.RoleStudent, "10"),
		bob:   mustCreateUser(t, db, "bob", models.RoleStudent, "10"),
		carol: mustCreateUser(t, db, "carol", models.RoleStudent, "11"),
		staff: mustCreateUser(t, db, "mr_jones", models.RoleStaff, ""),
		admin: mustCreateUser(t, db, "admin", models.RoleAdmin, ""),
		math:  mustCreateSubject(t, db, "Math"),
	}
	mustAssign(t, db, fx.alice.ID, fx.math.ID)
	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	return NewResolverService(userRepo, subjectRepo), fx
}

type testFixtures struct {
	alice, bob, carol, staff, admin *models.User
	math                            *models.Subject
}

func TestResolveSingle(t *testing.T) {
	resolver, fx := newResolver(t)
	ids, err := resolver.Resolve(Selection{Mode: SelectUser, UserID: fx.bob.ID})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ids) != 1 || ids[0] != fx.bob.ID {
		t.Errorf("Resolve single = %v, want [%s]", ids, fx.bob.ID)
	}
}

func TestResolveSingleUnknownUser(t *testing.T) {
	resolver, _ := newResolver(t)
	_, err := resolver.Resolve(Selection{Mode: SelectUser, UserID: uuid.New()})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Resolve unknown user error = %v, want ErrNotFound", err)
	}
}

func TestResolveBySubject(t *testing.T) {
	resolver, fx := newResolver(t)
	ids, err := resolver.Resolve(Selection{Mode: SelectSubject, SubjectID: fx.math.ID})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ids) != 1 || ids[0] != fx.alice.ID {
		t.Errorf("Resolve by subject = %v, want [%s]", ids, fx.alice.ID)
	}
}

func TestResolveApplyToAll(t *testing.T) {
	resolver, fx := newResolver(t)
	// Один пользователь с расширением на весь состав предмета
	ids, err := resolver.Resolve(Selection{
		Mode:       SelectUser,
		UserID:     fx.bob.ID,
		SubjectID:  fx.math.ID,
		ApplyToAll: true,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ids) != 1 || ids[0] != fx.alice.ID {
		t.Errorf("Resolve apply_to_all = %v, want roster [%s]", ids, fx.alice.ID)
	}
}

func TestResolveExclusions(t *testing.T) {
	resolver, fx := newResolver(t)
	ids, err := resolver.Resolve(Selection{
		Mode:      SelectSubject,
		SubjectID: fx.math.ID,
		Exclude:   []uuid.UUID{fx.alice.ID},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Пустой результат допустим
	if len(ids) != 0 {
		t.Errorf("Resolve with exclusion = %v, want empty", ids)
	}
}

func TestResolveByYearGroup(t *testing.T) {
	resolver, fx := newResolver(t)
	ids, err := resolver.Resolve(Selection{Mode: SelectYearGroup, YearGroup: "10"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := map[uuid.UUID]bool{fx.alice.ID: true, fx.bob.ID: true}
	if len(ids) != 2 || !want[ids[0]] || !want[ids[1]] {
		t.Errorf("Resolve by year group = %v, want alice and bob", ids)
	}
}

func TestResolveAllSkipsAdmins(t *testing.T) {
	resolver, fx := newResolver(t)
	ids, err := resolver.Resolve(Selection{Mode: SelectAll})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("Resolve all = %d users, want 4", len(ids))
	}
	for _, id := range ids {
		if id == fx.admin.ID {
			t.Errorf("Resolve all includes admin")
		}
	}
}

func TestResolveUnknownMode(t *testing.T) {
	resolver, _ := newResolver(t)
	_, err := resolver.Resolve(Selection{Mode: "everyone"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Resolve unknown mode error = %v, want ErrValidation", err)
	}
}
