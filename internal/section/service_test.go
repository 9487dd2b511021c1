package section

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/module"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

type fakeSectionRepo struct {
	sections map[uuid.UUID]*Section
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: map[uuid.UUID]*Section{}}
}

func (r *fakeSectionRepo) Create(s *Section) error {
	r.sections[s.ID] = s
	return nil
}

func (r *fakeSectionRepo) FindByID(id uuid.UUID) (*Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, ErrSectionNotFound
	}
	return s, nil
}

func (r *fakeSectionRepo) ListByModule(moduleID uuid.UUID) ([]*Section, error) {
	var out []*Section
	for _, s := range r.sections {
		if s.ModuleID == moduleID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSectionRepo) Update(s *Section) error {
	r.sections[s.ID] = s
	return nil
}

func (r *fakeSectionRepo) Delete(id uuid.UUID) error {
	delete(r.sections, id)
	return nil
}

func (r *fakeSectionRepo) UpdateOrder(items []ReorderItem) error {
	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return err
		}
		s, ok := r.sections[id]
		if !ok {
			return ErrSectionNotFound
		}
		s.OrderIndex = item.OrderIndex
	}
	return nil
}

type fakeModuleRepo struct {
	modules map[uuid.UUID]*module.Module
}

func (r *fakeModuleRepo) Create(*module.Module) error { return nil }

func (r *fakeModuleRepo) FindByID(id uuid.UUID) (*module.Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, module.ErrModuleNotFound
	}
	return m, nil
}

func (r *fakeModuleRepo) ListBySubject(uuid.UUID, bool) ([]*module.Module, error) { return nil, nil }
func (r *fakeModuleRepo) Update(*module.Module) error                             { return nil }
func (r *fakeModuleRepo) Delete(uuid.UUID) error                                  { return nil }
func (r *fakeModuleRepo) UpdateOrder([]module.ReorderItem) error                  { return nil }

type sectionFixture struct {
	service   SectionService
	repo      *fakeSectionRepo
	adminID   uuid.UUID
	studentID uuid.UUID
	parent    *module.Module
}

func newSectionFixture(t *testing.T) *sectionFixture {
	t.Helper()

	adminID := uuid.New()
	studentID := uuid.New()
	roles := map[uuid.UUID]string{
		adminID:   policy.RoleAdmin,
		studentID: policy.RoleStudent,
	}
	authz := policy.NewAuthorizer(policy.RoleResolverFunc(
		func(_ context.Context, id uuid.UUID) (string, error) {
			role, ok := roles[id]
			if !ok {
				return "", fmt.Errorf("no account %s", id)
			}
			return role, nil
		},
	))

	parent := &module.Module{ID: uuid.New(), Name: "Constitutional framework", IsActive: true}
	modules := &fakeModuleRepo{modules: map[uuid.UUID]*module.Module{parent.ID: parent}}
	repo := newFakeSectionRepo()

	return &sectionFixture{
		service:   NewService(repo, modules, authz),
		repo:      repo,
		adminID:   adminID,
		studentID: studentID,
		parent:    parent,
	}
}

func authedContext(id uuid.UUID, role string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UserID: id.String(),
		Role:   role,
	})
}

func TestCreateSection(t *testing.T) {
	t.Run("AdminCreates", func(t *testing.T) {
		f := newSectionFixture(t)

		sec, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), CreateSectionDTO{
			ModuleID: f.parent.ID.String(),
			Name:     "Preamble reading",
			Type:     SectionTypeSource,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sec.IsRequired {
			t.Error("sections should default to required")
		}
	})

	t.Run("UnknownTypeRejected", func(t *testing.T) {
		f := newSectionFixture(t)

		_, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), CreateSectionDTO{
			ModuleID: f.parent.ID.String(),
			Name:     "Mystery",
			Type:     "video",
		})
		if !errors.Is(err, ErrInvalidType) {
			t.Errorf("expected invalid type, got: %v", err)
		}
	})

	t.Run("OrphanModuleRejected", func(t *testing.T) {
		f := newSectionFixture(t)

		_, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), CreateSectionDTO{
			ModuleID: uuid.NewString(),
			Name:     "Orphan",
			Type:     SectionTypeSource,
		})
		if !errors.Is(err, ErrModuleNotFound) {
			t.Errorf("expected module not found, got: %v", err)
		}
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newSectionFixture(t)

		_, err := f.service.Create(authedContext(f.studentID, policy.RoleStudent), CreateSectionDTO{
			ModuleID: f.parent.ID.String(),
			Name:     "Sneaky",
			Type:     SectionTypeSource,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got: %v", err)
		}
	})
}

func TestListSectionsByModule(t *testing.T) {
	t.Run("StudentReadsAllRows", func(t *testing.T) {
		f := newSectionFixture(t)
		for _, st := range []SectionType{SectionTypeSource, SectionTypeTest, SectionTypePYQ} {
			sec := &Section{ID: uuid.New(), ModuleID: f.parent.ID, Type: st}
			f.repo.sections[sec.ID] = sec
		}

		sections, err := f.service.ListByModule(authedContext(f.studentID, policy.RoleStudent), f.parent.ID.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sections) != 3 {
			t.Errorf("expected 3 sections, got %d", len(sections))
		}
	})

	t.Run("UnknownModule", func(t *testing.T) {
		f := newSectionFixture(t)

		_, err := f.service.ListByModule(authedContext(f.studentID, policy.RoleStudent), uuid.NewString())
		if !errors.Is(err, ErrModuleNotFound) {
			t.Errorf("expected module not found, got: %v", err)
		}
	})
}

func TestUpdateSection(t *testing.T) {
	t.Run("AdminChangesType", func(t *testing.T) {
		f := newSectionFixture(t)
		sec := &Section{ID: uuid.New(), ModuleID: f.parent.ID, Type: SectionTypeSource}
		f.repo.sections[sec.ID] = sec
		newType := SectionTypeTest

		updated, err := f.service.Update(authedContext(f.adminID, policy.RoleAdmin), sec.ID.String(), UpdateSectionDTO{
			Type: &newType,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Type != SectionTypeTest {
			t.Errorf("expected test type, got %s", updated.Type)
		}
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newSectionFixture(t)
		sec := &Section{ID: uuid.New(), ModuleID: f.parent.ID, Type: SectionTypeSource}
		f.repo.sections[sec.ID] = sec
		name := "Edited"

		_, err := f.service.Update(authedContext(f.studentID, policy.RoleStudent), sec.ID.String(), UpdateSectionDTO{
			Name: &name,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got: %v", err)
		}
	})
}
