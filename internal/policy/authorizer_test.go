package policy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

type fakeResolver struct {
	roles map[uuid.UUID]string
	calls int
}

func (f *fakeResolver) RoleOf(_ context.Context, id uuid.UUID) (string, error) {
	f.calls++
	role, ok := f.roles[id]
	if !ok {
		return "", errors.New("unknown user")
	}
	return role, nil
}

func newTestAuthorizer(t *testing.T) (*policy.Authorizer, *fakeResolver, uuid.UUID, uuid.UUID) {
	t.Helper()
	admin := uuid.New()
	student := uuid.New()
	resolver := &fakeResolver{roles: map[uuid.UUID]string{
		admin:   policy.RoleAdmin,
		student: policy.RoleStudent,
	}}
	return policy.NewAuthorizer(resolver), resolver, admin, student
}

func TestAuthorizeAccounts(t *testing.T) {
	authz, _, admin, student := newTestAuthorizer(t)
	ctx := context.Background()
	other := uuid.New()

	t.Run("SelfRegistration", func(t *testing.T) {
		err := authz.Authorize(ctx, student, policy.ActionInsert, policy.Resource{
			Table:   policy.TableAccounts,
			OwnerID: student,
		})
		if err != nil {
			t.Errorf("self insert should be allowed, got: %v", err)
		}
	})

	t.Run("SelfReadAndUpdate", func(t *testing.T) {
		for _, action := range []policy.Action{policy.ActionSelect, policy.ActionUpdate} {
			err := authz.Authorize(ctx, student, action, policy.Resource{
				Table:   policy.TableAccounts,
				OwnerID: student,
			})
			if err != nil {
				t.Errorf("self %s should be allowed, got: %v", action, err)
			}
		}
	})

	t.Run("SelfDeleteDenied", func(t *testing.T) {
		err := authz.Authorize(ctx, student, policy.ActionDelete, policy.Resource{
			Table:   policy.TableAccounts,
			OwnerID: student,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("self delete should be denied, got: %v", err)
		}
	})

	t.Run("AdminReadsOtherAccounts", func(t *testing.T) {
		err := authz.Authorize(ctx, admin, policy.ActionSelect, policy.Resource{
			Table:   policy.TableAccounts,
			OwnerID: other,
		})
		if err != nil {
			t.Errorf("admin select of another account should be allowed, got: %v", err)
		}
	})

	t.Run("AdminCannotWriteOtherAccounts", func(t *testing.T) {
		for _, action := range []policy.Action{policy.ActionUpdate, policy.ActionDelete} {
			err := authz.Authorize(ctx, admin, action, policy.Resource{
				Table:   policy.TableAccounts,
				OwnerID: other,
			})
			if !errors.Is(err, policy.ErrPermissionDenied) {
				t.Errorf("admin %s of another account should be denied, got: %v", action, err)
			}
		}
	})

	t.Run("StudentCannotReadOtherAccounts", func(t *testing.T) {
		err := authz.Authorize(ctx, student, policy.ActionSelect, policy.Resource{
			Table:   policy.TableAccounts,
			OwnerID: other,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("student select of another account should be denied, got: %v", err)
		}
	})
}

func TestAuthorizeSubjectsAndModules(t *testing.T) {
	authz, _, admin, student := newTestAuthorizer(t)
	ctx := context.Background()

	for _, table := range []policy.Table{policy.TableSubjects, policy.TableModules} {
		t.Run(string(table), func(t *testing.T) {
			t.Run("StudentReadsActiveRow", func(t *testing.T) {
				err := authz.Authorize(ctx, student, policy.ActionSelect, policy.Resource{
					Table:  table,
					Active: true,
				})
				if err != nil {
					t.Errorf("student select of active row should be allowed, got: %v", err)
				}
			})

			t.Run("StudentCannotReadInactiveRow", func(t *testing.T) {
				err := authz.Authorize(ctx, student, policy.ActionSelect, policy.Resource{
					Table:  table,
					Active: false,
				})
				if !errors.Is(err, policy.ErrPermissionDenied) {
					t.Errorf("student select of inactive row should be denied, got: %v", err)
				}
			})

			t.Run("AdminReadsInactiveRow", func(t *testing.T) {
				err := authz.Authorize(ctx, admin, policy.ActionSelect, policy.Resource{
					Table:  table,
					Active: false,
				})
				if err != nil {
					t.Errorf("admin select of inactive row should be allowed, got: %v", err)
				}
			})

			t.Run("StudentMutationsDenied", func(t *testing.T) {
				for _, action := range []policy.Action{policy.ActionInsert, policy.ActionUpdate, policy.ActionDelete} {
					err := authz.Authorize(ctx, student, action, policy.Resource{
						Table:  table,
						Active: true,
					})
					if !errors.Is(err, policy.ErrPermissionDenied) {
						t.Errorf("student %s should be denied, got: %v", action, err)
					}
				}
			})

			t.Run("AdminFullManagement", func(t *testing.T) {
				for _, action := range []policy.Action{policy.ActionInsert, policy.ActionUpdate, policy.ActionDelete} {
					err := authz.Authorize(ctx, admin, action, policy.Resource{Table: table})
					if err != nil {
						t.Errorf("admin %s should be allowed, got: %v", action, err)
					}
				}
			})
		})
	}
}

func TestAuthorizeSectionsAndQuestions(t *testing.T) {
	authz, _, admin, student := newTestAuthorizer(t)
	ctx := context.Background()

	for _, table := range []policy.Table{policy.TableSections, policy.TableQuestions} {
		t.Run(string(table), func(t *testing.T) {
			// Sections and questions carry no active gate of their own.
			t.Run("AnyAuthenticatedRead", func(t *testing.T) {
				err := authz.Authorize(ctx, student, policy.ActionSelect, policy.Resource{Table: table})
				if err != nil {
					t.Errorf("student select should be allowed, got: %v", err)
				}
			})

			t.Run("StudentWriteDenied", func(t *testing.T) {
				err := authz.Authorize(ctx, student, policy.ActionInsert, policy.Resource{Table: table})
				if !errors.Is(err, policy.ErrPermissionDenied) {
					t.Errorf("student insert should be denied, got: %v", err)
				}
			})

			t.Run("AdminWriteAllowed", func(t *testing.T) {
				err := authz.Authorize(ctx, admin, policy.ActionDelete, policy.Resource{Table: table})
				if err != nil {
					t.Errorf("admin delete should be allowed, got: %v", err)
				}
			})
		})
	}
}

func TestAuthorizeProgress(t *testing.T) {
	authz, _, admin, student := newTestAuthorizer(t)
	ctx := context.Background()
	other := uuid.New()

	for _, table := range []policy.Table{policy.TableSectionProgress, policy.TableSubjectProgress} {
		t.Run(string(table), func(t *testing.T) {
			t.Run("OwnerFullAccess", func(t *testing.T) {
				for _, action := range []policy.Action{policy.ActionSelect, policy.ActionInsert, policy.ActionUpdate, policy.ActionDelete} {
					err := authz.Authorize(ctx, student, action, policy.Resource{
						Table:   table,
						OwnerID: student,
					})
					if err != nil {
						t.Errorf("owner %s should be allowed, got: %v", action, err)
					}
				}
			})

			t.Run("NonOwnerDenied", func(t *testing.T) {
				for _, action := range []policy.Action{policy.ActionSelect, policy.ActionInsert, policy.ActionUpdate, policy.ActionDelete} {
					err := authz.Authorize(ctx, student, action, policy.Resource{
						Table:   table,
						OwnerID: other,
					})
					if !errors.Is(err, policy.ErrPermissionDenied) {
						t.Errorf("non-owner %s should be denied, got: %v", action, err)
					}
				}
			})

			t.Run("AdminReadOnlyOnOthers", func(t *testing.T) {
				err := authz.Authorize(ctx, admin, policy.ActionSelect, policy.Resource{
					Table:   table,
					OwnerID: other,
				})
				if err != nil {
					t.Errorf("admin select of another's progress should be allowed, got: %v", err)
				}

				for _, action := range []policy.Action{policy.ActionInsert, policy.ActionUpdate, policy.ActionDelete} {
					err := authz.Authorize(ctx, admin, action, policy.Resource{
						Table:   table,
						OwnerID: other,
					})
					if !errors.Is(err, policy.ErrPermissionDenied) {
						t.Errorf("admin %s of another's progress should be denied, got: %v", action, err)
					}
				}
			})
		})
	}
}

func TestDefaultDeny(t *testing.T) {
	authz, _, admin, _ := newTestAuthorizer(t)
	ctx := context.Background()

	t.Run("UnknownTable", func(t *testing.T) {
		err := authz.Authorize(ctx, admin, policy.ActionSelect, policy.Resource{Table: "audit_log"})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("unknown table should be denied, got: %v", err)
		}
	})

	t.Run("NilCaller", func(t *testing.T) {
		err := authz.Authorize(ctx, uuid.Nil, policy.ActionSelect, policy.Resource{
			Table:  policy.TableSubjects,
			Active: true,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("nil caller should be denied, got: %v", err)
		}
	})
}

func TestRoleCache(t *testing.T) {
	authz, resolver, admin, _ := newTestAuthorizer(t)

	t.Run("CachedWithinRequest", func(t *testing.T) {
		ctx := policy.WithRoleCache(context.Background())
		resolver.calls = 0

		for i := 0; i < 3; i++ {
			if err := authz.Authorize(ctx, admin, policy.ActionInsert, policy.Resource{
				Table: policy.TableSubjects,
			}); err != nil {
				t.Fatalf("admin insert should be allowed, got: %v", err)
			}
		}

		if resolver.calls != 1 {
			t.Errorf("expected a single role lookup within one request, got %d", resolver.calls)
		}
	})

	t.Run("NotCachedAcrossRequests", func(t *testing.T) {
		resolver.calls = 0

		for i := 0; i < 2; i++ {
			ctx := policy.WithRoleCache(context.Background())
			if err := authz.Authorize(ctx, admin, policy.ActionInsert, policy.Resource{
				Table: policy.TableSubjects,
			}); err != nil {
				t.Fatalf("admin insert should be allowed, got: %v", err)
			}
		}

		if resolver.calls != 2 {
			t.Errorf("expected one role lookup per request, got %d", resolver.calls)
		}
	})
}
