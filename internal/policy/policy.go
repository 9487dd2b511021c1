package policy

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrRoleLookupFailed = errors.New("failed to resolve caller role")
)

type Action string

const (
	ActionSelect Action = "select"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Table string

const (
	TableAccounts        Table = "users"
	TableSubjects        Table = "subjects"
	TableModules         Table = "modules"
	TableSections        Table = "sections"
	TableQuestions       Table = "questions"
	TableSectionProgress Table = "section_progress"
	TableSubjectProgress Table = "subject_progress"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Resource describes the row an operation targets, reduced to the fields
// the policy rules read: which table it belongs to, who owns it, and
// whether it is flagged active.
type Resource struct {
	Table Table

	// OwnerID is the account the row belongs to: the row id itself for
	// account rows, the user_id column for progress rows. Nil for rows
	// with no ownership dimension (content hierarchy).
	OwnerID uuid.UUID

	// Active mirrors is_active on subject and module rows. Ignored for
	// every other table.
	Active bool
}
