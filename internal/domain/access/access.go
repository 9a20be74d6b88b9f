// Package access decides whether a user may read or write a shared
// resource. Accounts and budgets have different sharing rules, but both
// collapse onto one permission lattice: none < read < write < owner.
package access

import (
	"context"
	"fmt"
)

// Kind tags the resource variant a decision applies to.
type Kind string

const (
	KindAccount Kind = "account"
	KindBudget  Kind = "budget"
)

// Resource identifies a shared resource.
type Resource struct {
	Kind Kind
	ID   int64
}

// Level is a user's permission level on a resource.
type Level int

const (
	LevelNone Level = iota
	LevelRead
	LevelWrite
	LevelOwner
)

func (l Level) String() string {
	switch l {
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelOwner:
		return "owner"
	default:
		return "none"
	}
}

// LevelStore resolves a user's permission level for one resource kind.
// Account memberships map member -> read and owner -> owner (accounts
// have no write-sharing: membership is collaborative visibility only).
// Budgets map owner -> owner, can_write shares -> write, plain
// shares -> read.
type LevelStore interface {
	Level(ctx context.Context, userID, resourceID int64) (Level, error)
}

// Evaluator answers read/write/ownership questions for shared resources.
// Every mutating operation on a shared resource must pass through it
// before touching storage.
type Evaluator struct {
	accounts LevelStore
	budgets  LevelStore
}

// NewEvaluator creates an Evaluator over the two level stores.
func NewEvaluator(accounts, budgets LevelStore) *Evaluator {
	return &Evaluator{accounts: accounts, budgets: budgets}
}

// CanRead reports whether the user may see the resource: any membership
// or share record grants read.
func (e *Evaluator) CanRead(ctx context.Context, userID int64, res Resource) (bool, error) {
	level, err := e.level(ctx, userID, res)
	if err != nil {
		return false, err
	}
	return level >= LevelRead, nil
}

// CanWrite reports whether the user may mutate content under the
// resource. For accounts only the owner qualifies; for budgets the owner
// or a write-flagged share does.
func (e *Evaluator) CanWrite(ctx context.Context, userID int64, res Resource) (bool, error) {
	level, err := e.level(ctx, userID, res)
	if err != nil {
		return false, err
	}

	if res.Kind == KindAccount {
		return level >= LevelOwner, nil
	}
	return level >= LevelWrite, nil
}

// IsOwner reports whether the user owns the resource.
func (e *Evaluator) IsOwner(ctx context.Context, userID int64, res Resource) (bool, error) {
	level, err := e.level(ctx, userID, res)
	if err != nil {
		return false, err
	}
	return level >= LevelOwner, nil
}

func (e *Evaluator) level(ctx context.Context, userID int64, res Resource) (Level, error) {
	switch res.Kind {
	case KindAccount:
		return e.accounts.Level(ctx, userID, res.ID)
	case KindBudget:
		return e.budgets.Level(ctx, userID, res.ID)
	default:
		return LevelNone, fmt.Errorf("unknown resource kind: %q", res.Kind)
	}
}
