// Package authz implements the override allow-list: which caller systems may
// force a status, and for which program scopes. Source secrets are stored as
// bcrypt hashes; plaintext never persists.
package authz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	dErrors "onboard/pkg/domain-errors"
)

// SourceEntry is one allow-list entry for a caller system.
type SourceEntry struct {
	Source     string
	SecretHash string
	// Programs the source may override. "*" grants every program.
	Programs map[string]bool
}

// AllowList is an in-memory Authorizer over registered source systems.
type AllowList struct {
	mu      sync.RWMutex
	entries map[string]SourceEntry
}

func NewAllowList() *AllowList {
	return &AllowList{entries: make(map[string]SourceEntry)}
}

// Register adds a source with its plaintext secret and allowed programs. The
// secret is hashed before storage.
func (a *AllowList) Register(source, secret string, programs []string) error {
	if source == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "source cannot be empty")
	}
	hash, err := hashSecret(secret)
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(programs))
	for _, p := range programs {
		set[p] = true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[source] = SourceEntry{Source: source, SecretHash: hash, Programs: set}
	return nil
}

// IsAllowed verifies the source secret and checks every requested program
// against the source's scope. Unknown sources and bad secrets both come back
// as a plain "not allowed" so callers cannot probe the allow-list.
func (a *AllowList) IsAllowed(_ context.Context, source, secret string, programScope []string) (bool, error) {
	a.mu.RLock()
	entry, ok := a.entries[source]
	a.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(entry.SecretHash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("verify source secret: %w", err)
	}
	if entry.Programs["*"] {
		return true, nil
	}
	for _, program := range programScope {
		if !entry.Programs[program] {
			return false, nil
		}
	}
	return len(programScope) > 0, nil
}

func hashSecret(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
		}
		return "", fmt.Errorf("hash source secret: %w", err)
	}
	return string(hashed), nil
}
