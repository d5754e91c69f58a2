package identity

import (
	"strings"
	"sync"
	"time"
)

// User is a stored account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

func (u User) toDTO() *UserDTO {
	return &UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Directory is an in-memory user table keyed by normalized email.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

func NewDirectory() *Directory {
	return &Directory{byEmail: map[string]User{}}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns the user for email.
func (d *Directory) FindByEmail(email string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byEmail[normalizeEmail(email)]
	return u, ok
}

// Insert adds u unless its email is taken.
func (d *Directory) Insert(u User) bool {
	key := normalizeEmail(u.Email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[key]; exists {
		return false
	}
	u.Email = key
	d.byEmail[key] = u
	return true
}

// RecordLogin stamps the last login time.
func (d *Directory) RecordLogin(email string, at time.Time) {
	key := normalizeEmail(email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.byEmail[key]; ok {
		u.LastLoginAt = &at
		d.byEmail[key] = u
	}
}

// SetPasswordHash replaces the stored hash for email.
func (d *Directory) SetPasswordHash(email, hash string) {
	key := normalizeEmail(email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.byEmail[key]; ok {
		u.PasswordHash = hash
		d.byEmail[key] = u
	}
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byEmail)
}
