// Package store is the in-memory credential and record store. It owns every
// Account and Customer; callers only ever get copies back.
//
// Lookups are linear scans in insertion order. Ids come from per-entity
// counters that start at 1 and are never reused.
package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/commsshield/internal/common"
)

// Store holds every record in memory. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	accounts  []Account
	customers []Customer
	packages  []Package
	sectors   []Sector

	nextAccountID  int
	nextCustomerID int
}

// New returns a store preloaded with the package and sector catalogs and no
// accounts or customers.
func New() *Store {
	return &Store{
		packages:       defaultPackages(),
		sectors:        defaultSectors(),
		nextAccountID:  1,
		nextCustomerID: 1,
	}
}

// FindByUsername returns a copy of the account registered as username, or
// common.ErrorNotFound.
func (s *Store) FindByUsername(username string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexBy(func(a *Account) bool { return a.Username == username })
	if i < 0 {
		return Account{}, common.ErrorNotFound
	}
	return s.accounts[i].clone(), nil
}

// FindByEmail returns the first account registered with email.
func (s *Store) FindByEmail(email string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexBy(func(a *Account) bool { return a.Email == email })
	if i < 0 {
		return Account{}, common.ErrorNotFound
	}
	return s.accounts[i].clone(), nil
}

// InsertAccount assigns the next id and stores a copy of a. The username
// must be unused.
func (s *Store) InsertAccount(a Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexBy(func(x *Account) bool { return x.Username == a.Username }) >= 0 {
		return Account{}, fmt.Errorf("username %q: %w", a.Username, common.ErrorAlreadyExists)
	}

	a.ID = s.nextAccountID
	s.nextAccountID++
	s.accounts = append(s.accounts, a.clone())
	return a.clone(), nil
}

// UpdateAccountFunc applies fn to the account named username while holding
// the write lock, so concurrent updates of one account never interleave.
//
// fn works on a copy. If fn returns an error nothing is stored and that error
// is returned unchanged. Id and username are identity; fn may not change them.
//
// Returns the stored copy after the update, or common.ErrorNotFound.
func (s *Store) UpdateAccountFunc(username string, fn func(*Account) error) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexBy(func(x *Account) bool { return x.Username == username })
	if i < 0 {
		return Account{}, common.ErrorNotFound
	}

	updated := s.accounts[i].clone()
	if err := fn(&updated); err != nil {
		return Account{}, err
	}
	if updated.ID != s.accounts[i].ID || updated.Username != username {
		return Account{}, fmt.Errorf("account %d: id and username are immutable", s.accounts[i].ID)
	}

	s.accounts[i] = updated.clone()
	return updated, nil
}

// AccountCount returns the number of stored accounts.
func (s *Store) AccountCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// InsertCustomer assigns the next customer id and stores c.
func (s *Store) InsertCustomer(c Customer) Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextCustomerID
	s.nextCustomerID++
	s.customers = append(s.customers, c)
	return c
}

// ListCustomers returns all customers in insertion order.
func (s *Store) ListCustomers() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.customers)
}

// ListPackages returns the package catalog in id order.
func (s *Store) ListPackages() []Package {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.packages)
}

// ListSectors returns the sector catalog in id order.
func (s *Store) ListSectors() []Sector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sectors)
}

// PackageByID looks a package up by id, or returns common.ErrorNotFound.
func (s *Store) PackageByID(id int) (Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.packages {
		if p.ID == id {
			return p, nil
		}
	}
	return Package{}, common.ErrorNotFound
}

// SectorByID looks a sector up by id, or returns common.ErrorNotFound.
func (s *Store) SectorByID(id int) (Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sec := range s.sectors {
		if sec.ID == id {
			return sec, nil
		}
	}
	return Sector{}, common.ErrorNotFound
}

// indexBy must be called with mu held.
func (s *Store) indexBy(match func(*Account) bool) int {
	for i := range s.accounts {
		if match(&s.accounts[i]) {
			return i
		}
	}
	return -1
}
