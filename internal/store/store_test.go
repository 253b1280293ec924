package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/commsshield/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsCatalog(t *testing.T) {
	s := New()

	pkgs := s.ListPackages()
	require.Len(t, pkgs, 4)
	assert.Equal(t, "Basic", pkgs[0].Name)
	assert.Equal(t, "1 Gbps", pkgs[3].Speed)

	secs := s.ListSectors()
	require.Len(t, secs, 4)
	assert.Equal(t, "Government", secs[3].Name)

	assert.Equal(t, 0, s.AccountCount())
	assert.Empty(t, s.ListCustomers())
}

func TestInsertAccount_AssignsSequentialIDs(t *testing.T) {
	s := New()

	a, err := s.InsertAccount(Account{Username: "alice", Email: "a@x.io"})
	require.NoError(t, err)
	b, err := s.InsertAccount(Account{Username: "bob", Email: "b@x.io", ID: 99})
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID, "caller-supplied id is ignored")
	assert.Equal(t, 2, s.AccountCount())
}

func TestInsertAccount_DuplicateUsername(t *testing.T) {
	s := New()
	_, err := s.InsertAccount(Account{Username: "alice"})
	require.NoError(t, err)

	_, err = s.InsertAccount(Account{Username: "alice", Email: "other@x.io"})
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
	assert.Equal(t, 1, s.AccountCount())

	c, err := s.InsertAccount(Account{Username: "carol"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.ID, "failed insert does not burn an id")
}

func TestFind(t *testing.T) {
	s := New()
	_, err := s.InsertAccount(Account{Username: "alice", Email: "shared@x.io"})
	require.NoError(t, err)
	_, err = s.InsertAccount(Account{Username: "bob", Email: "shared@x.io"})
	require.NoError(t, err)

	a, err := s.FindByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, 2, a.ID)

	byEmail, err := s.FindByEmail("shared@x.io")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.Username, "first match in insertion order")

	_, err = s.FindByUsername("nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.FindByEmail("nobody@x.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReturnedAccountsAreCopies(t *testing.T) {
	s := New()
	a, err := s.InsertAccount(Account{Username: "alice", History: []string{"h1"}})
	require.NoError(t, err)

	a.History[0] = "tampered"
	a.Locked = true

	got, err := s.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, got.History)
	assert.False(t, got.Locked)

	got.History = append(got.History, "h2")
	again, _ := s.FindByUsername("alice")
	assert.Len(t, again.History, 1)
}

func TestUpdateAccountFunc(t *testing.T) {
	s := New()
	_, err := s.InsertAccount(Account{Username: "alice", History: []string{"h1"}})
	require.NoError(t, err)

	got, err := s.UpdateAccountFunc("alice", func(a *Account) error {
		a.FailedLogins = 2
		a.PushHistory("h2", 3)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.FailedLogins)

	stored, _ := s.FindByUsername("alice")
	assert.Equal(t, 2, stored.FailedLogins)
	assert.Equal(t, []string{"h1", "h2"}, stored.History)

	got.History[0] = "tampered"
	stored, _ = s.FindByUsername("alice")
	assert.Equal(t, "h1", stored.History[0], "returned account is a copy")
}

func TestUpdateAccountFunc_NothingStoredOnError(t *testing.T) {
	s := New()
	_, err := s.InsertAccount(Account{Username: "alice"})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.UpdateAccountFunc("alice", func(a *Account) error {
		a.Locked = true
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.UpdateAccountFunc("alice", func(a *Account) error {
		a.Username = "mallory"
		a.Locked = true
		return nil
	})
	assert.Error(t, err)

	stored, _ := s.FindByUsername("alice")
	assert.False(t, stored.Locked)

	_, err = s.UpdateAccountFunc("ghost", func(*Account) error { return nil })
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateAccountFunc_ConcurrentIncrements(t *testing.T) {
	s := New()
	_, err := s.InsertAccount(Account{Username: "alice"})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateAccountFunc("alice", func(a *Account) error {
				a.FailedLogins++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, _ := s.FindByUsername("alice")
	assert.Equal(t, n, stored.FailedLogins)
}

func TestCustomers(t *testing.T) {
	s := New()
	c1 := s.InsertCustomer(Customer{Name: "one", PackageID: 1, SectorID: 9})
	c2 := s.InsertCustomer(Customer{Name: "two"})

	assert.Equal(t, 1, c1.ID)
	assert.Equal(t, 2, c2.ID)

	list := s.ListCustomers()
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Name)
	assert.Equal(t, 9, list[0].SectorID, "references are not validated")

	list[0].Name = "changed"
	assert.Equal(t, "one", s.ListCustomers()[0].Name)
}

func TestCatalogLookup(t *testing.T) {
	s := New()

	p, err := s.PackageByID(3)
	require.NoError(t, err)
	assert.Equal(t, "Premium", p.Name)

	sec, err := s.SectorByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Small Business", sec.Name)

	_, err = s.PackageByID(7)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.SectorByID(0)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAccount_History(t *testing.T) {
	var a Account
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5"} {
		a.PushHistory(h, 3)
		assert.LessOrEqual(t, len(a.History), 3)
	}
	assert.Equal(t, []string{"h3", "h4", "h5"}, a.History)
	assert.True(t, a.InHistory("h4"))
	assert.False(t, a.InHistory("h1"))
}

func TestAccount_ResetTokenAndStatus(t *testing.T) {
	a := Account{ResetToken: "tok", ResetTokenExpiry: time.Unix(100, 0)}
	assert.True(t, a.HasResetToken())

	a.ClearResetToken()
	assert.False(t, a.HasResetToken())
	assert.Equal(t, "", a.ResetToken)
	assert.True(t, a.ResetTokenExpiry.IsZero())

	assert.Equal(t, StatusActive, a.Status())
	a.Locked = true
	assert.Equal(t, StatusLocked, a.Status())
}
