package wenyan

import "time"

// GuestRole is the role name the backend assigns to anonymous callers.
const GuestRole = "Guest"

// Role is an account tier with its daily coin allowance.
type Role struct {
	ID         string
	Name       string
	DailyCoins int64
}

// User is the authenticated account, or the guest placeholder.
type User struct {
	ID         string
	Name       string
	Email      string
	TotalSpent int64
	Balance    int64
	Role       Role
	LastActive time.Time
}

// GuestUser returns the placeholder user used before login.
func GuestUser() User {
	return User{Role: Role{Name: GuestRole}}
}

// IsGuest reports whether u is an anonymous caller.
func (u User) IsGuest() bool {
	return u.Role.Name == "" || u.Role.Name == GuestRole
}

// BalanceDetail is one ledger entry of an account's balance history.
type BalanceDetail struct {
	ID        string
	Created   string
	Delta     int64
	Remaining int64
	Reason    string
}

// BalancePage is one page of balance history.
type BalancePage struct {
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
	Items      []BalanceDetail
}

// Auth is the result of a successful login or registration.
type Auth struct {
	Token string
	User  User
}
