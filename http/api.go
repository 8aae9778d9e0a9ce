package http

import (
	"time"

	"github.com/fwojciec/wenyan"
)

type extractRequest struct {
	Prompt string `json:"prompt"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adoptRequest struct {
	Q       string `json:"q"`
	Context string `json:"context"`
	Answer  string `json:"answer"`
}

type apiRole struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DailyCoins int64  `json:"daily_coins"`
}

type apiUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	TotalSpent int64     `json:"total_spent"`
	Balance    int64     `json:"balance"`
	Role       apiRole   `json:"role"`
	LastActive time.Time `json:"last_active"`
}

func (u apiUser) toUser() wenyan.User {
	return wenyan.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		TotalSpent: u.TotalSpent,
		Balance:    u.Balance,
		Role:       wenyan.Role{ID: u.Role.ID, Name: u.Role.Name, DailyCoins: u.Role.DailyCoins},
		LastActive: u.LastActive,
	}
}

type apiAuth struct {
	Token string  `json:"token"`
	User  apiUser `json:"user"`
}

type apiBalanceDetail struct {
	ID        string `json:"id"`
	Created   string `json:"created"`
	Delta     int64  `json:"delta"`
	Remaining int64  `json:"remaining"`
	Reason    string `json:"reason"`
}

type apiBalancePage struct {
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
	Items      []apiBalanceDetail `json:"items"`
}

func (p apiBalancePage) toPage() wenyan.BalancePage {
	items := make([]wenyan.BalanceDetail, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, wenyan.BalanceDetail{
			ID:        it.ID,
			Created:   it.Created,
			Delta:     it.Delta,
			Remaining: it.Remaining,
			Reason:    it.Reason,
		})
	}
	return wenyan.BalancePage{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		Items:      items,
	}
}
