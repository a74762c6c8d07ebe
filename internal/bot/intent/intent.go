// Package intent defines every user action the bot understands as a closed
// set of typed values, plus the callback-data codec used on the wire.
package intent

import (
	"concierge-bot/internal/features/order/models"
)

// Intent is implemented only by the types in this package.
type Intent interface {
	intent()
}

// AdminRef carries the list position an admin came from so "back" can
// rebuild the same page.
type AdminRef struct {
	Group  models.Group
	ItemID uint
	Page   int
}

type (
	MainMenu         struct{}
	About            struct{}
	BrowseCategories struct{}
	SelectCategory   struct{ CategoryID uint }
	SelectItem       struct {
		CategoryID uint
		Index      int
	}
	Confirm struct {
		CategoryID uint
		Index      int
	}
	StartCustomRequest struct{}

	MyOrders    struct{}
	ListOrders  struct{ Group models.Group }
	OrderDetail struct{ Code string }
	Reorder     struct{ Code string }

	AdminMenu  struct{}
	AdminGroup struct{ Group models.Group }
	AdminItem  struct{ Ref AdminRef }
	AdminOrder struct {
		Code string
		Ref  AdminRef
	}
	StatusMenu struct {
		Code string
		Ref  AdminRef
	}
	SetStatus struct {
		Code   string
		Status string
		Ref    AdminRef
	}

	UsersPage  struct{ Page int }
	UserDetail struct {
		UserID int64
		Page   int
	}
	SetRole struct {
		UserID int64
		Role   string
		Page   int
	}

	// Noop is attached to informational buttons such as page counters.
	Noop struct{}
)

func (MainMenu) intent()           {}
func (About) intent()              {}
func (BrowseCategories) intent()   {}
func (SelectCategory) intent()     {}
func (SelectItem) intent()         {}
func (Confirm) intent()            {}
func (StartCustomRequest) intent() {}
func (MyOrders) intent()           {}
func (ListOrders) intent()         {}
func (OrderDetail) intent()        {}
func (Reorder) intent()            {}
func (AdminMenu) intent()          {}
func (AdminGroup) intent()         {}
func (AdminItem) intent()          {}
func (AdminOrder) intent()         {}
func (StatusMenu) intent()         {}
func (SetStatus) intent()          {}
func (UsersPage) intent()          {}
func (UserDetail) intent()         {}
func (SetRole) intent()            {}
func (Noop) intent()               {}
