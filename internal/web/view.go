package web

import (
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/authstate"
	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/usecase"
)

// Layout is the chrome shared by every page: title, nav state and footer year.
type Layout struct {
	Title    string
	Page     Page
	Year     int
	SignedIn bool
	User     *domain.User
}

// Form carries what a re-rendered form needs: the error, a notice and the
// values to refill.
type Form struct {
	Error     string
	Notice    string
	Email     string
	FirstName string
	LastName  string
	Token     string
	Product   string
}

type pageData struct {
	Layout Layout
	Form   Form

	Orders         []*domain.Order
	StatusFilter   string
	Details        *usecase.OrderDetails
	Shipment       *domain.Shipment
	TrackingNumber string
	Profile        *domain.User
}

// newPageData builds the view for route from the session state. The state is
// passed in explicitly; templates never reach for it themselves.
func newPageData(route Route, state *authstate.State, now time.Time) *pageData {
	d := &pageData{
		Layout: Layout{
			Title: route.Title,
			Page:  route.Page,
			Year:  now.Year(),
		},
	}
	if state != nil {
		d.Layout.User, d.Layout.SignedIn = state.User()
	}
	return d
}
