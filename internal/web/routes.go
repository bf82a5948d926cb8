package web

import "strings"

// Page names one renderable page. It doubles as the template name.
type Page string

const (
	PageHome          Page = "home"
	PageLogin         Page = "login"
	PageSignup        Page = "signup"
	PageOrders        Page = "orders"
	PageOrderDetails  Page = "orderdetails"
	PageOrderHistory  Page = "orderhistory"
	PageProfile       Page = "profile"
	PageTrackOrder    Page = "trackorder"
	PageResetPassword Page = "resetpassword"
	PageNotFound      Page = "notfound"
)

type Route struct {
	Path  string
	Page  Page
	Title string
}

// Routes is the page table. Paths are matched exactly; "/sorder-history" is
// the published path and is kept as is.
var Routes = []Route{
	{Path: "/", Page: PageHome, Title: "Home"},
	{Path: "/login", Page: PageLogin, Title: "Login"},
	{Path: "/signup", Page: PageSignup, Title: "Sign Up"},
	{Path: "/orders", Page: PageOrders, Title: "Orders"},
	{Path: "/orderdetails", Page: PageOrderDetails, Title: "Order Details"},
	{Path: "/sorder-history", Page: PageOrderHistory, Title: "Order History"},
	{Path: "/profile", Page: PageProfile, Title: "Profile"},
	{Path: "/trackorder", Page: PageTrackOrder, Title: "Track Order"},
	{Path: "/reset-password", Page: PageResetPassword, Title: "Reset Password"},
}

var notFoundRoute = Route{Page: PageNotFound, Title: "Page Not Found"}

var routeIndex = func() map[string]Route {
	m := make(map[string]Route, len(Routes))
	for _, r := range Routes {
		m[r.Path] = r
	}
	return m
}()

// Resolve maps a request path to its route. A trailing slash is ignored.
// Anything not in Routes resolves to the NotFound page.
func Resolve(path string) Route {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	if r, ok := routeIndex[path]; ok {
		return r
	}
	nf := notFoundRoute
	nf.Path = path
	return nf
}

// Pages lists every page that has a template, NotFound included.
func Pages() []Page {
	pages := make([]Page, 0, len(Routes)+1)
	for _, r := range Routes {
		pages = append(pages, r.Page)
	}
	return append(pages, PageNotFound)
}
