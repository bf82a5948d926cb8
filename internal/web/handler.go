package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/authstate"
	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/metrics"
	"github.com/ErlanBelekov/order-tracker/internal/requestid"
	"github.com/ErlanBelekov/order-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "ot_session"
	stateKey      = "authState"
	sessionIDKey  = "sessionID"
)

// Point-of-use views of the use cases, so tests can inject fakes.

type authenticator interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type orderReader interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string, statuses ...domain.OrderStatus) ([]*domain.Order, error)
	OrderHistory(ctx context.Context, userID string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id, userID string) (*usecase.OrderDetails, error)
}

type shipmentTracker interface {
	Track(ctx context.Context, userID, trackingNumber string) (*domain.Shipment, error)
}

type profileEditor interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error)
}

type sessionStore interface {
	Open(id string) (*authstate.State, string, error)
	Persist(st *authstate.State) (string, error)
}

type Deps struct {
	Sessions      sessionStore
	Auth          authenticator
	Orders        orderReader
	Shipments     shipmentTracker
	Users         profileEditor
	SecureCookies bool
}

// Handler serves the server-rendered pages.
type Handler struct {
	Deps
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(deps Deps, logger *slog.Logger) *Handler {
	return &Handler{
		Deps:   deps,
		logger: logger.With("component", "web"),
		now:    time.Now,
	}
}

// Register wires the page routes and form posts onto r.
// onLogin runs before the login form handler (rate limiting).
func (h *Handler) Register(r gin.IRoutes, onLogin ...gin.HandlerFunc) {
	for _, route := range Routes {
		r.GET(route.Path, h.Page)
	}
	r.POST("/login", append(onLogin, h.Login)...)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)
	r.POST("/reset-password", h.ResetPassword)
	r.POST("/orders", h.CreateOrder)
	r.POST("/profile", h.UpdateProfile)
}

// Session attaches the browser session's auth state to the gin context.
// Visitors without a known cookie get a transient anonymous state; the
// session is stored and the cookie issued only when they sign in.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		state, sessionID, err := h.Sessions.Open(id)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "open session", "error", err)
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		if id != "" && sessionID == "" {
			// Swept or forged; drop it so the browser stops sending it.
			h.setSessionCookie(c, "", -1)
		}
		if u, ok := state.User(); ok {
			c.Request = c.Request.WithContext(requestid.WithUserID(c.Request.Context(), u.ID))
		}
		c.Set(stateKey, state)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", h.SecureCookies, true)
}

// persist stores a transient state and issues its cookie. Known sessions are
// left as they are.
func (h *Handler) persist(c *gin.Context, state *authstate.State) error {
	if c.GetString(sessionIDKey) != "" {
		return nil
	}
	id, err := h.Sessions.Persist(state)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, id, 0)
	c.Set(sessionIDKey, id)
	return nil
}

// StateFrom returns the session state set by Session.
func StateFrom(c *gin.Context) *authstate.State {
	v, ok := c.Get(stateKey)
	if !ok {
		return nil
	}
	st, _ := v.(*authstate.State)
	return st
}

// Page renders the page for the request path.
func (h *Handler) Page(c *gin.Context) {
	route := Resolve(c.Request.URL.Path)
	state := StateFrom(c)
	data := newPageData(route, state, h.now())

	status := http.StatusOK
	switch route.Page {
	case PageOrders:
		status = h.loadOrders(c, data)
	case PageOrderDetails:
		status = h.loadOrderDetails(c, data)
		if status == http.StatusNotFound {
			h.render(c, status, newPageData(Resolve(""), state, h.now()))
			return
		}
	case PageOrderHistory:
		status = h.loadHistory(c, data)
	case PageProfile:
		status = h.loadProfile(c, data)
	case PageTrackOrder:
		status = h.loadTracking(c, data)
	case PageResetPassword:
		data.Form.Token = c.Query("token")
	case PageNotFound:
		status = http.StatusNotFound
	}
	h.render(c, status, data)
}

// Fallback handles paths no route matched. GET requests are resolved against
// the page table, so a path with a trailing slash still finds its page;
// everything else is NotFound.
func (h *Handler) Fallback(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		h.Page(c)
		return
	}
	h.NotFound(c)
}

// NotFound renders the NotFound page with a 404.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, newPageData(Resolve(""), StateFrom(c), h.now()))
}

func (h *Handler) render(c *gin.Context, status int, data *pageData) {
	c.HTML(status, string(data.Layout.Page), data)
}

func (h *Handler) internalError(c *gin.Context, data *pageData, msg string, err error) int {
	h.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	data.Form.Error = msgInternal
	return http.StatusInternalServerError
}

// loadError handles a failed lookup for a signed-in page. A user that no
// longer exists is logged out and sees the sign-in prompt.
func (h *Handler) loadError(c *gin.Context, data *pageData, msg string, err error) int {
	if !errors.Is(err, domain.ErrUserNotFound) {
		return h.internalError(c, data, msg, err)
	}
	h.logger.WarnContext(c.Request.Context(), "session user no longer exists",
		"user_id", data.Layout.User.ID)
	if state := StateFrom(c); state != nil {
		state.Logout()
	}
	data.Layout.SignedIn, data.Layout.User = false, nil
	data.Form = Form{}
	return http.StatusOK
}

func (h *Handler) loadOrders(c *gin.Context, data *pageData) int {
	if !data.Layout.SignedIn {
		return http.StatusOK
	}
	var statuses []domain.OrderStatus
	if s := c.Query("status"); s != "" {
		data.StatusFilter = s
		statuses = append(statuses, domain.OrderStatus(s))
	}
	orders, err := h.Orders.ListOrders(c.Request.Context(), data.Layout.User.ID, statuses...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			data.Form.Error = msgInvalidStatus
			return http.StatusBadRequest
		}
		return h.loadError(c, data, "list orders", err)
	}
	data.Orders = orders
	return http.StatusOK
}

func (h *Handler) loadOrderDetails(c *gin.Context, data *pageData) int {
	if !data.Layout.SignedIn {
		return http.StatusOK
	}
	id := c.Query("id")
	if id == "" {
		return http.StatusNotFound
	}
	details, err := h.Orders.GetOrder(c.Request.Context(), id, data.Layout.User.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return http.StatusNotFound
		}
		return h.loadError(c, data, "get order", err)
	}
	data.Details = details
	return http.StatusOK
}

func (h *Handler) loadHistory(c *gin.Context, data *pageData) int {
	if !data.Layout.SignedIn {
		return http.StatusOK
	}
	orders, err := h.Orders.OrderHistory(c.Request.Context(), data.Layout.User.ID)
	if err != nil {
		return h.loadError(c, data, "order history", err)
	}
	data.Orders = orders
	return http.StatusOK
}

func (h *Handler) loadProfile(c *gin.Context, data *pageData) int {
	if !data.Layout.SignedIn {
		return http.StatusOK
	}
	user, err := h.Users.Profile(c.Request.Context(), data.Layout.User.ID)
	if err != nil {
		return h.loadError(c, data, "load profile", err)
	}
	data.Profile = user
	data.Form.FirstName, data.Form.LastName = user.FirstName, user.LastName
	return http.StatusOK
}

func (h *Handler) loadTracking(c *gin.Context, data *pageData) int {
	data.TrackingNumber = strings.TrimSpace(c.Query("tracking_number"))
	if !data.Layout.SignedIn || data.TrackingNumber == "" {
		return http.StatusOK
	}
	shipment, err := h.Shipments.Track(c.Request.Context(), data.Layout.User.ID, data.TrackingNumber)
	switch {
	case err == nil:
		data.Shipment = shipment
		return http.StatusOK
	case errors.Is(err, domain.ErrShipmentNotFound):
		data.Form.Error = msgShipmentNotFound
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		data.Form.Error = msgShipmentForbidden
		return http.StatusForbidden
	default:
		return h.loadError(c, data, "track shipment", err)
	}
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	state := StateFrom(c)
	data := newPageData(Resolve("/login"), state, h.now())
	email, password := strings.TrimSpace(c.PostForm("email")), c.PostForm("password")
	data.Form.Email = email

	if email == "" || password == "" {
		data.Form.Error = msgMissingCredentials
		h.render(c, http.StatusBadRequest, data)
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), email, password)
	metrics.AuthEvent("web_login", err)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			data.Form.Error = msgInvalidCredentials
			h.render(c, http.StatusUnauthorized, data)
			return
		}
		h.render(c, h.internalError(c, data, "login", err), data)
		return
	}

	h.signIn(c, state, res.User, data)
}

// LoginThrottled answers a rate-limited login post with the form and a 429.
func (h *Handler) LoginThrottled(c *gin.Context) {
	data := newPageData(Resolve("/login"), StateFrom(c), h.now())
	data.Form.Email = strings.TrimSpace(c.PostForm("email"))
	data.Form.Error = msgTooManyAttempts
	h.render(c, http.StatusTooManyRequests, data)
	c.Abort()
}

// POST /signup
func (h *Handler) Signup(c *gin.Context) {
	state := StateFrom(c)
	data := newPageData(Resolve("/signup"), state, h.now())
	input := usecase.SignupInput{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
	}
	data.Form.FirstName, data.Form.LastName, data.Form.Email = input.FirstName, input.LastName, input.Email

	res, err := h.Auth.Signup(c.Request.Context(), input)
	metrics.AuthEvent("web_signup", err)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrNameMissing):
			data.Form.Error = msgNameMissing
		case errors.Is(err, domain.ErrInvalidEmail):
			data.Form.Error = msgInvalidEmail
		case errors.Is(err, domain.ErrWeakPassword):
			data.Form.Error = msgWeakPassword
		case errors.Is(err, domain.ErrEmailTaken):
			data.Form.Error = msgEmailTaken
			status = http.StatusConflict
		default:
			status = h.internalError(c, data, "signup", err)
		}
		h.render(c, status, data)
		return
	}

	h.signIn(c, state, res.User, data)
}

func (h *Handler) signIn(c *gin.Context, state *authstate.State, user *domain.User, data *pageData) {
	if state == nil {
		h.render(c, h.internalError(c, data, "sign in", errors.New("no session state")), data)
		return
	}
	if err := h.persist(c, state); err != nil {
		h.render(c, h.internalError(c, data, "persist session", err), data)
		return
	}
	if err := state.SignIn(user); err != nil {
		h.render(c, h.internalError(c, data, "sign in", err), data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /logout
func (h *Handler) Logout(c *gin.Context) {
	if state := StateFrom(c); state != nil {
		state.Logout()
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /reset-password handles both steps: with a token it sets the new
// password, otherwise it sends the reset email.
func (h *Handler) ResetPassword(c *gin.Context) {
	data := newPageData(Resolve("/reset-password"), StateFrom(c), h.now())
	ctx := c.Request.Context()

	if token := c.PostForm("token"); token != "" {
		err := h.Auth.ResetPassword(ctx, token, c.PostForm("new_password"))
		metrics.AuthEvent("web_password_reset", err)
		switch {
		case err == nil:
			data.Form.Notice = msgResetDone
			h.render(c, http.StatusOK, data)
		case errors.Is(err, domain.ErrWeakPassword):
			data.Form.Token = token
			data.Form.Error = msgWeakPassword
			h.render(c, http.StatusBadRequest, data)
		case errors.Is(err, domain.ErrTokenInvalid):
			data.Form.Error = msgResetInvalid
			h.render(c, http.StatusBadRequest, data)
		default:
			h.render(c, h.internalError(c, data, "reset password", err), data)
		}
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	if err := h.Auth.RequestPasswordReset(ctx, email); err != nil {
		h.logger.ErrorContext(ctx, "request password reset", "error", err)
	}
	data.Form.Notice = msgResetSent
	h.render(c, http.StatusOK, data)
}

// POST /orders
func (h *Handler) CreateOrder(c *gin.Context) {
	data := newPageData(Resolve("/orders"), StateFrom(c), h.now())
	if !data.Layout.SignedIn {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	quantity := 0
	if q := strings.TrimSpace(c.PostForm("quantity")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			n = -1
		}
		quantity = n
	}

	_, err := h.Orders.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		UserID:   data.Layout.User.ID,
		Product:  c.PostForm("product"),
		Quantity: quantity,
	})
	if err != nil {
		data.Form.Product = c.PostForm("product")
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrProductRequired):
			data.Form.Error = msgProductRequired
		case errors.Is(err, domain.ErrInvalidQuantity):
			data.Form.Error = msgInvalidQuantity
		case errors.Is(err, domain.ErrUserNotFound):
			h.loadError(c, data, "create order", err)
			c.Redirect(http.StatusSeeOther, "/login")
			return
		default:
			status = h.internalError(c, data, "create order", err)
		}
		h.render(c, status, data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders")
}

// POST /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	state := StateFrom(c)
	data := newPageData(Resolve("/profile"), state, h.now())
	if !data.Layout.SignedIn {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), data.Layout.User.ID,
		c.PostForm("first_name"), c.PostForm("last_name"))
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			data.Form.Error = msgNameRequired
		case errors.Is(err, domain.ErrUserNotFound):
			h.loadError(c, data, "update profile", err)
			c.Redirect(http.StatusSeeOther, "/login")
			return
		default:
			status = h.internalError(c, data, "update profile", err)
		}
		h.render(c, status, data)
		return
	}

	// Keep the session's copy of the user in step with the profile.
	if err := state.SignIn(user); err != nil {
		h.logger.WarnContext(c.Request.Context(), "refresh session user", "error", err)
	}
	data = newPageData(Resolve("/profile"), state, h.now())
	data.Profile = user
	data.Form.FirstName, data.Form.LastName = user.FirstName, user.LastName
	data.Form.Notice = msgProfileSaved
	h.render(c, http.StatusOK, data)
}
