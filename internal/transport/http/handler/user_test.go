package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeUserUsecase struct {
	profile       func(ctx context.Context, userID string) (*domain.User, error)
	updateProfile func(ctx context.Context, userID, firstName, lastName string) (*domain.User, error)
	deleteProfile func(ctx context.Context, userID, confirm string) error
}

func (f *fakeUserUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return f.profile(ctx, userID)
}

func (f *fakeUserUsecase) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	return f.updateProfile(ctx, userID, firstName, lastName)
}

func (f *fakeUserUsecase) DeleteProfile(ctx context.Context, userID, confirm string) error {
	return f.deleteProfile(ctx, userID, confirm)
}

func newUserEngine(uc *fakeUserUsecase) *gin.Engine {
	h := handler.NewUserHandler(uc, testLogger())
	r := gin.New()
	g := r.Group("/api/user", asUser("user-1"))
	g.GET("/profile", h.Profile)
	g.PUT("/profile_update", h.Update)
	g.DELETE("/profile_delete", h.Delete)
	return r
}

func TestUserProfile(t *testing.T) {
	uc := &fakeUserUsecase{
		profile: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "a@b.com", PasswordHash: "secret"}, nil
		},
	}
	w := doJSON(newUserEngine(uc), http.MethodGet, "/api/user/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	if body["email"] != "a@b.com" {
		t.Errorf("body = %v", body)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestUserUpdate_NothingToChange_Returns400(t *testing.T) {
	uc := &fakeUserUsecase{
		updateProfile: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrNameRequired
		},
	}
	w := doJSON(newUserEngine(uc), http.MethodPut, "/api/user/profile_update", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUserDelete(t *testing.T) {
	var gotConfirm string
	uc := &fakeUserUsecase{
		deleteProfile: func(_ context.Context, _, confirm string) error {
			gotConfirm = confirm
			if confirm != "yes" {
				return domain.ErrConfirmRequired
			}
			return nil
		},
	}
	r := newUserEngine(uc)

	if w := doJSON(r, http.MethodDelete, "/api/user/profile_delete", ""); w.Code != http.StatusBadRequest {
		t.Errorf("no body: status = %d, want 400", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/user/profile_delete", `{"confirm":"yes"}`); w.Code != http.StatusOK {
		t.Errorf("confirmed: status = %d, want 200", w.Code)
	}
	if gotConfirm != "yes" {
		t.Errorf("confirm = %q", gotConfirm)
	}
}
