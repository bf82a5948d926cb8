package usecase_test

import (
	"context"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/email"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
)

type fakeUserRepo struct {
	create           func(ctx context.Context, u *domain.User) (*domain.User, error)
	findByID         func(ctx context.Context, id string) (*domain.User, error)
	findByEmail      func(ctx context.Context, email string) (*domain.User, error)
	updatePassword   func(ctx context.Context, id, passwordHash string) error
	updateName       func(ctx context.Context, id string, firstName, lastName *string) error
	deleteUser       func(ctx context.Context, id string) error
	createResetToken func(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	claimResetToken  func(ctx context.Context, tokenHash string) (*domain.ResetToken, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.create(ctx, u)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updatePassword(ctx, id, passwordHash)
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id string, firstName, lastName *string) error {
	return r.updateName(ctx, id, firstName, lastName)
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return r.deleteUser(ctx, id)
}

func (r *fakeUserRepo) CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.createResetToken(ctx, userID, tokenHash, expiresAt)
}

func (r *fakeUserRepo) ClaimResetToken(ctx context.Context, tokenHash string) (*domain.ResetToken, error) {
	return r.claimResetToken(ctx, tokenHash)
}

type fakeOrderRepo struct {
	create        func(ctx context.Context, o *domain.Order) (*domain.Order, error)
	getByID       func(ctx context.Context, id, userID string) (*domain.Order, error)
	getByIDAny    func(ctx context.Context, id string) (*domain.Order, error)
	list          func(ctx context.Context, input repository.ListOrdersInput) ([]*domain.Order, error)
	updateProduct func(ctx context.Context, id, userID, product string) error
	setStatus     func(ctx context.Context, id, userID string, from, to domain.OrderStatus) error
	deletePending func(ctx context.Context, id, userID string) error
	setRating     func(ctx context.Context, id, userID string, rating int) error
	setReview     func(ctx context.Context, id, userID, review string) error
	ship          func(ctx context.Context, id, trackingNumber string) (*domain.Shipment, error)
	deliver       func(ctx context.Context, id string) error
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	return r.create(ctx, o)
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	return r.getByID(ctx, id, userID)
}

func (r *fakeOrderRepo) GetByIDAny(ctx context.Context, id string) (*domain.Order, error) {
	return r.getByIDAny(ctx, id)
}

func (r *fakeOrderRepo) List(ctx context.Context, input repository.ListOrdersInput) ([]*domain.Order, error) {
	return r.list(ctx, input)
}

func (r *fakeOrderRepo) UpdateProduct(ctx context.Context, id, userID, product string) error {
	return r.updateProduct(ctx, id, userID, product)
}

func (r *fakeOrderRepo) SetStatus(ctx context.Context, id, userID string, from, to domain.OrderStatus) error {
	return r.setStatus(ctx, id, userID, from, to)
}

func (r *fakeOrderRepo) DeletePending(ctx context.Context, id, userID string) error {
	return r.deletePending(ctx, id, userID)
}

func (r *fakeOrderRepo) SetRating(ctx context.Context, id, userID string, rating int) error {
	return r.setRating(ctx, id, userID, rating)
}

func (r *fakeOrderRepo) SetReview(ctx context.Context, id, userID, review string) error {
	return r.setReview(ctx, id, userID, review)
}

func (r *fakeOrderRepo) Ship(ctx context.Context, id, trackingNumber string) (*domain.Shipment, error) {
	return r.ship(ctx, id, trackingNumber)
}

func (r *fakeOrderRepo) Deliver(ctx context.Context, id string) error {
	return r.deliver(ctx, id)
}

type fakeShipmentRepo struct {
	getByTrackingNumber func(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	getByOrderID        func(ctx context.Context, orderID string) (*domain.Shipment, error)
}

func (r *fakeShipmentRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return r.getByTrackingNumber(ctx, trackingNumber)
}

func (r *fakeShipmentRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error) {
	return r.getByOrderID(ctx, orderID)
}

type fakeEmailSender struct {
	send func(ctx context.Context, msg email.Message) error
}

func (s *fakeEmailSender) Send(ctx context.Context, msg email.Message) error {
	return s.send(ctx, msg)
}
