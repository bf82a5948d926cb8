package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
	"github.com/ErlanBelekov/order-tracker/internal/usecase"
)

type passthroughCleaner struct{}

func (passthroughCleaner) Review(raw string) string { return raw }

type recordingRecorder struct {
	got []domain.OrderStatus
}

func (r *recordingRecorder) OrderTransition(to domain.OrderStatus) {
	r.got = append(r.got, to)
}

func newOrderUsecase(orders *fakeOrderRepo, shipments *fakeShipmentRepo, users *fakeUserRepo, rec *recordingRecorder) *usecase.OrderUsecase {
	if shipments == nil {
		shipments = &fakeShipmentRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{}
	}
	if rec == nil {
		return usecase.NewOrderUsecase(orders, shipments, users, passthroughCleaner{}, nil)
	}
	return usecase.NewOrderUsecase(orders, shipments, users, passthroughCleaner{}, rec)
}

func ownedOrder(status domain.OrderStatus) func(context.Context, string, string) (*domain.Order, error) {
	return func(_ context.Context, id, userID string) (*domain.Order, error) {
		if userID != "user-1" {
			return nil, domain.ErrOrderNotFound
		}
		return &domain.Order{ID: id, UserID: userID, Product: "Laptop", Quantity: 1, Status: status}, nil
	}
}

// ---- CreateOrder ----

func TestCreateOrder_DefaultsQuantityAndStartsPending(t *testing.T) {
	var stored *domain.Order
	orders := &fakeOrderRepo{
		create: func(_ context.Context, o *domain.Order) (*domain.Order, error) {
			stored = o
			created := *o
			created.ID = "order-1"
			return &created, nil
		},
	}
	rec := &recordingRecorder{}

	got, err := newOrderUsecase(orders, nil, nil, rec).CreateOrder(context.Background(), usecase.CreateOrderInput{
		UserID:  "user-1",
		Product: "  Laptop ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "order-1" {
		t.Errorf("id = %q", got.ID)
	}
	if stored.Product != "Laptop" || stored.Quantity != 1 || stored.Status != domain.OrderPending {
		t.Errorf("stored = %+v", stored)
	}
	if len(rec.got) != 1 || rec.got[0] != domain.OrderPending {
		t.Errorf("recorded transitions = %v", rec.got)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	orders := &fakeOrderRepo{
		create: func(context.Context, *domain.Order) (*domain.Order, error) {
			t.Fatal("repository must not be called for invalid input")
			return nil, nil
		},
	}
	uc := newOrderUsecase(orders, nil, nil, nil)

	if _, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{UserID: "user-1", Product: " "}); !errors.Is(err, domain.ErrProductRequired) {
		t.Errorf("blank product: want ErrProductRequired, got %v", err)
	}
	if _, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{UserID: "user-1", Product: "Mouse", Quantity: -2}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("negative quantity: want ErrInvalidQuantity, got %v", err)
	}
}

// ---- ListOrders / OrderHistory ----

func TestOrderHistory_FiltersClosedStatuses(t *testing.T) {
	var captured repository.ListOrdersInput
	orders := &fakeOrderRepo{
		list: func(_ context.Context, input repository.ListOrdersInput) ([]*domain.Order, error) {
			captured = input
			return nil, nil
		},
	}

	if _, err := newOrderUsecase(orders, nil, nil, nil).OrderHistory(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.UserID != "user-1" {
		t.Errorf("user = %q", captured.UserID)
	}
	want := []domain.OrderStatus{domain.OrderDelivered, domain.OrderCanceled}
	if len(captured.Statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", captured.Statuses, want)
	}
	for i := range want {
		if captured.Statuses[i] != want[i] {
			t.Errorf("statuses[%d] = %q, want %q", i, captured.Statuses[i], want[i])
		}
	}
}

func TestListOrders_RejectsUnknownStatus(t *testing.T) {
	uc := newOrderUsecase(&fakeOrderRepo{}, nil, nil, nil)
	_, err := uc.ListOrders(context.Background(), "user-1", domain.OrderStatus("lost"))
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("want ErrInvalidStatus, got %v", err)
	}
}

// ---- GetOrder ----

func TestGetOrder_WithoutShipment(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderPending)}
	shipments := &fakeShipmentRepo{
		getByOrderID: func(context.Context, string) (*domain.Shipment, error) {
			return nil, domain.ErrShipmentNotFound
		},
	}

	details, err := newOrderUsecase(orders, shipments, nil, nil).GetOrder(context.Background(), "order-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Shipment != nil {
		t.Errorf("want no shipment, got %+v", details.Shipment)
	}
}

func TestGetOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderPending)}
	_, err := newOrderUsecase(orders, nil, nil, nil).GetOrder(context.Background(), "order-1", "user-2")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("want ErrOrderNotFound, got %v", err)
	}
}

// ---- pending-only mutations ----

func TestPendingOnlyMutations_RejectShippedOrders(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderShipped)}
	uc := newOrderUsecase(orders, nil, nil, nil)
	ctx := context.Background()

	if err := uc.UpdateOrder(ctx, "order-1", "user-1", "Tablet"); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("update: want ErrOrderNotPending, got %v", err)
	}
	if err := uc.CancelOrder(ctx, "order-1", "user-1"); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("cancel: want ErrOrderNotPending, got %v", err)
	}
	if err := uc.DeleteOrder(ctx, "order-1", "user-1"); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("delete: want ErrOrderNotPending, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	var from, to domain.OrderStatus
	orders := &fakeOrderRepo{
		getByID: ownedOrder(domain.OrderPending),
		setStatus: func(_ context.Context, _, _ string, f, n domain.OrderStatus) error {
			from, to = f, n
			return nil
		},
	}
	rec := &recordingRecorder{}

	if err := newOrderUsecase(orders, nil, nil, rec).CancelOrder(context.Background(), "order-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != domain.OrderPending || to != domain.OrderCanceled {
		t.Errorf("transition %q -> %q", from, to)
	}
	if len(rec.got) != 1 || rec.got[0] != domain.OrderCanceled {
		t.Errorf("recorded transitions = %v", rec.got)
	}
}

func TestUpdateOrder_BlankProductIsNoChange(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderPending)}
	err := newOrderUsecase(orders, nil, nil, nil).UpdateOrder(context.Background(), "order-1", "user-1", "   ")
	if !errors.Is(err, domain.ErrNoChanges) {
		t.Errorf("want ErrNoChanges, got %v", err)
	}
}

// ---- rate / review ----

func TestRateOrder(t *testing.T) {
	var rated int
	orders := &fakeOrderRepo{
		getByID: ownedOrder(domain.OrderDelivered),
		setRating: func(_ context.Context, _, _ string, rating int) error {
			rated = rating
			return nil
		},
	}
	uc := newOrderUsecase(orders, nil, nil, nil)

	for _, bad := range []int{0, 6, -1} {
		if err := uc.RateOrder(context.Background(), "order-1", "user-1", bad); !errors.Is(err, domain.ErrInvalidRating) {
			t.Errorf("rating %d: want ErrInvalidRating, got %v", bad, err)
		}
	}
	if err := uc.RateOrder(context.Background(), "order-1", "user-1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rated != 4 {
		t.Errorf("rated = %d, want 4", rated)
	}
}

func TestRateOrder_RequiresDelivered(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderShipped)}
	err := newOrderUsecase(orders, nil, nil, nil).RateOrder(context.Background(), "order-1", "user-1", 5)
	if !errors.Is(err, domain.ErrOrderNotDelivered) {
		t.Errorf("want ErrOrderNotDelivered, got %v", err)
	}
}

func TestReviewOrder_EmptyAfterCleaning(t *testing.T) {
	orders := &fakeOrderRepo{getByID: ownedOrder(domain.OrderDelivered)}
	err := newOrderUsecase(orders, nil, nil, nil).ReviewOrder(context.Background(), "order-1", "user-1", "")
	if !errors.Is(err, domain.ErrReviewRequired) {
		t.Errorf("want ErrReviewRequired, got %v", err)
	}
}

// ---- AdvanceStatus ----

func adminRepo(isAdmin bool) *fakeUserRepo {
	return &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, IsAdmin: isAdmin}, nil
		},
	}
}

func TestAdvanceStatus_NonAdminForbidden(t *testing.T) {
	uc := newOrderUsecase(&fakeOrderRepo{}, nil, adminRepo(false), nil)
	_, err := uc.AdvanceStatus(context.Background(), "user-1", "order-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("want ErrForbidden, got %v", err)
	}
}

func TestAdvanceStatus_ShipsPendingOrder(t *testing.T) {
	var shippedID, tracking string
	orders := &fakeOrderRepo{
		getByIDAny: func(_ context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderPending}, nil
		},
		ship: func(_ context.Context, id, trackingNumber string) (*domain.Shipment, error) {
			shippedID, tracking = id, trackingNumber
			return &domain.Shipment{OrderID: id, TrackingNumber: trackingNumber}, nil
		},
	}
	rec := &recordingRecorder{}

	next, err := newOrderUsecase(orders, nil, adminRepo(true), rec).AdvanceStatus(context.Background(), "admin-1", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != domain.OrderShipped {
		t.Errorf("next = %q, want shipped", next)
	}
	if shippedID != "order-1" || tracking == "" {
		t.Errorf("ship called with (%q, %q)", shippedID, tracking)
	}
	if len(rec.got) != 1 || rec.got[0] != domain.OrderShipped {
		t.Errorf("recorded transitions = %v", rec.got)
	}
}

func TestAdvanceStatus_DeliversShippedOrder(t *testing.T) {
	delivered := false
	orders := &fakeOrderRepo{
		getByIDAny: func(_ context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderShipped}, nil
		},
		deliver: func(context.Context, string) error {
			delivered = true
			return nil
		},
	}

	next, err := newOrderUsecase(orders, nil, adminRepo(true), nil).AdvanceStatus(context.Background(), "admin-1", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != domain.OrderDelivered || !delivered {
		t.Errorf("next = %q, delivered = %v", next, delivered)
	}
}

func TestAdvanceStatus_ClosedOrdersStay(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderDelivered, domain.OrderCanceled} {
		orders := &fakeOrderRepo{
			getByIDAny: func(_ context.Context, id string) (*domain.Order, error) {
				return &domain.Order{ID: id, Status: status}, nil
			},
		}
		_, err := newOrderUsecase(orders, nil, adminRepo(true), nil).AdvanceStatus(context.Background(), "admin-1", "order-1")
		if !errors.Is(err, domain.ErrNoFurtherTransitions) {
			t.Errorf("%s: want ErrNoFurtherTransitions, got %v", status, err)
		}
	}
}
