package ordering_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/ordering"
	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ordering.Store with the same contract as the
// gorm implementation: ReserveStock is atomic, WithinTx rolls stock back
// when fn fails.
type memStore struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	orders   map[int64]*domain.Order
}

func newMemStore(products ...*domain.Product) *memStore {
	s := &memStore{
		products: map[int64]*domain.Product{},
		orders:   map[int64]*domain.Order{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

var _ ordering.Store = (*memStore)(nil)

func (s *memStore) WithinTx(ctx context.Context, fn func(tx ordering.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := map[int64]int{}
	for id, p := range s.products {
		snapshot[id] = p.Stock
	}
	if err := fn(&txStore{s: s}); err != nil {
		for id, stock := range snapshot {
			s.products[id].Stock = stock
		}
		return err
	}
	return nil
}

func (s *memStore) reserveLocked(productID int64, quantity int) (float64, error) {
	p, found := s.products[productID]
	if !found {
		return 0, errors.Wrapf(domain.ErrNotFound, "product %d", productID)
	}
	if p.Stock < quantity {
		return 0, errors.Wrapf(domain.ErrInsufficientStock, "product %d", productID)
	}
	p.Stock -= quantity
	return p.Price, nil
}

func (s *memStore) ReserveStock(ctx context.Context, productID int64, quantity int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserveLocked(productID, quantity)
}

func (s *memStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *memStore) OrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, found := s.orders[id]
	if !found {
		return nil, errors.Wrapf(domain.ErrNotFound, "order %d", id)
	}
	return order, nil
}

func (s *memStore) OrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *memStore) AllOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, order := range s.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (s *memStore) setStatusLocked(id int64, fromStatus, toStatus string) error {
	order, found := s.orders[id]
	if !found {
		return errors.Wrapf(domain.ErrNotFound, "order %d", id)
	}
	if order.Status != fromStatus {
		return errors.Wrapf(domain.ErrInvalidTransition, "order %d is %s, not %s", id, order.Status, fromStatus)
	}
	order.Status = toStatus
	return nil
}

func (s *memStore) SetOrderStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatusLocked(id, fromStatus, toStatus)
}

// txStore is the transactional view handed to WithinTx callbacks; the
// outer store already holds the lock.
type txStore struct {
	s *memStore
}

func (t *txStore) WithinTx(ctx context.Context, fn func(tx ordering.Store) error) error {
	return fn(t)
}

func (t *txStore) ReserveStock(ctx context.Context, productID int64, quantity int) (float64, error) {
	return t.s.reserveLocked(productID, quantity)
}

func (t *txStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	t.s.orders[order.ID] = order
	return nil
}

func (t *txStore) OrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, found := t.s.orders[id]
	if !found {
		return nil, errors.Wrapf(domain.ErrNotFound, "order %d", id)
	}
	return order, nil
}

func (t *txStore) OrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return nil, errors.New("not supported in tx")
}

func (t *txStore) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return nil, errors.New("not supported in tx")
}

func (t *txStore) SetOrderStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	return t.s.setStatusLocked(id, fromStatus, toStatus)
}

var (
	customer      = auth.Principal{UserID: 100, Username: "alice", Role: domain.RoleCustomer}
	otherCustomer = auth.Principal{UserID: 200, Username: "bob", Role: domain.RoleCustomer}
	admin         = auth.Principal{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
)

func setup(t *testing.T, products ...*domain.Product) (*ordering.Service, *memStore) {
	t.Helper()
	store := newMemStore(products...)
	return ordering.NewService(store, evbus.New()), store
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store := setup(t,
			&domain.Product{ID: 1, Name: "widget", Price: 10.00, Stock: 10},
			&domain.Product{ID: 2, Name: "gadget", Price: 5.00, Stock: 10},
		)

		order, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		})
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, domain.OrderStatusCreated, order.Status)
		assert.Equal(t, customer.UserID, order.UserID)
		assert.InDelta(t, 25.00, order.TotalAmount, 1e-9)
		require.Len(t, order.Items, 2)
		assert.InDelta(t, 10.00, order.Items[0].UnitPrice, 1e-9)
		assert.InDelta(t, 5.00, order.Items[1].UnitPrice, 1e-9)

		assert.Equal(t, 8, store.products[1].Stock)
		assert.Equal(t, 9, store.products[2].Stock)
		assert.Len(t, store.orders, 1)
	})

	t.Run("Forbidden for non-customer", func(t *testing.T) {
		svc, store := setup(t, &domain.Product{ID: 1, Price: 10.00, Stock: 10})

		_, err := svc.PlaceOrder(ctx, admin, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, 10, store.products[1].Stock)
		assert.Empty(t, store.orders)
	})

	t.Run("Empty items rejected", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.PlaceOrder(ctx, customer, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Zero quantity rejected", func(t *testing.T) {
		svc, store := setup(t, &domain.Product{ID: 1, Price: 10.00, Stock: 10})
		_, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 0}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 10, store.products[1].Stock)
	})

	t.Run("Unknown product", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 42, Quantity: 1}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("All or nothing on partial failure", func(t *testing.T) {
		svc, store := setup(t,
			&domain.Product{ID: 1, Price: 10.00, Stock: 10},
			&domain.Product{ID: 2, Price: 5.00, Stock: 1},
		)

		_, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 2},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		// the first reservation must have been rolled back
		assert.Equal(t, 10, store.products[1].Stock)
		assert.Equal(t, 1, store.products[2].Stock)
		assert.Empty(t, store.orders)
	})

	t.Run("Total immune to later price change", func(t *testing.T) {
		svc, store := setup(t, &domain.Product{ID: 1, Price: 10.00, Stock: 10})

		order, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 2}})
		require.NoError(t, err)
		require.InDelta(t, 20.00, order.TotalAmount, 1e-9)

		store.products[1].Price = 99.99

		fetched, err := svc.GetOrderByID(ctx, customer, order.ID)
		require.NoError(t, err)
		assert.InDelta(t, 20.00, fetched.TotalAmount, 1e-9)
		assert.InDelta(t, 10.00, fetched.Items[0].UnitPrice, 1e-9)
	})
}

func TestPlaceOrderConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("Two callers one unit short", func(t *testing.T) {
		svc, store := setup(t, &domain.Product{ID: 1, Price: 10.00, Stock: 5})

		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 3}})
				results <- err
			}()
		}
		var failures, successes int
		for i := 0; i < 2; i++ {
			if err := <-results; err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				failures++
			} else {
				successes++
			}
		}

		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, failures)
		assert.Equal(t, 2, store.products[1].Stock)
	})

	t.Run("Stock never oversold", func(t *testing.T) {
		const initialStock = 16
		const callers = 50
		svc, store := setup(t, &domain.Product{ID: 1, Price: 1.00, Stock: initialStock})

		var wg sync.WaitGroup
		var successes int64
		var mu sync.Mutex
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}}); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, initialStock, successes)
		assert.Equal(t, 0, store.products[1].Stock)
		assert.Len(t, store.orders, initialStock)
	})
}

func TestOrderReads(t *testing.T) {
	ctx := context.Background()

	svc, _ := setup(t,
		&domain.Product{ID: 1, Price: 10.00, Stock: 100},
	)
	aliceOrder, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, otherCustomer, []ordering.ItemRequest{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)

	t.Run("GetMyOrders returns only own", func(t *testing.T) {
		orders, err := svc.GetMyOrders(ctx, customer)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, aliceOrder.ID, orders[0].ID)
	})

	t.Run("GetMyOrders forbidden for admin", func(t *testing.T) {
		_, err := svc.GetMyOrders(ctx, admin)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("GetAllOrders admin only", func(t *testing.T) {
		orders, err := svc.GetAllOrders(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, orders, 2)

		_, err = svc.GetAllOrders(ctx, customer)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("GetOrderByID enforces ownership", func(t *testing.T) {
		_, err := svc.GetOrderByID(ctx, otherCustomer, aliceOrder.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		order, err := svc.GetOrderByID(ctx, admin, aliceOrder.ID)
		require.NoError(t, err)
		assert.Equal(t, aliceOrder.ID, order.ID)

		order, err = svc.GetOrderByID(ctx, customer, aliceOrder.ID)
		require.NoError(t, err)
		assert.Equal(t, aliceOrder.ID, order.ID)
	})

	t.Run("GetOrderByID unknown id", func(t *testing.T) {
		_, err := svc.GetOrderByID(ctx, admin, 424242)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	place := func(t *testing.T) (*ordering.Service, *domain.Order) {
		t.Helper()
		svc, _ := setup(t, &domain.Product{ID: 1, Price: 10.00, Stock: 100})
		order, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}})
		require.NoError(t, err)
		return svc, order
	}

	t.Run("Admin only", func(t *testing.T) {
		svc, order := place(t)
		_, err := svc.UpdateOrderStatus(ctx, customer, order.ID, domain.OrderStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Unknown order", func(t *testing.T) {
		svc, _ := place(t)
		_, err := svc.UpdateOrderStatus(ctx, admin, 424242, domain.OrderStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Created to confirmed", func(t *testing.T) {
		svc, order := place(t)
		updated, err := svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	})

	t.Run("Cancelled is terminal", func(t *testing.T) {
		svc, order := place(t)
		_, err := svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusCancelled)
		require.NoError(t, err)

		for _, next := range domain.OrderStatusValues {
			_, err := svc.UpdateOrderStatus(ctx, admin, order.ID, next)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "from CANCELLED to %s", next)
		}
	})

	t.Run("Stale transition cannot clobber a cancellation", func(t *testing.T) {
		store := newMemStore(&domain.Product{ID: 1, Price: 10.00, Stock: 100})
		svc := ordering.NewService(store, evbus.New())
		order, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}})
		require.NoError(t, err)

		_, err = svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusCancelled)
		require.NoError(t, err)

		// a writer still holding the pre-cancel CREATED snapshot misses
		// the guarded update instead of reviving the order
		err = store.SetOrderStatus(ctx, order.ID, domain.OrderStatusCreated, domain.OrderStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		current, err := svc.GetOrderByID(ctx, admin, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, current.Status)
	})

	t.Run("No reverse from confirmed", func(t *testing.T) {
		svc, order := place(t)
		_, err := svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusConfirmed)
		require.NoError(t, err)
		_, err = svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusCreated)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Status change event published", func(t *testing.T) {
		store := newMemStore(&domain.Product{ID: 1, Price: 10.00, Stock: 100})
		bus := evbus.New()
		svc := ordering.NewService(store, bus)

		var events []ordering.OrderStatusChangedEvent
		require.NoError(t, bus.Subscribe(ordering.TopicOrderStatusChanged, func(evt ordering.OrderStatusChangedEvent) {
			events = append(events, evt)
		}))

		order, err := svc.PlaceOrder(ctx, customer, []ordering.ItemRequest{{ProductID: 1, Quantity: 1}})
		require.NoError(t, err)
		_, err = svc.UpdateOrderStatus(ctx, admin, order.ID, domain.OrderStatusConfirmed)
		require.NoError(t, err)

		require.Len(t, events, 1)
		assert.Equal(t, order.ID, events[0].OrderID)
		assert.Equal(t, domain.OrderStatusCreated, events[0].FromStatus)
		assert.Equal(t, domain.OrderStatusConfirmed, events[0].ToStatus)
	})
}
