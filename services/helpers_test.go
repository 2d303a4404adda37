package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flowershop_backend/internal/payments"
	"flowershop_backend/internal/storage"
	"flowershop_backend/internal/testutil"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
	"flowershop_backend/utils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentEmail struct {
	kind    string
	to      string
	orderID uint
	value   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (n *fakeNotifier) record(e sentEmail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, e)
	return nil
}

func (n *fakeNotifier) SendResetPasswordEmail(_ context.Context, to, token string) error {
	return n.record(sentEmail{kind: "reset", to: to, value: token})
}

func (n *fakeNotifier) SendNewOrderEmail(_ context.Context, to string, orderID uint, status string, _ int64) error {
	return n.record(sentEmail{kind: "new_order", to: to, orderID: orderID, value: status})
}

func (n *fakeNotifier) SendChangedOrderStatusEmail(_ context.Context, to string, orderID uint, status string) error {
	return n.record(sentEmail{kind: "order_status", to: to, orderID: orderID, value: status})
}

func (n *fakeNotifier) SendChangedOrderPaymentStatusEmail(_ context.Context, to string, orderID uint, status string) error {
	return n.record(sentEmail{kind: "payment_status", to: to, orderID: orderID, value: status})
}

func (n *fakeNotifier) last() sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentEmail{}
	}
	return n.sent[len(n.sent)-1]
}

type fakeProvider struct {
	fail    bool
	event   *payments.Event
	badSig  bool
	created []uint
}

func (p *fakeProvider) CreatePaymentIntent(_ context.Context, orderID uint, _ int64) (*payments.Intent, error) {
	if p.fail {
		return nil, errors.New("provider unavailable")
	}
	p.created = append(p.created, orderID)
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (p *fakeProvider) ConstructEvent(_ []byte, _ string) (*payments.Event, error) {
	if p.badSig {
		return nil, payments.ErrSignature
	}
	return p.event, nil
}

type env struct {
	db       *gorm.DB
	notifier *fakeNotifier
	provider *fakeProvider

	users      *UserService
	auth       *AuthService
	categories *CategoryService
	files      *FileService
	products   *ProductService
	cart       *CartService
	payments   *PaymentService
	orders     *OrderService
	reviews    *ReviewService
}

func newEnv(t *testing.T, scopedCart bool) *env {
	t.Helper()
	db := testutil.SeededDB(t)
	log := zerolog.Nop()
	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	e := &env{db: db, notifier: &fakeNotifier{}, provider: &fakeProvider{}}
	e.users = NewUserService(userRepo)
	e.auth = NewAuthService(userRepo, repositories.NewResetPasswordRepository(db), e.users,
		utils.NewTokenMaker("secret", time.Hour), e.notifier, 30*time.Minute, log)
	e.categories = NewCategoryService(categoryRepo)
	e.files = NewFileService(repositories.NewFileRepository(db), disk, log)
	e.products = NewProductService(productRepo, categoryRepo, e.files, log)
	e.cart = NewCartService(cartRepo, productRepo, userRepo, scopedCart)
	e.payments = NewPaymentService(e.provider, orderRepo, e.notifier, log)
	e.orders = NewOrderService(orderRepo, cartRepo, productRepo, userRepo, e.payments, e.notifier, log)
	e.reviews = NewReviewService(repositories.NewReviewRepository(db), productRepo)
	return e
}

func (e *env) caller(t *testing.T, username string) Caller {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.Where("username = ?", username).First(&u).Error)
	return Caller{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

func (e *env) product(t *testing.T, name string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, e.db.Where("name = ?", name).First(&p).Error)
	return p
}

func (e *env) category(t *testing.T, name string) models.Category {
	t.Helper()
	var c models.Category
	require.NoError(t, e.db.Where("name = ?", name).First(&c).Error)
	return c
}
