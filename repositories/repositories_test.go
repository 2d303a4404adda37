package repositories_test

import (
	"context"
	"testing"
	"time"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/internal/testutil"
	"flowershop_backend/models"
	"flowershop_backend/repositories"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB

	users      *repositories.UserRepository
	resets     *repositories.ResetPasswordRepository
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
	cart       *repositories.CartRepository
	orders     *repositories.OrderRepository
	reviews    *repositories.ReviewRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.SeededDB(s.T())
	s.users = repositories.NewUserRepository(s.db)
	s.resets = repositories.NewResetPasswordRepository(s.db)
	s.categories = repositories.NewCategoryRepository(s.db)
	s.products = repositories.NewProductRepository(s.db)
	s.cart = repositories.NewCartRepository(s.db)
	s.orders = repositories.NewOrderRepository(s.db)
	s.reviews = repositories.NewReviewRepository(s.db)
}

func (s *RepositorySuite) user(username string) *models.User {
	u, err := s.users.FindByUsername(s.ctx, username)
	s.Require().NoError(err)
	return u
}

func (s *RepositorySuite) TestUserTaken() {
	john := s.user("john")

	taken, err := s.users.Taken(s.ctx, "username", "john", 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.users.Taken(s.ctx, "username", "john", john.ID)
	s.Require().NoError(err)
	s.False(taken, "a user does not collide with itself")

	taken, err = s.users.Taken(s.ctx, "email", "nobody@example.com", 0)
	s.Require().NoError(err)
	s.False(taken)
}

func (s *RepositorySuite) TestUserPaginationFilter() {
	page, err := s.users.Paginate(s.ctx, paginate.Query{
		Filter: map[string][]string{"role": {"$in:admin,moderator"}},
	})
	s.Require().NoError(err)
	s.EqualValues(2, page.Meta.Total)
	for _, u := range page.Data {
		s.NotEqual(models.RoleUser, u.Role)
	}
}

func (s *RepositorySuite) TestDeleteExpiredResets() {
	david := s.user("david")
	now := time.Now()

	s.Require().NoError(s.resets.Create(s.ctx, &models.ResetPassword{Token: "old", UserID: david.ID, ExpiresAt: now.Add(-time.Minute)}))
	s.Require().NoError(s.resets.Create(s.ctx, &models.ResetPassword{Token: "fresh", UserID: david.ID, ExpiresAt: now.Add(time.Minute)}))

	n, err := s.resets.DeleteExpired(s.ctx, now)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	_, err = s.resets.FindByToken(s.ctx, "old")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
	_, err = s.resets.FindByToken(s.ctx, "fresh")
	s.NoError(err)
}

func (s *RepositorySuite) TestCategoryTree() {
	var root models.Category
	s.Require().NoError(s.db.Where("name = ?", "romantic-flowers").First(&root).Error)

	children, err := s.categories.Children(s.ctx, root.ID)
	s.Require().NoError(err)
	s.Len(children, 2)

	parent, err := s.categories.ParentOf(s.ctx, children[0].ID)
	s.Require().NoError(err)
	s.Require().NotNil(parent)
	s.Equal(root.ID, *parent)

	parent, err = s.categories.ParentOf(s.ctx, root.ID)
	s.Require().NoError(err)
	s.Nil(parent)

	page, err := s.categories.Paginate(s.ctx, paginate.Query{SortBy: [][2]string{{"parent.name", "ASC"}}})
	s.Require().NoError(err)
	s.EqualValues(5, page.Meta.Total)
}

func (s *RepositorySuite) TestCartLookup() {
	david, alice := s.user("david"), s.user("alice")
	s.Require().NoError(s.cart.Create(s.ctx, &models.CartItem{UserID: alice.ID, ProductID: 1, Quantity: 1, TotalPrice: 55}))
	s.Require().NoError(s.cart.Create(s.ctx, &models.CartItem{UserID: david.ID, ProductID: 1, Quantity: 2, TotalPrice: 110}))

	first, err := s.cart.FindByProduct(s.ctx, 1, nil)
	s.Require().NoError(err)
	s.Equal(alice.ID, first.UserID, "unscoped lookup returns the first row")

	own, err := s.cart.FindByProduct(s.ctx, 1, &david.ID)
	s.Require().NoError(err)
	s.Equal(david.ID, own.UserID)

	items, err := s.cart.FindByUser(s.ctx, david.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Require().NotNil(items[0].Product)
	s.Equal("Red Rose Bouquet", items[0].Product.Name)

	n, err := s.cart.DeleteByUser(s.ctx, david.ID)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *RepositorySuite) TestOrderLifecycle() {
	david := s.user("david")
	products, err := s.products.FindByIDs(s.ctx, []uint{1, 2})
	s.Require().NoError(err)
	s.Require().Len(products, 2)

	order := &models.Order{
		UserID:        david.ID,
		Status:        models.OrderStatusOpen,
		PaymentStatus: models.PaymentStatusCreated,
		Address:       "1 Garden Lane",
		TotalSum:      120,
		Products:      products,
	}
	s.Require().NoError(s.orders.Create(s.ctx, order))

	var productCount int64
	s.Require().NoError(s.db.Model(&models.Product{}).Count(&productCount).Error)
	s.EqualValues(4, productCount, "creating an order does not insert products")

	n, err := s.orders.UpdateStatus(s.ctx, order.ID, models.OrderStatusPending)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	n, err = s.orders.UpdatePaymentStatus(s.ctx, 9999, models.PaymentStatusSucceeded)
	s.Require().NoError(err)
	s.Zero(n)

	mine, err := s.orders.Paginate(s.ctx, paginate.Query{}, &david.ID)
	s.Require().NoError(err)
	s.EqualValues(1, mine.Meta.Total)

	found, err := s.orders.FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPending, found.Status)
	s.Len(found.Products, 2)

	n, err = s.orders.Delete(s.ctx, found)
	s.Require().NoError(err)
	s.EqualValues(1, n)
	var links int64
	s.Require().NoError(s.db.Table("order_products").Count(&links).Error)
	s.Zero(links)
}
