package service

import (
	"context"
	"sync"

	"github.com/devmarket/marketplace-backend/internal/model"
	"github.com/devmarket/marketplace-backend/internal/stripeclient"
	stripe "github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the GORM repositories'
// contracts, including ErrRecordNotFound and ErrDuplicatedKey.

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*model.Payment
	orders   *fakeOrderRepo
	nextID   uint64

	createErr error
}

func newFakePaymentRepo(orders *fakeOrderRepo) *fakePaymentRepo {
	return &fakePaymentRepo{orders: orders}
}

func (r *fakePaymentRepo) byIntentLocked(intentID string) *model.Payment {
	for _, p := range r.payments {
		if p.StripePaymentIntentID == intentID {
			return p
		}
	}
	return nil
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.byIntentLocked(p.StripePaymentIntentID) != nil {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, p)
	return nil
}

func (r *fakePaymentRepo) CreateWithOrder(ctx context.Context, p *model.Payment, o *model.Order) error {
	r.mu.Lock()
	if r.createErr != nil {
		r.mu.Unlock()
		return r.createErr
	}
	if r.byIntentLocked(p.StripePaymentIntentID) != nil {
		r.mu.Unlock()
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, p)
	r.mu.Unlock()

	r.orders.add(o)
	return nil
}

func (r *fakePaymentRepo) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.byIntentLocked(intentID); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.payments {
		if existing.ID == p.ID {
			r.payments[i] = p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) HasSucceededPayment(ctx context.Context, productID uint64, buyerUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ProductID == productID && p.Succeeded && p.BuyerUID != nil && *p.BuyerUID == buyerUID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*model.Order
	nextID uint64
}

func (r *fakeOrderRepo) add(o *model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	r.orders = append(r.orders, o)
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Order
	for _, o := range r.orders {
		if o.BuyerUID != nil && *o.BuyerUID == buyerUID {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (r *fakeOrderRepo) ListPendingByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []model.Order
	for _, o := range r.orders {
		if o.BuyerUID != nil && *o.BuyerUID == buyerUID && o.PaymentStatus == model.PaymentStatusPending {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (r *fakeOrderRepo) ListSalesBySeller(ctx context.Context, sellerUID string) ([]model.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.orders {
		if existing.ID == o.ID {
			r.orders[i] = o
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) SetPaymentStatusByIntent(ctx context.Context, intentID, paymentStatus string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, o := range r.orders {
		if o.StripePaymentIntent == intentID {
			o.PaymentStatus = paymentStatus
			if paymentStatus == model.PaymentStatusSucceeded {
				o.Status = model.OrderStatusPaid
			}
			affected++
		}
	}
	return affected, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uint64]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uint64]*model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uint64(len(r.products) + 1)
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) ListPublished(ctx context.Context, limit, offset int) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) CountBySeller(ctx context.Context, sellerUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.products {
		if p.SellerUID == sellerUID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.UID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.UID]; !ok {
		r.users[u.UID] = u
	}
	return nil
}

func (r *fakeUserRepo) SetStripeAccountID(ctx context.Context, uid, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.StripeAccountID = &accountID
	return nil
}

type sentNotification struct {
	UserUID string
	Type    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, userUID, typ, title, body string, productID, orderID *uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserUID: userUID, Type: typ})
}

func (n *fakeNotifier) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (n *fakeNotifier) MarkAllRead(ctx context.Context, userUID string) error {
	return nil
}

// fakeStripe implements stripeclient.Client.
type fakeStripe struct {
	accountID        string
	createAccountErr error
	linkURL          string
	linkErr          error
	chargesEnabled   bool
	getAccountErr    error

	sessionID  string
	sessionErr error
	lastParams stripeclient.CheckoutSessionParams

	intent    *stripe.PaymentIntent
	intentErr error

	getIntent    *stripe.PaymentIntent
	getIntentErr error
	getCalls     int
}

func (f *fakeStripe) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func (f *fakeStripe) CreateAccount(ctx context.Context, email, country string) (string, error) {
	if f.createAccountErr != nil {
		return "", f.createAccountErr
	}
	return f.accountID, nil
}

func (f *fakeStripe) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	if f.getAccountErr != nil {
		return nil, f.getAccountErr
	}
	return &stripe.Account{ID: accountID, ChargesEnabled: f.chargesEnabled}, nil
}

func (f *fakeStripe) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return f.linkURL, nil
}

func (f *fakeStripe) CreateCheckoutSession(ctx context.Context, p stripeclient.CheckoutSessionParams) (string, error) {
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	f.lastParams = p
	return f.sessionID, nil
}

func (f *fakeStripe) CreatePaymentIntent(ctx context.Context, p stripeclient.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return f.intent, nil
}

func (f *fakeStripe) GetPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	f.getCalls++
	if f.getIntentErr != nil {
		return nil, f.getIntentErr
	}
	return f.getIntent, nil
}
