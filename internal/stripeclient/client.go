package stripeclient

import (
	"context"
	"strconv"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// Client is the slice of the Stripe API this service actually uses.
// Handlers and services depend on this interface so tests can swap in
// a fake instead of relying on a process-global API key.
type Client interface {
	// ConstructEvent verifies the webhook signature against the shared
	// secret and returns the typed event. Fails closed.
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)

	CreateAccount(ctx context.Context, email, country string) (string, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)

	CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (string, error)
	CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
}

type CheckoutSessionParams struct {
	ProductID       uint64
	ProductName     string
	AmountCents     int64
	FeeCents        int64
	DestinationAcct string
	BuyerUID        string // empty for guest checkout
	SuccessURL      string
	CancelURL       string
}

type PaymentIntentParams struct {
	ProductID       uint64
	AmountCents     int64
	FeeCents        int64
	DestinationAcct string
	BuyerUID        string
}

type stripeClient struct {
	api           *client.API
	webhookSecret string
}

func New(secretKey, webhookSecret string) Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeClient{api: api, webhookSecret: webhookSecret}
}

func (c *stripeClient) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}

func (c *stripeClient) CreateAccount(ctx context.Context, email, country string) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String(country),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx
	acct, err := c.api.Accounts.New(params)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (c *stripeClient) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	return c.api.Accounts.GetByID(accountID, params)
}

func (c *stripeClient) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := c.api.AccountLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (string, error) {
	meta := sessionMetadata(p.ProductID, p.BuyerUID)
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(p.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.FeeCents),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(p.DestinationAcct),
			},
			Metadata: meta,
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	// Metadata goes on the session as well; the webhook reads it there.
	for k, v := range meta {
		params.AddMetadata(k, v)
	}
	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

func (c *stripeClient) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(p.AmountCents),
		Currency:             stripe.String(string(stripe.CurrencyEUR)),
		ApplicationFeeAmount: stripe.Int64(p.FeeCents),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(p.DestinationAcct),
		},
	}
	params.Context = ctx
	for k, v := range sessionMetadata(p.ProductID, p.BuyerUID) {
		params.AddMetadata(k, v)
	}
	return c.api.PaymentIntents.New(params)
}

func (c *stripeClient) GetPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return c.api.PaymentIntents.Get(intentID, params)
}

func sessionMetadata(productID uint64, buyerUID string) map[string]string {
	meta := map[string]string{
		"product_id": strconv.FormatUint(productID, 10),
	}
	if buyerUID != "" {
		meta["user_id"] = buyerUID
	}
	return meta
}
