// Package console turns console actions into shopcart API requests and the
// responses into a View.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/model"
)

// Flash messages.
const (
	MsgSuccess        = "Success"
	MsgDeleted        = "Item has been Deleted!"
	MsgServerError    = "Server error!"
	MsgItemCheckedOut = "Item has been checked out!"
	MsgCartCheckedOut = "Cart has been checked out!"
)

// Action names one console operation.
type Action string

// Console actions.
const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionRetrieve     Action = "retrieve"
	ActionDelete       Action = "delete"
	ActionSearch       Action = "search"
	ActionCheckout     Action = "checkout"
	ActionCheckoutCart Action = "checkout-cart"
	ActionClear        Action = "clear"
)

// Actions lists every action in display order.
var Actions = []Action{
	ActionCreate, ActionUpdate, ActionRetrieve, ActionDelete,
	ActionSearch, ActionCheckout, ActionCheckoutCart, ActionClear,
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// API is the part of the shopcart client the console drives.
type API interface {
	CreateItem(ctx context.Context, customerID int64, req model.ItemRequest) (*model.Item, error)
	UpdateItem(ctx context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error)
	GetItem(ctx context.Context, customerID, productID int64) (*model.Item, error)
	ListItems(ctx context.Context, q client.Query) ([]model.Item, error)
	DeleteItem(ctx context.Context, customerID, productID int64) error
	DeleteCart(ctx context.Context, customerID int64) error
	CheckoutItem(ctx context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error)
	CheckoutCart(ctx context.Context, customerID int64) (*client.Result, error)
}

// Console runs actions against an API. Each call owns the View it returns, so a
// Console is safe for concurrent use.
type Console struct {
	API    API
	Logger *slog.Logger
	Now    func() time.Time
}

// New creates a console over api.
func New(api API, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{API: api, Logger: logger, Now: time.Now}
}

// Run performs action on the current view, whose Form holds the submitted
// fields, and returns the resulting view.
func (c *Console) Run(ctx context.Context, action Action, current View) (View, error) {
	switch action {
	case ActionCreate:
		return c.Create(ctx, current), nil
	case ActionUpdate:
		return c.Update(ctx, current), nil
	case ActionRetrieve:
		return c.Retrieve(ctx, current), nil
	case ActionDelete:
		return c.Delete(ctx, current), nil
	case ActionSearch:
		return c.Search(ctx, current), nil
	case ActionCheckout:
		return c.CheckoutItem(ctx, current), nil
	case ActionCheckoutCart:
		return c.CheckoutCart(ctx, current), nil
	case ActionClear:
		return c.Clear(), nil
	default:
		return current, fmt.Errorf("unknown action %q", action)
	}
}

// Create adds the form's item to the customer's cart.
func (c *Console) Create(ctx context.Context, current View) View {
	const op = "console.Create"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID, fieldProductID, fieldQuantity); err != nil {
		v.fail(err.Error())
		return v
	}

	id := v.Form.ids()
	req := c.itemRequest(v.Form, id.product)
	req.Checkout = model.FlagPtr(false)

	item, err := c.API.CreateItem(ctx, id.customer, req)
	if err != nil {
		c.logFailure(op, err)
		v.fail(failureMessage(err))
		return v
	}

	v.populate(*item)
	v.succeed(MsgSuccess)
	return v
}

// Update replaces the form's item in the customer's cart.
func (c *Console) Update(ctx context.Context, current View) View {
	const op = "console.Update"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID, fieldProductID, fieldQuantity); err != nil {
		v.fail(err.Error())
		return v
	}

	id := v.Form.ids()
	req := c.itemRequest(v.Form, id.product)
	req.Checkout = model.FlagPtr(false)

	item, err := c.API.UpdateItem(ctx, id.customer, id.product, req)
	if err != nil {
		c.logFailure(op, err)
		v.fail(failureMessage(err))
		return v
	}

	v.populate(*item)
	v.succeed(MsgSuccess)
	return v
}

// Retrieve fetches one item when a product id is given, otherwise the whole cart.
// A failed request clears the form.
func (c *Console) Retrieve(ctx context.Context, current View) View {
	const op = "console.Retrieve"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID); err != nil {
		v.fail(err.Error())
		return v
	}

	id := v.Form.ids()
	if id.hasProduct {
		item, err := c.API.GetItem(ctx, id.customer, id.product)
		if err != nil {
			c.logFailure(op, err)
			v.clearForm()
			v.fail(failureMessage(err))
			return v
		}
		v.populate(*item)
		v.succeed(MsgSuccess)
		return v
	}

	items, err := c.API.ListItems(ctx, client.Query{ShopcartID: &id.customer})
	if err != nil {
		c.logFailure(op, err)
		v.clearForm()
		v.fail(failureMessage(err))
		return v
	}
	v.showResults(items)
	v.succeed(MsgSuccess)
	return v
}

// Delete removes one item when a product id is given, otherwise the whole cart.
// Every failure, rejected input included, shows MsgServerError.
func (c *Console) Delete(ctx context.Context, current View) View {
	const op = "console.Delete"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID); err != nil {
		c.Logger.Debug("delete input rejected", "op", op, "error", err)
		v.fail(MsgServerError)
		return v
	}

	id := v.Form.ids()
	var err error
	if id.hasProduct {
		err = c.API.DeleteItem(ctx, id.customer, id.product)
	} else {
		err = c.API.DeleteCart(ctx, id.customer)
	}
	if err != nil {
		c.logFailure(op, err)
		v.fail(MsgServerError)
		return v
	}

	v.clearForm()
	v.succeed(MsgDeleted)
	return v
}

// Search lists the items matching whichever of customer id and product id are set.
func (c *Console) Search(ctx context.Context, current View) View {
	const op = "console.Search"
	v := begin(current)
	if err := v.Form.check(); err != nil {
		v.fail(err.Error())
		return v
	}

	id := v.Form.ids()
	var q client.Query
	if id.hasCustomer {
		q.ShopcartID = &id.customer
	}
	if id.hasProduct {
		q.ProductID = &id.product
	}

	items, err := c.API.ListItems(ctx, q)
	if err != nil {
		c.logFailure(op, err)
		v.fail(failureMessage(err))
		return v
	}
	v.showResults(items)
	v.succeed(MsgSuccess)
	return v
}

// CheckoutItem marks the form's item as purchased.
func (c *Console) CheckoutItem(ctx context.Context, current View) View {
	const op = "console.CheckoutItem"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID, fieldProductID, fieldQuantity); err != nil {
		v.fail(err.Error())
		return v
	}

	id := v.Form.ids()
	item, err := c.API.CheckoutItem(ctx, id.customer, id.product, c.itemRequest(v.Form, id.product))
	if err != nil {
		c.logFailure(op, err)
		v.fail(failureMessage(err))
		return v
	}

	v.populate(*item)
	v.succeed(MsgItemCheckedOut)
	return v
}

// CheckoutCart marks every item in the customer's cart as purchased.
func (c *Console) CheckoutCart(ctx context.Context, current View) View {
	const op = "console.CheckoutCart"
	v := begin(current)
	if err := v.Form.check(fieldCustomerID); err != nil {
		v.fail(err.Error())
		return v
	}

	res, err := c.API.CheckoutCart(ctx, v.Form.ids().customer)
	if err != nil {
		c.logFailure(op, err)
		v.fail(failureMessage(err))
		return v
	}

	switch {
	case res.IsList:
		v.showResults(res.Items)
	case res.Item != nil:
		v.populate(*res.Item)
	}
	v.succeed(MsgCartCheckedOut)
	return v
}

// Clear resets the form, the flash and the results table. It sends no request.
func (c *Console) Clear() View {
	var v View
	v.reset()
	return v
}

func (c *Console) itemRequest(form Form, productID int64) model.ItemRequest {
	return model.ItemRequest{
		ProductID: productID,
		Quantity:  form.quantity(),
		Price:     form.Price,
		TimeAdded: c.Now().UTC(),
	}
}

func (c *Console) logFailure(op string, err error) {
	attrs := []any{"op", op, "error", err}
	if apiErr, ok := client.AsAPIError(err); ok {
		attrs = append(attrs, "status", apiErr.Status)
	}
	c.Logger.Warn("shopcart request failed", attrs...)
}

// failureMessage is the server's message for API errors and MsgServerError when
// no response arrived.
func failureMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.Message
	}
	return MsgServerError
}
