package console_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/console"
	"github.com/erazemk/cartconsole/internal/model"
)

// fakeAPI records the last call and answers with canned values.
type fakeAPI struct {
	calls []string

	item   *model.Item
	items  []model.Item
	result *client.Result
	err    error

	lastQuery client.Query
	lastReq   model.ItemRequest
}

func (f *fakeAPI) CreateItem(_ context.Context, customerID int64, req model.ItemRequest) (*model.Item, error) {
	f.calls = append(f.calls, "create")
	f.lastReq = req
	return f.item, f.err
}

func (f *fakeAPI) UpdateItem(_ context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error) {
	f.calls = append(f.calls, "update")
	f.lastReq = req
	return f.item, f.err
}

func (f *fakeAPI) GetItem(_ context.Context, customerID, productID int64) (*model.Item, error) {
	f.calls = append(f.calls, "get")
	return f.item, f.err
}

func (f *fakeAPI) ListItems(_ context.Context, q client.Query) ([]model.Item, error) {
	f.calls = append(f.calls, "list")
	f.lastQuery = q
	return f.items, f.err
}

func (f *fakeAPI) DeleteItem(_ context.Context, customerID, productID int64) error {
	f.calls = append(f.calls, "delete-item")
	return f.err
}

func (f *fakeAPI) DeleteCart(_ context.Context, customerID int64) error {
	f.calls = append(f.calls, "delete-cart")
	return f.err
}

func (f *fakeAPI) CheckoutItem(_ context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error) {
	f.calls = append(f.calls, "checkout-item")
	f.lastReq = req
	return f.item, f.err
}

func (f *fakeAPI) CheckoutCart(_ context.Context, customerID int64) (*client.Result, error) {
	f.calls = append(f.calls, "checkout-cart")
	return f.result, f.err
}

func newConsole(api console.API) *console.Console {
	c := console.New(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

var sampleItems = []model.Item{
	{ShopcartID: 21, ProductID: 7, Quantity: 3, Price: "9.99", Checkout: false},
	{ShopcartID: 21, ProductID: 8, Quantity: 1, Price: "4.50", Checkout: true},
	{ShopcartID: 21, ProductID: 9, Quantity: 2, Price: "1", Checkout: false},
}

func TestSingleItemResponsesPopulateForm(t *testing.T) {
	item := &model.Item{ShopcartID: 21, ProductID: 7, Quantity: 3, Price: "9.99", Checkout: true}
	input := console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99"}
	expected := console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99", Checkout: "true"}

	actions := []console.Action{console.ActionCreate, console.ActionUpdate, console.ActionRetrieve, console.ActionCheckout}
	for _, action := range actions {
		t.Run(string(action), func(t *testing.T) {
			c := newConsole(&fakeAPI{item: item})
			v, err := c.Run(context.Background(), action, console.View{Form: input})
			require.NoError(t, err)

			assert.Equal(t, expected, v.Form)
			assert.Equal(t, console.FlashSuccess, v.Flash.Kind)
			assert.Equal(t, "text-success", v.Flash.Class())
			assert.Empty(t, v.Results)
		})
	}
}

func TestCreateRequestFields(t *testing.T) {
	api := &fakeAPI{item: &sampleItems[0]}
	c := newConsole(api)

	c.Create(context.Background(), console.View{Form: console.Form{CustomerID: " 21 ", ProductID: "7", Quantity: "3", Price: "9.99"}})

	require.Equal(t, []string{"create"}, api.calls)
	assert.Equal(t, int64(7), api.lastReq.ProductID)
	assert.Equal(t, 3, api.lastReq.Quantity)
	assert.Equal(t, "9.99", api.lastReq.Price)
	require.NotNil(t, api.lastReq.Checkout)
	assert.False(t, bool(*api.lastReq.Checkout))
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), api.lastReq.TimeAdded)
}

func TestCheckoutItemRequestOmitsFlag(t *testing.T) {
	api := &fakeAPI{item: &sampleItems[0]}
	c := newConsole(api)

	v := c.CheckoutItem(context.Background(), console.View{Form: console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99"}})

	assert.Equal(t, console.MsgItemCheckedOut, v.Flash.Message)
	assert.Nil(t, api.lastReq.Checkout)
}

func TestCollectionResponsesRenderRowsInOrder(t *testing.T) {
	api := &fakeAPI{items: sampleItems}
	c := newConsole(api)

	v := c.Search(context.Background(), console.View{Form: console.Form{CustomerID: "21"}})

	require.Len(t, v.Results, len(sampleItems))
	for i := range sampleItems {
		assert.Equal(t, sampleItems[i], v.Results[i])
	}
	// First row is copied into the form.
	assert.Equal(t, console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99", Checkout: "false"}, v.Form)
	assert.Equal(t, console.MsgSuccess, v.Flash.Message)
}

func TestEmptyCollectionKeepsForm(t *testing.T) {
	c := newConsole(&fakeAPI{items: []model.Item{}})
	form := console.Form{ProductID: "99"}

	v := c.Search(context.Background(), console.View{Form: form})

	assert.Empty(t, v.Results)
	assert.Equal(t, form, v.Form)
	assert.Equal(t, console.FlashSuccess, v.Flash.Kind)
}

func TestSearchFilters(t *testing.T) {
	api := &fakeAPI{items: []model.Item{}}
	c := newConsole(api)

	c.Search(context.Background(), console.View{Form: console.Form{ProductID: "7"}})
	assert.Nil(t, api.lastQuery.ShopcartID)
	require.NotNil(t, api.lastQuery.ProductID)
	assert.Equal(t, int64(7), *api.lastQuery.ProductID)

	c.Search(context.Background(), console.View{Form: console.Form{}})
	assert.Nil(t, api.lastQuery.ShopcartID)
	assert.Nil(t, api.lastQuery.ProductID)
}

func TestRetrieveWithoutProductListsCart(t *testing.T) {
	api := &fakeAPI{items: sampleItems}
	c := newConsole(api)

	v := c.Retrieve(context.Background(), console.View{Form: console.Form{CustomerID: "21"}})

	assert.Equal(t, []string{"list"}, api.calls)
	require.NotNil(t, api.lastQuery.ShopcartID)
	assert.Equal(t, int64(21), *api.lastQuery.ShopcartID)
	assert.Len(t, v.Results, 3)
	assert.Equal(t, "7", v.Form.ProductID)
}

func TestRetrieveFailureClearsForm(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{Status: http.StatusNotFound, Message: "Shopcart item was not found"}}
	c := newConsole(api)

	v := c.Retrieve(context.Background(), console.View{Form: console.Form{CustomerID: "21", ProductID: "7", Quantity: "3"}})

	assert.Equal(t, console.Form{}, v.Form)
	assert.Equal(t, "Shopcart item was not found", v.Flash.Message)
	assert.Equal(t, console.FlashDanger, v.Flash.Kind)
	assert.Equal(t, "text-danger", v.Flash.Class())
}

func TestFailureKeepsFormAndShowsServerMessage(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{Status: http.StatusConflict, Message: "Item already in cart"}}
	c := newConsole(api)
	form := console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99"}

	for _, action := range []console.Action{console.ActionCreate, console.ActionUpdate, console.ActionSearch, console.ActionCheckout, console.ActionCheckoutCart} {
		v, err := c.Run(context.Background(), action, console.View{Form: form})
		require.NoError(t, err)
		assert.Equal(t, form, v.Form, action)
		assert.Equal(t, "Item already in cart", v.Flash.Message, action)
		assert.Equal(t, console.FlashDanger, v.Flash.Kind, action)
	}
}

func TestDeleteTargets(t *testing.T) {
	api := &fakeAPI{}
	c := newConsole(api)

	v := c.Delete(context.Background(), console.View{Form: console.Form{CustomerID: "21", ProductID: "7", Quantity: "3"}})
	assert.Equal(t, console.Form{}, v.Form)
	assert.Equal(t, console.MsgDeleted, v.Flash.Message)
	assert.Equal(t, console.FlashSuccess, v.Flash.Kind)

	c.Delete(context.Background(), console.View{Form: console.Form{CustomerID: "21"}})
	assert.Equal(t, []string{"delete-item", "delete-cart"}, api.calls)
}

func TestDeleteFailureUsesGenericMessage(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{Status: http.StatusNotFound, Message: "not found"}}
	c := newConsole(api)
	form := console.Form{CustomerID: "21", ProductID: "7"}

	v := c.Delete(context.Background(), console.View{Form: form})

	assert.Equal(t, form, v.Form)
	assert.Equal(t, console.MsgServerError, v.Flash.Message)
	assert.Equal(t, console.FlashDanger, v.Flash.Kind)
}

func TestCheckoutCartShapes(t *testing.T) {
	c := newConsole(&fakeAPI{result: &client.Result{Items: sampleItems[:2], IsList: true}})
	v := c.CheckoutCart(context.Background(), console.View{Form: console.Form{CustomerID: "21"}})
	assert.Len(t, v.Results, 2)
	assert.Equal(t, "7", v.Form.ProductID)
	assert.Equal(t, console.MsgCartCheckedOut, v.Flash.Message)

	c = newConsole(&fakeAPI{result: &client.Result{Item: &sampleItems[1]}})
	v = c.CheckoutCart(context.Background(), console.View{Form: console.Form{CustomerID: "21"}})
	assert.Empty(t, v.Results)
	assert.Equal(t, "8", v.Form.ProductID)
	assert.Equal(t, "true", v.Form.Checkout)
}

func TestInvalidInputSendsNoRequest(t *testing.T) {
	tests := []struct {
		name    string
		action  console.Action
		form    console.Form
		message string
	}{
		{"create without customer", console.ActionCreate, console.Form{ProductID: "7", Quantity: "1"}, "Customer ID is required"},
		{"create with text quantity", console.ActionCreate, console.Form{CustomerID: "1", ProductID: "7", Quantity: "abc"}, "Quantity must be a whole number"},
		{"update without product", console.ActionUpdate, console.Form{CustomerID: "1", Quantity: "1"}, "Product ID is required"},
		{"retrieve without customer", console.ActionRetrieve, console.Form{ProductID: "7"}, "Customer ID is required"},
		{"delete without customer", console.ActionDelete, console.Form{}, console.MsgServerError},
		{"delete with bad id", console.ActionDelete, console.Form{CustomerID: "abc"}, console.MsgServerError},
		{"search with bad id", console.ActionSearch, console.Form{CustomerID: "x1"}, "Customer ID must be a whole number"},
		{"checkout without quantity", console.ActionCheckout, console.Form{CustomerID: "1", ProductID: "2"}, "Quantity is required"},
		{"overflowing id", console.ActionCheckoutCart, console.Form{CustomerID: "99999999999999999999"}, "Customer ID is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := newConsole(api)

			v, err := c.Run(context.Background(), tt.action, console.View{Form: tt.form})
			require.NoError(t, err)

			assert.Empty(t, api.calls)
			assert.Equal(t, tt.message, v.Flash.Message)
			assert.Equal(t, console.FlashDanger, v.Flash.Kind)
		})
	}
}

func TestClearResetsEverything(t *testing.T) {
	api := &fakeAPI{}
	c := newConsole(api)

	v, err := c.Run(context.Background(), console.ActionClear, console.View{
		Form:    console.Form{CustomerID: "21", ProductID: "7", Checkout: "true"},
		Flash:   console.Flash{Message: console.MsgSuccess, Kind: console.FlashSuccess},
		Results: sampleItems,
	})
	require.NoError(t, err)

	assert.Equal(t, console.View{}, v)
	assert.Empty(t, v.Flash.Class())
	assert.Empty(t, api.calls)
}

func TestRowsSurviveNonListActions(t *testing.T) {
	item := &model.Item{ShopcartID: 21, ProductID: 7, Quantity: 5, Price: "9.99"}
	shown := console.View{Form: console.Form{CustomerID: "21", ProductID: "7", Quantity: "5", Price: "9.99"}, Results: sampleItems}

	for _, action := range []console.Action{console.ActionCreate, console.ActionUpdate, console.ActionDelete, console.ActionCheckout} {
		t.Run(string(action), func(t *testing.T) {
			c := newConsole(&fakeAPI{item: item})
			v, err := c.Run(context.Background(), action, shown)
			require.NoError(t, err)

			assert.Equal(t, console.FlashSuccess, v.Flash.Kind)
			assert.Equal(t, sampleItems, v.Results)
		})
	}

	t.Run("failed search", func(t *testing.T) {
		c := newConsole(&fakeAPI{err: &client.APIError{Status: http.StatusInternalServerError, Message: "boom"}})
		v := c.Search(context.Background(), shown)
		assert.Equal(t, console.FlashDanger, v.Flash.Kind)
		assert.Equal(t, sampleItems, v.Results)
	})

	t.Run("search replaces rows", func(t *testing.T) {
		c := newConsole(&fakeAPI{items: sampleItems[2:]})
		v := c.Search(context.Background(), shown)
		assert.Equal(t, sampleItems[2:], v.Results)
		assert.Equal(t, "9", v.Form.ProductID)
	})
}

func TestUnknownAction(t *testing.T) {
	c := newConsole(&fakeAPI{})
	_, err := c.Run(context.Background(), console.Action("refund"), console.View{})
	assert.Error(t, err)

	_, ok := console.ParseAction("checkout-cart")
	assert.True(t, ok)
	_, ok = console.ParseAction("refund")
	assert.False(t, ok)
}

func TestCreateAgainstServerCoercesQuantityOnly(t *testing.T) {
	var body map[string]any
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"shopcart_id":21,"product_id":7,"quantity":3,"price":9.99}`)
	}))
	t.Cleanup(server.Close)

	c := newConsole(client.New(server.URL, "/shopcarts", server.Client()))
	v := c.Create(context.Background(), console.View{Form: console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99"}})

	assert.Equal(t, "/shopcarts/21", path)
	assert.Equal(t, float64(3), body["quantity"])
	assert.Equal(t, "9.99", body["price"])
	assert.Equal(t, "9.99", v.Form.Price)
	assert.Equal(t, console.MsgSuccess, v.Flash.Message)
}

func TestDeleteNetworkErrorLeavesFormUntouched(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := newConsole(client.New(url, "/shopcarts", nil))
	form := console.Form{CustomerID: "21", ProductID: "7", Quantity: "3", Price: "9.99", Checkout: "false"}

	v := c.Delete(context.Background(), console.View{Form: form})

	assert.Equal(t, form, v.Form)
	assert.Equal(t, console.MsgServerError, v.Flash.Message)
	assert.Equal(t, console.FlashDanger, v.Flash.Kind)
}

func TestSearchAgainstServerSendsOnlyProductFilter(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	c := newConsole(client.New(server.URL, "/shopcarts", server.Client()))
	c.Search(context.Background(), console.View{Form: console.Form{ProductID: "7"}})

	assert.Equal(t, "product_id=7", rawQuery)
}
