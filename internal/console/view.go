package console

import (
	"strconv"

	"github.com/erazemk/cartconsole/internal/model"
)

// Flash kinds.
const (
	FlashNone    = ""
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is the feedback line shown above the form.
type Flash struct {
	Message string
	Kind    string
}

// Class returns the CSS class for the flash kind.
func (f Flash) Class() string {
	switch f.Kind {
	case FlashSuccess:
		return "text-success"
	case FlashDanger:
		return "text-danger"
	default:
		return ""
	}
}

// Form holds the five console input fields as text.
type Form struct {
	CustomerID string `validate:"omitempty,number"`
	ProductID  string `validate:"omitempty,number"`
	Quantity   string `validate:"omitempty,number"`
	Price      string
	Checkout   string
}

// View is the console state: the form, the flash and the rows of the last
// collection response. Each action starts from the previous View and keeps its
// rows unless the action lists items or clears. It only changes through its
// methods.
type View struct {
	Form    Form
	Flash   Flash
	Results []model.Item
}

// Columns is the fixed header of the results table.
var Columns = []string{"Customer ID", "Product ID", "Quantity", "Price", "Checkout"}

// begin starts an action from current: the submitted form, no flash, and the
// rows already on display.
func begin(current View) View {
	return View{Form: current.Form.Trimmed(), Results: current.Results}
}

// populate copies an item into the form.
func (v *View) populate(item model.Item) {
	v.Form = Form{
		CustomerID: strconv.FormatInt(item.ShopcartID, 10),
		ProductID:  strconv.FormatInt(item.ProductID, 10),
		Quantity:   strconv.Itoa(item.Quantity),
		Price:      string(item.Price),
		Checkout:   item.Checkout.String(),
	}
}

func (v *View) clearForm() {
	v.Form = Form{}
}

// showResults replaces the table rows and copies the first row into the form.
func (v *View) showResults(items []model.Item) {
	v.Results = items
	if len(items) > 0 {
		v.populate(items[0])
	}
}

func (v *View) succeed(msg string) {
	v.Flash = Flash{Message: msg, Kind: FlashSuccess}
}

func (v *View) fail(msg string) {
	v.Flash = Flash{Message: msg, Kind: FlashDanger}
}

// reset returns the view to its initial state: empty form, no flash, header-only table.
func (v *View) reset() {
	*v = View{}
}
