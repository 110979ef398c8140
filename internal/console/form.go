package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Form field names, as used by the validator.
const (
	fieldCustomerID = "CustomerID"
	fieldProductID  = "ProductID"
	fieldQuantity   = "Quantity"
)

var fieldLabels = map[string]string{
	fieldCustomerID: "Customer ID",
	fieldProductID:  "Product ID",
	fieldQuantity:   "Quantity",
}

// Trimmed returns the form with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		CustomerID: strings.TrimSpace(f.CustomerID),
		ProductID:  strings.TrimSpace(f.ProductID),
		Quantity:   strings.TrimSpace(f.Quantity),
		Price:      strings.TrimSpace(f.Price),
		Checkout:   strings.TrimSpace(f.Checkout),
	}
}

func (f Form) value(field string) string {
	switch field {
	case fieldCustomerID:
		return f.CustomerID
	case fieldProductID:
		return f.ProductID
	case fieldQuantity:
		return f.Quantity
	default:
		return ""
	}
}

// check rejects non-integer ids and quantities and any missing required field.
// The returned error text is shown to the user as is.
func (f Form) check(required ...string) error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s must be a whole number", fieldLabels[verrs[0].Field()])
		}
		return err
	}

	// The digits-only tag still lets through values that overflow.
	for _, field := range []string{fieldCustomerID, fieldProductID, fieldQuantity} {
		bitSize := 64
		if field == fieldQuantity {
			bitSize = 32
		}
		if v := f.value(field); v != "" {
			if _, err := strconv.ParseInt(v, 10, bitSize); err != nil {
				return fmt.Errorf("%s is out of range", fieldLabels[field])
			}
		}
	}

	for _, field := range required {
		if err := validate.Var(f.value(field), "required"); err != nil {
			return fmt.Errorf("%s is required", fieldLabels[field])
		}
	}
	return nil
}

// ids holds the parsed identifiers of a checked form.
type ids struct {
	customer    int64
	product     int64
	hasCustomer bool
	hasProduct  bool
}

func (f Form) ids() ids {
	var out ids
	if f.CustomerID != "" {
		out.customer, _ = strconv.ParseInt(f.CustomerID, 10, 64)
		out.hasCustomer = true
	}
	if f.ProductID != "" {
		out.product, _ = strconv.ParseInt(f.ProductID, 10, 64)
		out.hasProduct = true
	}
	return out
}

func (f Form) quantity() int {
	q, _ := strconv.Atoi(f.Quantity)
	return q
}
