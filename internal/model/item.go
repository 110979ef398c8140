package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is one product line in a customer's shopcart, as returned by the shopcart API.
// The shopcart id is the customer id.
type Item struct {
	ShopcartID int64  `json:"shopcart_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Price      Price  `json:"price"`
	Checkout   Flag   `json:"checkout"`
	TimeAdded  string `json:"time_added,omitempty"`
}

// ItemRequest is the body sent when creating, updating or checking out an item.
// Checkout is omitted from checkout requests, the path already says it.
type ItemRequest struct {
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	Checkout  *Flag     `json:"checkout,omitempty"`
	TimeAdded time.Time `json:"time_added"`
}

// Price is a decimal amount kept as text. It decodes from a JSON string or number
// and always encodes as a JSON string.
type Price string

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding price: %w", err)
		}
		*p = Price(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decoding price: %w", err)
		}
		*p = Price(n.String())
	}
	return nil
}

// Flag is the checkout flag. It encodes as a JSON boolean and decodes from any of
// true/false, "true"/"false", 1/0 or "1"/"0".
type Flag bool

// String returns "true" or "false".
func (f Flag) String() string {
	return strconv.FormatBool(bool(f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	v, err := ParseFlag(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFlag parses a checkout flag from its text form. Empty and "null" are false.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0", "", "null":
		return false, nil
	default:
		return false, fmt.Errorf("invalid checkout flag %q", s)
	}
}

// FlagPtr returns a pointer to f, for optional request fields.
func FlagPtr(f Flag) *Flag {
	return &f
}
