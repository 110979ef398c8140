package model

// APISettings locates the shopcart API the console talks to.
type APISettings struct {
	BaseURL string `json:"base_url"`
	Prefix  string `json:"prefix"`
}

// DefaultPrefix is the resource prefix used when none is configured.
const DefaultPrefix = "/shopcarts"
