package client

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/erazemk/cartconsole/internal/model"
)

// Result holds a response that may be a single item or a collection.
type Result struct {
	Item   *model.Item
	Items  []model.Item
	IsList bool
}

func decodeResult(data []byte) (*Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Result{}, nil
	}

	if data[0] == '[' {
		items := []model.Item{}
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.Wrap(err, "decoding item list")
		}
		return &Result{Items: items, IsList: true}, nil
	}

	var item model.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, errors.Wrap(err, "decoding item")
	}
	return &Result{Item: &item}, nil
}
