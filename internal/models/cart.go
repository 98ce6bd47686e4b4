package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CustomIDPrefix marks a cart line that has no catalog entry. The POS page
// sends such lines with a string id like "custom-3"; catalog lines carry a
// numeric id.
const CustomIDPrefix = "custom-"

// CartLine is one entry of a checkout cart, in submission order.
//
// For catalog lines only ProductID and Qty are meaningful: name and price
// are re-derived from the stored catalog row inside the checkout
// transaction, so a client-sent price can never influence the recorded
// total. For custom lines the caller asserts Name and Price directly.
type CartLine struct {
	Custom    bool
	ProductID int64
	Name      string
	Qty       int
	Price     float64
}

// UnmarshalJSON accepts the wire shape used by the POS page:
//
//	{"id": 3, "qty": 2}
//	{"id": "custom-1", "name": "Gift", "qty": 1, "price": 7.5}
//
// A numeric string id is treated as a catalog reference.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Name  string          `json:"name"`
		Qty   int             `json:"qty"`
		Price float64         `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Name = raw.Name
	l.Qty = raw.Qty
	l.Price = raw.Price

	if len(raw.ID) == 0 {
		return Validationf("id", "missing cart line id")
	}

	var sid string
	if err := json.Unmarshal(raw.ID, &sid); err == nil {
		if strings.HasPrefix(sid, CustomIDPrefix) {
			l.Custom = true
			return nil
		}
		pid, err := strconv.ParseInt(sid, 10, 64)
		if err != nil {
			return Validationf("id", "unrecognized cart line id %q", sid)
		}
		l.ProductID = pid
		return nil
	}

	var pid int64
	if err := json.Unmarshal(raw.ID, &pid); err != nil {
		return Validationf("id", "cart line id must be a number or a %q string", CustomIDPrefix)
	}
	l.ProductID = pid
	return nil
}

// MarshalJSON writes the same wire shape back out.
func (l CartLine) MarshalJSON() ([]byte, error) {
	if l.Custom {
		return json.Marshal(struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Qty   int     `json:"qty"`
			Price float64 `json:"price"`
		}{CustomIDPrefix + "0", l.Name, l.Qty, l.Price})
	}
	return json.Marshal(struct {
		ID  int64 `json:"id"`
		Qty int   `json:"qty"`
	}{l.ProductID, l.Qty})
}
