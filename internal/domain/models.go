package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ProductID is the backend-assigned product identifier. The backend may hand out
// numbers or strings; both compare by their text.
type ProductID string

func (id ProductID) String() string { return string(id) }

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids as numbers so numeric backends get back
// what they handed out. Anything else, "0412" or "+5" included, stays a string.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type Product struct {
	ID          ProductID `json:"id,omitempty" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Image       string    `json:"image,omitempty" db:"image"`
}

func FindProduct(products []Product, id ProductID) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

type CartItem struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	Image    string    `json:"image,omitempty"`
}

// OrderRecord is one posted order line. The backend keeps one record per cart line.
type OrderRecord struct {
	ID        ProductID `json:"id,omitempty" db:"id"`
	ProductID ProductID `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Date      string    `json:"date" db:"date"`
}

type LastOrderItem struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	Image    string    `json:"image,omitempty"`
	Total    float64   `json:"total"`
}

// LastOrder is the single-use snapshot shown on the confirmation page.
type LastOrder struct {
	Items []LastOrderItem `json:"items"`
	Total float64         `json:"total"`
	Date  string          `json:"date"`
}
