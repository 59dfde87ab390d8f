// Package cart implementa a sacola de compras do cliente: uma lista de
// (produto, quantidade) com no máximo um item por produto.
package cart

import "github.com/shopspring/decimal"

// QuantidadeMaxima é o limite de unidades de um mesmo produto na sacola.
const QuantidadeMaxima = 999

// Product é o retrato do produto guardado na sacola.
type Product struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// LineItem é um produto com quantidade sempre positiva.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart mantém os itens na ordem em que foram adicionados. O valor zero é uma
// sacola vazia pronta para uso.
type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// Add soma qty ao item existente ou adiciona um novo item. qty menor que 1
// conta como 1; a soma para em QuantidadeMaxima.
func (c *Cart) Add(p Product, qty int) {
	qty = max(1, min(qty, QuantidadeMaxima))
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity = min(c.items[i].Quantity+qty, QuantidadeMaxima)
		return
	}
	c.items = append(c.items, LineItem{Product: p, Quantity: qty})
}

func (c *Cart) Remove(productID uint) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// UpdateQuantity define a quantidade do item, limitada a QuantidadeMaxima;
// qty <= 0 remove o item. Produtos fora da sacola são ignorados.
func (c *Cart) UpdateQuantity(productID uint, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.items[i].Quantity = min(qty, QuantidadeMaxima)
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items devolve uma cópia dos itens.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Quantity devolve a quantidade do produto na sacola, ou 0.
func (c *Cart) Quantity(productID uint) int {
	if i := c.index(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Quantities devolve o mapa produto → quantidade.
func (c *Cart) Quantities() map[uint]int {
	out := make(map[uint]int, len(c.items))
	for _, item := range c.items {
		out[item.Product.ID] = item.Quantity
	}
	return out
}

func (c *Cart) index(productID uint) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
