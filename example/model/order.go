package model

type Order struct {
	id       int64
	number   string `db:",unique,size:32"`
	total    float64
	customer *Customer
}

func NewOrder(c *Customer, number string, total float64) Order {
	o := Order{number: number, total: total, customer: c}
	c.orders = append(c.orders, o)
	return o
}

func (o Order) Number() string { return o.number }
func (o Order) Total() float64 { return o.total }
