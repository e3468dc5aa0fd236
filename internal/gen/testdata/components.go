package testdata

import "time"

type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	Street string
	City   string
}

type Customer struct {
	Timestamps
	id      int64
	name    string
	address Address
	orders  []Order
	Billing Address `db:"bill"`
}

func (Customer) TableName() string { return "clients" }

type Order struct {
	id, number int64
	total      float64
	customer   *Customer
}

func (o *Order) TableName() string {
	if o == nil {
		return "orders"
	}
	return "orders"
}
