// Package model holds domain types that keep their state private.
package model

import "time"

type Address struct {
	Street string
	City   string
}

// Customer exposes behaviour, not fields. automap reads the unexported
// fields through the private persistence model.
type Customer struct {
	id        int64
	name      string
	email     string `db:",unique,size:120"`
	address   Address
	createdAt time.Time
	orders    []Order
}

func NewCustomer(name, email string, address Address, now time.Time) *Customer {
	return &Customer{name: name, email: email, address: address, createdAt: now}
}

func (c *Customer) Name() string         { return c.name }
func (c *Customer) Email() string        { return c.email }
func (c *Customer) Address() Address     { return c.address }
func (c *Customer) Orders() []Order      { return c.orders }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
