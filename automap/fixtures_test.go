package automap_test

import (
	"database/sql"
	"time"
)

type Author struct {
	ID      int
	Name    string `db:",size:100"`
	Email   string `db:"email_address,unique"`
	Bio     *string
	Books   []Book
	Secret  string `db:"-"`
	Meta    map[string]string
	notes   string
	Created time.Time
}

type Book struct {
	ID        int64
	Title     string
	Price     float64
	Subtitle  sql.NullString
	Author    *Author
	Tags      []Tag `rel:"many_to_many"`
	Published *time.Time
}

type Tag struct {
	ID   int
	Name string
}

type Address struct {
	Street string
	City   string
	Geo    Geo
}

type Geo struct {
	Lat float64
	Lng float64
}

type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Publisher struct {
	Timestamps
	ID      int
	Name    string
	Address Address
	Billing Address `db:"bill"`
}

type Customer struct {
	id        int
	name      string
	createdAt time.Time
	address   Address
	orders    []Order
	Public    string
}

type Order struct {
	id       int64
	total    float64
	customer *Customer
}

type legacyUser struct {
	ID   int
	Name string
}

func (legacyUser) TableName() string { return "tbl_users" }

type ptrNamer struct {
	ID int
}

func (*ptrNamer) TableName() string { return "custom_ptrs" }

type NoIdentity struct {
	Name string
}

type Person struct {
	ID      int64
	Name    string
	Friends []Person `rel:"many_to_many"`
}

type Base struct {
	ID        int64
	CreatedAt time.Time
}

type Account struct {
	*Base
	Name string
}
