package testdata

type Base struct {
	ID      int64
	Version int
}

type Account struct {
	*Base
	Name string
}
