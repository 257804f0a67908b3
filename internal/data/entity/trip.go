package entity

// Trip is owned by the trip catalogue; the booking core only reads it.
type Trip struct {
	Base
	Name     string `db:"name"`
	Capacity int    `db:"capacity"`
}
