package domain

// Address rows referenced by orders are copies: an address the user keeps
// in their address book (Saved=true) is never attached to an order
// directly, so later edits to the book do not rewrite order history.
type Address struct {
	ID      int64  `db:"id"`
	UserID  int64  `db:"user_id"`
	Street  string `db:"street"`
	City    string `db:"city"`
	State   string `db:"state"`
	Zip     string `db:"zip"`
	Country string `db:"country"`
	Saved   bool   `db:"saved"`
}
