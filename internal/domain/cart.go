package domain

type Cart struct {
	ID     int64      `db:"id"`
	UserID int64      `db:"user_id"`
	Items  []CartItem `db:"items"`
}

type CartItem struct {
	ID        int64 `db:"id"`
	CartID    int64 `db:"cart_id"`
	ProductID int64 `db:"product_id"`
	Quantity  int32 `db:"quantity"`
}
