package domain

import "time"

type Product struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	Price            int64     `db:"price"`
	DiscountedPrice  int64     `db:"discounted_price"`
	StockQuantity    int64     `db:"stock_quantity"`
	MainImage        string    `db:"main_image"`
	AdditionalImages []string  `db:"additional_images"`
	Category         string    `db:"category"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
