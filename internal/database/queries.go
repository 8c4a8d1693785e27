package database

// Catalog queries. Menu items and products live in separate tables; the
// per-type constant pairs are selected through the item-type whitelist, never
// by interpolating request input into SQL.
const (
	GetMenuStockSQL = `
		SELECT stock FROM menu_items WHERE id = $1`

	GetProductStockSQL = `
		SELECT stock FROM products WHERE id = $1`

	// Conditional decrement: the WHERE clause makes the check-then-decrement
	// atomic under the row lock, so stock can never go negative.
	DecrementMenuStockSQL = `
		UPDATE menu_items SET stock = stock - $1 WHERE id = $2 AND stock >= $1`

	DecrementProductStockSQL = `
		UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`

	ListMenuItemsSQL = `
		SELECT id, name, price, stock, description FROM menu_items ORDER BY id`

	ListProductsSQL = `
		SELECT id, name, price, stock, description FROM products ORDER BY id`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, price, stock, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	InsertProductSQL = `
		INSERT INTO products (name, price, stock, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	UpdateMenuItemSQL = `
		UPDATE menu_items SET name = $1, price = $2, stock = $3, description = $4
		WHERE id = $5`

	UpdateProductSQL = `
		UPDATE products SET name = $1, price = $2, stock = $3, description = $4
		WHERE id = $5`
)

// Cart queries
const (
	LoadCartSQL = `
		SELECT item_id, item_type, item_name, price, quantity
		FROM user_carts
		WHERE user_id = $1
		ORDER BY item_type, item_id`

	DeleteCartSQL = `
		DELETE FROM user_carts WHERE user_id = $1`

	InsertCartLineSQL = `
		INSERT INTO user_carts (user_id, item_id, item_type, item_name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// Order queries
const (
	// Applied per checkout transaction so a commit blocked on a contended
	// stock row aborts instead of waiting behind the holder indefinitely.
	SetLockTimeoutSQL = `SET LOCAL lock_timeout = '5s'`

	InsertOrderSQL = `
		INSERT INTO transactions (user_id, customer_name, customer_email, customer_phone,
			customer_address, total_amount, payment_proof, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	InsertOrderLineSQL = `
		INSERT INTO transaction_items (transaction_id, item_name, item_type, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	ListOrdersByUserSQL = `
		SELECT t.id, t.customer_name, t.total_amount, t.status, t.created_at,
			   COALESCE(string_agg(i.item_name || ' (' || i.quantity || 'x)', ', ' ORDER BY i.id), '')
		FROM transactions t
		LEFT JOIN transaction_items i ON i.transaction_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC`

	ListAllOrdersSQL = `
		SELECT t.id, t.customer_name, t.total_amount, t.status, t.created_at,
			   COALESCE(string_agg(i.item_name || ' (' || i.quantity || 'x)', ', ' ORDER BY i.id), '')
		FROM transactions t
		LEFT JOIN transaction_items i ON i.transaction_id = t.id
		GROUP BY t.id
		ORDER BY t.created_at DESC`

	GetOrderSQL = `
		SELECT id, user_id, customer_name, customer_email, customer_phone,
			   customer_address, total_amount, payment_proof, status, created_at
		FROM transactions WHERE id = $1`

	GetOrderOwnerSQL = `
		SELECT user_id, status FROM transactions WHERE id = $1`

	GetOrderLinesSQL = `
		SELECT id, transaction_id, item_name, item_type, quantity, price
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY id`

	UpdateOrderStatusSQL = `
		UPDATE transactions SET status = $1 WHERE id = $2`

	DeleteOrderSQL = `
		DELETE FROM transactions WHERE id = $1`
)
