package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/google/uuid"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
	"github.com/optilens/backoffice/internal/app/storage"
)

//go:embed schema.sql
var schema string

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.CatalogStore = (*Store)(nil)
var _ storage.VariantStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.RetailStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// --- CatalogStore -----------------------------------------------------------

func (s *Store) CreateBrand(ctx context.Context, b catalog.Brand) (catalog.Brand, error) {
	b.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lens_brands (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`, b.Name, b.CreatedAt).Scan(&b.ID)
	if err != nil {
		return catalog.Brand{}, err
	}
	return b, nil
}

func (s *Store) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM lens_brands
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Brand
	for rows.Next() {
		var b catalog.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lens_products (brand_id, name, option_type, refractive_index, selling_price, purchase_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.BrandID, p.Name, p.OptionType, p.RefractiveIndex, p.SellingPrice, p.PurchasePrice, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	existing, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return catalog.Product{}, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE lens_products
		SET brand_id = $2, name = $3, option_type = $4, refractive_index = $5,
		    selling_price = $6, purchase_price = $7, active = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.BrandID, p.Name, p.OptionType, p.RefractiveIndex, p.SellingPrice, p.PurchasePrice, p.Active, p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return catalog.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, brand_id, name, option_type, refractive_index, selling_price, purchase_price, active, created_at, updated_at
		FROM lens_products
		WHERE id = $1
	`, id)

	var p catalog.Product
	if err := row.Scan(&p.ID, &p.BrandID, &p.Name, &p.OptionType, &p.RefractiveIndex, &p.SellingPrice, &p.PurchasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, brandID int64) ([]catalog.Product, error) {
	query := `
		SELECT id, brand_id, name, option_type, refractive_index, selling_price, purchase_price, active, created_at, updated_at
		FROM lens_products
	`
	args := []interface{}{}
	if brandID != 0 {
		query += ` WHERE brand_id = $1`
		args = append(args, brandID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Name, &p.OptionType, &p.RefractiveIndex, &p.SellingPrice, &p.PurchasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// --- VariantStore -----------------------------------------------------------

func (s *Store) ListVariants(ctx context.Context, productID int64) ([]catalog.Variant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, sph, cyl, price_adjustment, stock, active, created_at, updated_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Variant
	for rows.Next() {
		var v catalog.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Sph, &v.Cyl, &v.PriceAdjustment, &v.Stock, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (s *Store) BulkCreateVariants(ctx context.Context, productID int64, variants []catalog.Variant) (int, error) {
	if len(variants) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, v := range variants {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, sph, cyl, price_adjustment, stock, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
		`, productID, v.Sph, v.Cyl, v.PriceAdjustment, v.Stock, now); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(variants), nil
}

func (s *Store) BulkUpdatePrices(ctx context.Context, productID int64, updates []storage.PriceUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, u := range updates {
		result, err := tx.ExecContext(ctx, `
			UPDATE product_variants
			SET price_adjustment = $3, updated_at = $4
			WHERE id = $1 AND product_id = $2
		`, u.VariantID, productID, u.PriceAdjustment, now)
		if err != nil {
			return 0, err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return 0, sql.ErrNoRows
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(updates), nil
}

// --- OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return order.Order{}, err
	}
	defer tx.Rollback()

	o.CreatedAt = time.Now().UTC()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO retail_orders (store_id, order_type, memo, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, o.StoreID, o.OrderType, o.Memo, o.TotalAmount, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return order.Order{}, err
	}

	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		it := o.Items[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO retail_order_items (id, order_id, product_id, sph, cyl, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, it.ID, o.ID, it.ProductID, it.Sph, it.Cyl, it.Quantity, it.UnitPrice, i); err != nil {
			return order.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, order_type, memo, total_amount, created_at
		FROM retail_orders
		WHERE id = $1
	`, id)

	var o order.Order
	if err := row.Scan(&o.ID, &o.StoreID, &o.OrderType, &o.Memo, &o.TotalAmount, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}

	items, err := s.orderItems(ctx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, storeID int64) ([]order.Order, error) {
	query := `
		SELECT id, store_id, order_type, memo, total_amount, created_at
		FROM retail_orders
	`
	args := []interface{}{}
	if storeID != 0 {
		query += ` WHERE store_id = $1`
		args = append(args, storeID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.StoreID, &o.OrderType, &o.Memo, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := s.orderItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int64) ([]order.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, sph, cyl, quantity, unit_price
		FROM retail_order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var it order.LineItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Sph, &it.Cyl, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// --- RetailStore ------------------------------------------------------------

func (s *Store) CreateStore(ctx context.Context, st retailer.Store) (retailer.Store, error) {
	st.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO retail_stores (code, name, phone, outstanding_amount, payment_term_days, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, st.Code, st.Name, st.Phone, st.OutstandingAmount, st.PaymentTermDays, st.Active, st.CreatedAt).Scan(&st.ID)
	if err != nil {
		return retailer.Store{}, err
	}
	return st, nil
}

func (s *Store) GetStore(ctx context.Context, id int64) (retailer.Store, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, phone, outstanding_amount, payment_term_days, active, created_at
		FROM retail_stores
		WHERE id = $1
	`, id)

	var st retailer.Store
	if err := row.Scan(&st.ID, &st.Code, &st.Name, &st.Phone, &st.OutstandingAmount, &st.PaymentTermDays, &st.Active, &st.CreatedAt); err != nil {
		return retailer.Store{}, err
	}
	return st, nil
}

func (s *Store) ListStores(ctx context.Context) ([]retailer.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, phone, outstanding_amount, payment_term_days, active, created_at
		FROM retail_stores
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []retailer.Store
	for rows.Next() {
		var st retailer.Store
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Phone, &st.OutstandingAmount, &st.PaymentTermDays, &st.Active, &st.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
