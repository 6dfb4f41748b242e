package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const (
	productColumns = `id::text AS id, name, description, price, category, brand, material, sku,
		inventory, sizes, colors, images, featured, active, created_at, updated_at`

	pgUniqueViolation     = "23505"
	pgInvalidTextForUUID  = "22P02"
	pgCheckViolation      = "23514"
	productsSKUConstraint = "products_sku_key"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Внутри транзакции из контекста чтения по id и sku берут блокировку строки.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает товары по фильтру, новые первыми.
func (p *ProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query, args := buildListQuery(filter)
	return p.queryMany(ctx, query, args...)
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1` + lockClause(ctx)
	return p.queryOne(ctx, query, id)
}

// GetByIDs возвращает найденные товары одним запросом. Отсутствующие идентификаторы пропускаются.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			uuids = append(uuids, parsed)
		}
	}
	if len(uuids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	return p.queryMany(ctx, query, uuids)
}

func (p *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1` + lockClause(ctx)
	return p.queryOne(ctx, query, sku)
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)

	query := `
		INSERT INTO products (
			id, name, description, price, category, brand, material, sku,
			inventory, sizes, colors, images, featured, active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + productColumns

	return p.queryOne(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.Category, m.Brand, m.Material, m.SKU,
		m.Inventory, m.Sizes, m.Colors, m.Images, m.Featured, m.Active, m.CreatedAt,
	)
}

// Update перезаписывает все изменяемые поля товара.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)

	query := `
		UPDATE products SET
			name = $2, description = $3, price = $4, category = $5, brand = $6,
			material = $7, sku = $8, inventory = $9, sizes = $10, colors = $11,
			images = $12, featured = $13, active = $14, updated_at = $15
		WHERE id = $1
		RETURNING ` + productColumns

	return p.queryOne(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.Category, m.Brand, m.Material, m.SKU,
		m.Inventory, m.Sizes, m.Colors, m.Images, m.Featured, m.Active, m.UpdatedAt,
	)
}

func (p *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) queryOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) queryMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return p.conv.ToArrEntity(models), nil
}

// buildListQuery собирает выборку каталога. Неактивные отсекаются первыми.
func buildListQuery(filter domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if !filter.IncludeInactive {
		conds = append(conds, "active = true")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.FeaturedOnly {
		conds = append(conds, "featured = true")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(productColumns)
	b.WriteString(" FROM products")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")

	return b.String(), args
}

// lockClause блокирует строку до конца транзакции, если она есть в контексте.
func lockClause(ctx context.Context) string {
	if _, err := tr.TxFromCtx(ctx); err == nil {
		return " FOR UPDATE"
	}
	return ""
}

// mapError переводит ошибки драйвера в таксономию pkg/e.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return e.ErrProductNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == productsSKUConstraint {
				return e.ErrSKUConflict
			}
			return e.New(e.ErrConflict, pgErr.Detail)
		case pgInvalidTextForUUID:
			return e.ErrProductNotFound
		case pgCheckViolation:
			return e.Validation("constraint %s violated", pgErr.ConstraintName)
		}
	}

	return e.Unavailable(err)
}
