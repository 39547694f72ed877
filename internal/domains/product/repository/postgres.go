package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"productstore-backend/internal/domains/product/model"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const productColumns = `id, user_id, title, content, cost, banner_image, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Content,
		&p.Cost, &p.BannerImage, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) Insert(ctx context.Context, p *model.Product) (*model.Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO products (id, user_id, title, content, cost, banner_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s
	`, productColumns)

	return scanProduct(r.pool.QueryRow(ctx, query,
		uuid.New(), p.OwnerID, p.Title, p.Content, p.Cost, p.BannerImage,
	))
}

func (r *postgresRepository) SelectByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, productColumns)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Content,
			&p.Cost, &p.BannerImage, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// Update merges only supplied fields; the WHERE clause is owner-scoped so a
// guessed id belonging to another owner never matches.
func (r *postgresRepository) Update(ctx context.Context, id, ownerID uuid.UUID, patch model.Patch) (*model.Product, error) {
	setClauses := []string{"title = $1", "content = $2", "cost = $3"}
	args := []interface{}{patch.Title, patch.Content, patch.Cost}
	argIndex := 4

	if patch.BannerImage != nil {
		setClauses = append(setClauses, fmt.Sprintf("banner_image = $%d", argIndex))
		args = append(args, *patch.BannerImage)
		argIndex++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`
		UPDATE products SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIndex, argIndex+1, productColumns)

	return scanProduct(r.pool.QueryRow(ctx, query, args...))
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND user_id = $2`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}
