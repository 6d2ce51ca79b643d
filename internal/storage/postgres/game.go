package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/domain/game"
)

const (
	// first_discount is the fraction of the first promotion, NULL without one.
	listGamesSQL = `SELECT v.id, v.console_id, v.title, v.has_discount, v.price, v.state, v.mini,
		(SELECT p.discount FROM promotions p WHERE p.videogame_id = v.id ORDER BY p.position LIMIT 1) AS first_discount
		FROM videogames v ORDER BY v.id`

	getGameSQL = `SELECT v.id, v.title, v.description, v.has_discount, v.price, v.state,
		v.image, v.image2, v.image3, v.mini, c.id, c.description
		FROM videogames v LEFT JOIN consoles c ON c.id = v.console_id
		WHERE v.id = $1`

	listPromotionsSQL = `SELECT id, description, discount, start_date, end_date, active, image
		FROM promotions WHERE videogame_id = $1 ORDER BY position`

	listCategoriesSQL = `SELECT c.id, c.description
		FROM videogame_categories vc JOIN categories c ON c.id = vc.category_id
		WHERE vc.videogame_id = $1 ORDER BY vc.position`
)

var _ game.Repository = (*GameRepository)(nil)

// GameRepository implements game.Repository backed by PostgreSQL.
type GameRepository struct {
	pool *pgxpool.Pool
}

// NewGameRepository returns a GameRepository that uses the given pool.
func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

// List returns the catalog ordered by id, each item reporting its first
// promotion as the discount.
func (r *GameRepository) List(ctx context.Context) ([]game.Videogame, error) {
	rows, err := r.pool.Query(ctx, listGamesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing videogames: %w", err)
	}
	return pgx.CollectRows(rows, scanListing)
}

// GetByID returns game.ErrNotFound for unknown ids.
func (r *GameRepository) GetByID(ctx context.Context, id int) (*game.Detail, error) {
	rows, err := r.pool.Query(ctx, getGameSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting videogame %d: %w", id, err)
	}
	g, err := pgx.CollectExactlyOneRow(rows, scanDetail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrNotFound
		}
		return nil, fmt.Errorf("getting videogame %d: %w", id, err)
	}

	rows, err = r.pool.Query(ctx, listPromotionsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing promotions of %d: %w", id, err)
	}
	if g.Promotions, err = pgx.CollectRows(rows, scanPromotion); err != nil {
		return nil, fmt.Errorf("listing promotions of %d: %w", id, err)
	}

	rows, err = r.pool.Query(ctx, listCategoriesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing categories of %d: %w", id, err)
	}
	if g.Categories, err = pgx.CollectRows(rows, scanCategory); err != nil {
		return nil, fmt.Errorf("listing categories of %d: %w", id, err)
	}

	return &g, nil
}

// scanListing builds the list item through game.Detail.Summary so the
// fixture and database stores report discounts the same way.
func scanListing(row pgx.CollectableRow) (game.Videogame, error) {
	var (
		g             game.Detail
		consoleID     *int
		firstDiscount *decimal.Decimal
	)
	if err := row.Scan(&g.ID, &consoleID, &g.Title, &g.HasDiscount, &g.Price, &g.State, &g.Mini, &firstDiscount); err != nil {
		return game.Videogame{}, err
	}
	if consoleID != nil {
		g.Console = &game.Console{ID: *consoleID}
	}
	if firstDiscount != nil {
		g.Promotions = []game.Promotion{{Discount: *firstDiscount}}
	}
	return g.Summary(), nil
}

func scanDetail(row pgx.CollectableRow) (game.Detail, error) {
	var (
		g                  game.Detail
		consoleID          *int
		consoleDescription *string
	)
	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &g.HasDiscount, &g.Price, &g.State,
		&g.Image, &g.Image2, &g.Image3, &g.Mini, &consoleID, &consoleDescription,
	)
	if consoleID != nil {
		g.Console = &game.Console{ID: *consoleID}
		if consoleDescription != nil {
			g.Console.Description = *consoleDescription
		}
	}
	return g, err
}

func scanPromotion(row pgx.CollectableRow) (game.Promotion, error) {
	var p game.Promotion
	err := row.Scan(&p.ID, &p.Description, &p.Discount, &p.StartDate, &p.EndDate, &p.Active, &p.Image)
	return p, err
}

func scanCategory(row pgx.CollectableRow) (game.Category, error) {
	var c game.Category
	err := row.Scan(&c.ID, &c.Description)
	return c, err
}
