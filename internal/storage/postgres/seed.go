package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
)

const (
	upsertConsoleSQL = `INSERT INTO consoles (id, description) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET description = EXCLUDED.description`

	upsertGameSQL = `INSERT INTO videogames
		(id, title, description, console_id, has_discount, price, state, image, image2, image3, mini)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			console_id = EXCLUDED.console_id, has_discount = EXCLUDED.has_discount,
			price = EXCLUDED.price, state = EXCLUDED.state, image = EXCLUDED.image,
			image2 = EXCLUDED.image2, image3 = EXCLUDED.image3, mini = EXCLUDED.mini`

	deletePromotionsSQL = `DELETE FROM promotions WHERE videogame_id = $1`

	insertPromotionSQL = `INSERT INTO promotions
		(videogame_id, position, id, description, discount, start_date, end_date, active, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	upsertCategorySQL = `INSERT INTO categories (id, description) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET description = EXCLUDED.description`

	deleteGameCategoriesSQL = `DELETE FROM videogame_categories WHERE videogame_id = $1`

	insertGameCategorySQL = `INSERT INTO videogame_categories (videogame_id, category_id, position)
		VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`

	upsertUserSQL = `INSERT INTO users
		(id, name, lastname, dni, address, email, username, password_hash, role_id, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, lastname = EXCLUDED.lastname, dni = EXCLUDED.dni,
			address = EXCLUDED.address, email = EXCLUDED.email, username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash, role_id = EXCLUDED.role_id, avatar = EXCLUDED.avatar`
)

// Seed upserts games and accounts in one transaction. Promotions and
// category links of seeded games are replaced.
func Seed(ctx context.Context, pool *pgxpool.Pool, games []game.Detail, accounts []user.Account) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, g := range games {
			if err := seedGame(ctx, tx, g); err != nil {
				return fmt.Errorf("seeding videogame %d: %w", g.ID, err)
			}
		}
		for _, a := range accounts {
			if err := seedAccount(ctx, tx, a); err != nil {
				return fmt.Errorf("seeding user %q: %w", a.User.Username, err)
			}
		}
		return nil
	})
}

func seedGame(ctx context.Context, tx pgx.Tx, g game.Detail) error {
	var consoleID *int
	if g.Console != nil {
		if _, err := tx.Exec(ctx, upsertConsoleSQL, g.Console.ID, g.Console.Description); err != nil {
			return err
		}
		consoleID = &g.Console.ID
	}

	if _, err := tx.Exec(ctx, upsertGameSQL,
		g.ID, g.Title, g.Description, consoleID, g.HasDiscount, g.Price, g.State,
		g.Image, g.Image2, g.Image3, g.Mini,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, deletePromotionsSQL, g.ID); err != nil {
		return err
	}
	for i, p := range g.Promotions {
		if _, err := tx.Exec(ctx, insertPromotionSQL,
			g.ID, i, p.ID, p.Description, p.Discount, p.StartDate, p.EndDate, p.Active, p.Image,
		); err != nil {
			return fmt.Errorf("promotion %d: %w", p.ID, err)
		}
	}

	if _, err := tx.Exec(ctx, deleteGameCategoriesSQL, g.ID); err != nil {
		return err
	}
	for i, c := range g.Categories {
		if _, err := tx.Exec(ctx, upsertCategorySQL, c.ID, c.Description); err != nil {
			return fmt.Errorf("category %d: %w", c.ID, err)
		}
		if _, err := tx.Exec(ctx, insertGameCategorySQL, g.ID, c.ID, i); err != nil {
			return fmt.Errorf("category %d: %w", c.ID, err)
		}
	}
	return nil
}

func seedAccount(ctx context.Context, tx pgx.Tx, a user.Account) error {
	u := a.User
	var roleID *int
	if u.Role != nil {
		if _, err := tx.Exec(ctx, upsertRoleSQL, u.Role.ID, u.Role.Description); err != nil {
			return err
		}
		roleID = &u.Role.ID
	}

	_, err := tx.Exec(ctx, upsertUserSQL,
		u.ID, u.Name, u.Lastname, u.DNI, u.Address, u.Email, u.Username,
		a.PasswordHash, roleID, u.Avatar,
	)
	return err
}
