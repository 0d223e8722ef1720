package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/db"
)

// Subscriber — подписчики в Postgres.
type Subscriber struct {
	db *db.PgTxManager
}

// NewSubscriber instance
func NewSubscriber(db *db.PgTxManager) *Subscriber {
	return &Subscriber{db: db}
}

func (s *Subscriber) Add(
	ctx context.Context,
	sub *models.Subscriber,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.AddSubscriber: %w", err)
		}
	}()
	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx,
				`INSERT INTO subscribers (chat_id, name, created_at)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (chat_id) DO NOTHING`,
				sub.ChatID, sub.Name, sub.CreatedAt,
			)
			return err
		})
}

func (s *Subscriber) Remove(
	ctx context.Context,
	chatID int64,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.RemoveSubscriber: %w", err)
		}
	}()
	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx,
				`DELETE FROM subscribers WHERE chat_id = $1`, chatID)
			return err
		})
}

func (s *Subscriber) List(
	ctx context.Context,
) (out []*models.Subscriber, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListSubscribers: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			rows, err := tx.Query(ctxTx,
				`SELECT chat_id, name, created_at FROM subscribers ORDER BY created_at`)
			if err != nil {
				return err
			}
			defer rows.Close()

			for rows.Next() {
				var sub models.Subscriber
				if err := rows.Scan(&sub.ChatID, &sub.Name, &sub.CreatedAt); err != nil {
					return err
				}
				out = append(out, &sub)
			}
			return rows.Err()
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}
