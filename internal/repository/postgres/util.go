package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/NordCoder/Upwatch/internal/domain/document"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return document.ErrNotFound
	}
	return err
}
