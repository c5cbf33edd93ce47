package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

// SettingRepo implementación del puerto SettingRepository sobre PostgreSQL.
type SettingRepo struct {
	q Querier
}

// NewSettingRepository construye el adaptador de configuración clave/valor.
func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

// Get obtiene un setting por clave. Devuelve nil si no existe.
func (r *SettingRepo) Get(key string) (*entity.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var s entity.Setting
	err := r.q.QueryRow(context.Background(), query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// Set inserta o actualiza un setting.
func (r *SettingRepo) Set(setting *entity.Setting) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// List lista toda la configuración.
func (r *SettingRepo) List() ([]*entity.Setting, error) {
	rows, err := r.q.Query(context.Background(), `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Setting
	for rows.Next() {
		var s entity.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
