package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

// ContainerRepo implementación del puerto ContainerRepository sobre PostgreSQL.
type ContainerRepo struct {
	q Querier
}

// NewContainerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContainerRepository(q Querier) *ContainerRepo {
	return &ContainerRepo{q: q}
}

// Create persiste un nuevo contenedor.
func (r *ContainerRepo) Create(container *entity.Container) error {
	query := `
		INSERT INTO containers (id, supplier_id, code, status, eta, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		container.ID, container.SupplierID, container.Code, container.Status,
		container.ETA, container.ReceivedAt, container.CreatedAt, container.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert container: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de contenedor.
func (r *ContainerRepo) CreateLine(line *entity.ContainerLine) error {
	query := `
		INSERT INTO container_lines (id, container_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ContainerID, line.ProductID, line.Quantity, line.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert container line: %w", err)
	}
	return nil
}

// GetByID obtiene un contenedor por ID.
func (r *ContainerRepo) GetByID(id string) (*entity.Container, error) {
	query := `
		SELECT id, supplier_id, code, status, eta, received_at, created_at, updated_at
		FROM containers WHERE id = $1`
	var c entity.Container
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.SupplierID, &c.Code, &c.Status, &c.ETA, &c.ReceivedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get container: %w", err)
	}
	return &c, nil
}

// GetLines obtiene las líneas de un contenedor.
func (r *ContainerRepo) GetLines(containerID string) ([]*entity.ContainerLine, error) {
	query := `
		SELECT id, container_id, product_id, quantity, unit_cost
		FROM container_lines WHERE container_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, containerID)
	if err != nil {
		return nil, fmt.Errorf("list container lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContainerLine
	for rows.Next() {
		var l entity.ContainerLine
		if err := rows.Scan(&l.ID, &l.ContainerID, &l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan container line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update actualiza estado, ETA y fecha de recepción de un contenedor.
func (r *ContainerRepo) Update(container *entity.Container) error {
	query := `
		UPDATE containers SET status = $2, eta = $3, received_at = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		container.ID, container.Status, container.ETA, container.ReceivedAt, container.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update container: %w", err)
	}
	return nil
}

// List lista contenedores, opcionalmente filtrados por estado.
func (r *ContainerRepo) List(status string, limit, offset int) ([]*entity.Container, error) {
	query := `
		SELECT id, supplier_id, code, status, eta, received_at, created_at, updated_at
		FROM containers
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Container
	for rows.Next() {
		var c entity.Container
		if err := rows.Scan(
			&c.ID, &c.SupplierID, &c.Code, &c.Status, &c.ETA, &c.ReceivedAt,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
