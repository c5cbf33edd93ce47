package repository

import "github.com/jcamachor/distribuidora-api/internal/domain/entity"

// ContainerRepository define el puerto de persistencia para contenedores y sus líneas.
type ContainerRepository interface {
	Create(container *entity.Container) error
	CreateLine(line *entity.ContainerLine) error
	GetByID(id string) (*entity.Container, error)
	GetLines(containerID string) ([]*entity.ContainerLine, error)
	Update(container *entity.Container) error
	List(status string, limit, offset int) ([]*entity.Container, error)
}
