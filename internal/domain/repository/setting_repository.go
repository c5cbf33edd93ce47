package repository

import "github.com/jcamachor/distribuidora-api/internal/domain/entity"

// SettingRepository define el puerto de persistencia para la configuración clave/valor.
type SettingRepository interface {
	Get(key string) (*entity.Setting, error)
	Set(setting *entity.Setting) error
	List() ([]*entity.Setting, error)
}
