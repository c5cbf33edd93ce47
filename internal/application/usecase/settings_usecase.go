package usecase

import (
	"strconv"
	"time"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// SettingsUseCase configuración clave/valor editable desde la UI.
type SettingsUseCase struct {
	settingRepo repository.SettingRepository
}

// NewSettingsUseCase construye el caso de uso de configuración.
func NewSettingsUseCase(settingRepo repository.SettingRepository) *SettingsUseCase {
	return &SettingsUseCase{settingRepo: settingRepo}
}

// Get devuelve el valor de una clave.
func (uc *SettingsUseCase) Get(key string) (*dto.SettingResponse, error) {
	setting, err := uc.settingRepo.Get(key)
	if err != nil || setting == nil {
		return nil, domain.ErrNotFound
	}
	return toSettingResponse(setting), nil
}

// Set guarda un par clave/valor. Las claves numéricas conocidas se validan
// antes de persistir.
func (uc *SettingsUseCase) Set(key string, in dto.SetSettingRequest) (*dto.SettingResponse, error) {
	if key == "" || in.Value == "" {
		return nil, domain.ErrInvalidInput
	}
	if key == entity.SettingLowStockThreshold {
		if v, err := strconv.ParseInt(in.Value, 10, 64); err != nil || v < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	setting := &entity.Setting{
		Key:       key,
		Value:     in.Value,
		UpdatedAt: time.Now(),
	}
	if err := uc.settingRepo.Set(setting); err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

// List lista toda la configuración.
func (uc *SettingsUseCase) List() ([]*dto.SettingResponse, error) {
	list, err := uc.settingRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSettingResponse(s))
	}
	return out, nil
}

func toSettingResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}
