package dto

import "time"

// SetSettingRequest body para PUT /api/settings/:key.
type SetSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// SettingResponse salida de un par clave/valor de configuración.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
