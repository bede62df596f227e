package port

import "github.com/bnema/iconscope/internal/domain/entity"

// ConfigSchemaProvider lists every configuration key with its default.
type ConfigSchemaProvider interface {
	GetSchema() []entity.ConfigKeyInfo
}
