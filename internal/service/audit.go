// Package service wraps the pkg/audit engine behind an interface the
// HTTP handler layer can depend on and mock in tests, the same shape the
// teacher's PackagingService gave its round-trip test operations.
package service

import (
	"github.com/vortex/ooxml-audit/internal/schema"
	"github.com/vortex/ooxml-audit/internal/schematron"
	"github.com/vortex/ooxml-audit/pkg/audit"
)

// AuditService validates an uploaded OOXML package against the
// process-wide schema and Schematron registries.
type AuditService interface {
	Validate(data []byte, opts audit.Options) (*audit.ValidationResult, error)
}

// auditService is the concrete AuditService, holding the two immutable
// registries built once at server startup.
type auditService struct {
	schemas *schema.Registry
	rules   *schematron.Registry
}

// NewAuditService creates an AuditService over already-loaded registries.
func NewAuditService(schemas *schema.Registry, rules *schematron.Registry) AuditService {
	return &auditService{schemas: schemas, rules: rules}
}

func (s *auditService) Validate(data []byte, opts audit.Options) (*audit.ValidationResult, error) {
	return audit.ValidateBytes(data, s.schemas, s.rules, opts)
}
