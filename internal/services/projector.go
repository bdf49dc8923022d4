package services

import (
	"fmt"

	"automation-hub/backend/internal/engine"
	"automation-hub/backend/pkg/models"
)

// Project reduces an automation's stored document to the minimal payload
// an engine accepts. The name always comes from the automation record, not
// the document; everything the engine manages itself (id, version stamps,
// tags, active flag, static data) is dropped so a re-submitted export is
// never rejected for carrying read-only fields.
//
// Project is pure and total: missing fields become empty containers and no
// document shape can make it fail.
func Project(automation *models.Automation) engine.Payload {
	doc := automation.Document
	if doc == nil {
		doc = models.WorkflowDocument{}
	}
	return engine.Payload{
		Name:        automation.Name,
		Nodes:       doc.Nodes(),
		Connections: doc.Connections(),
		Settings:    doc.Settings(),
	}
}

// ValidateDocument performs the minimal shape checks an operation runs
// before projecting: present fields must have their expected container
// types. A nil document or absent fields are fine.
func ValidateDocument(doc models.WorkflowDocument) error {
	if doc == nil {
		return nil
	}
	if raw, ok := doc["nodes"]; ok {
		if _, ok := raw.([]any); !ok {
			return fmt.Errorf("%w: nodes is not a list", ErrMalformedDocument)
		}
	}
	if raw, ok := doc["connections"]; ok {
		if _, ok := raw.(map[string]any); !ok {
			return fmt.Errorf("%w: connections is not a mapping", ErrMalformedDocument)
		}
	}
	if raw, ok := doc["settings"]; ok {
		if _, ok := raw.(map[string]any); !ok {
			return fmt.Errorf("%w: settings is not a mapping", ErrMalformedDocument)
		}
	}
	return nil
}
