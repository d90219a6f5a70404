package orchestrator

import (
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roamstack/travel-concierge/src/ai/core"
)

// Translate converts provider tool descriptors into the model's
// function-declaration format. The translation is lossy on purpose: the
// backend understands only type, description and enum per parameter, so
// every other schema field is dropped. A descriptor whose schema cannot be
// read as an object with properties is skipped (and counted), never fatal to
// the batch. Output order follows input order.
func Translate(tools []mcp.Tool) []core.FunctionDeclaration {
	decls := make([]core.FunctionDeclaration, 0, len(tools))
	skipped := 0
	for _, t := range tools {
		decl, ok := translateTool(t)
		if !ok {
			skipped++
			continue
		}
		decls = append(decls, decl)
	}
	if skipped > 0 {
		log.Printf("orchestrator: skipped %d capability descriptor(s) with untranslatable schemas", skipped)
	}
	return decls
}

func translateTool(t mcp.Tool) (core.FunctionDeclaration, bool) {
	schema := t.InputSchema
	if schema.Type != "" && schema.Type != "object" {
		return core.FunctionDeclaration{}, false
	}

	props := make(map[string]core.Property, len(schema.Properties))
	for name, raw := range schema.Properties {
		pm, ok := raw.(map[string]any)
		if !ok {
			return core.FunctionDeclaration{}, false
		}
		prop := core.Property{}
		if v, ok := pm["type"].(string); ok {
			prop.Type = v
		}
		if v, ok := pm["description"].(string); ok {
			prop.Description = v
		}
		prop.Enum = enumValues(pm["enum"])
		props[name] = prop
	}

	description := t.Description
	if description == "" {
		description = "Tool: " + t.Name
	}

	return core.FunctionDeclaration{
		Name:        t.Name,
		Description: description,
		Parameters: core.Schema{
			Type:       "object",
			Properties: props,
			Required:   append([]string(nil), schema.Required...),
		},
	}, true
}

func enumValues(raw any) []string {
	switch vals := raw.(type) {
	case []string:
		return append([]string(nil), vals...)
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
