// Package config - JSON Schema generation for IDE support
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Built-in item types of a menu document.
var builtinItemTypes = []string{"menu", "title", "separator"}

// GenerateDocumentSchema generates a JSON schema for menu documents. The item
// type enum lists the built-in types plus the command types configured in sc,
// so editors can complete placeholder fields.
func GenerateDocumentSchema(sc *SystemConfig) ([]byte, error) {
	itemTypes := append([]string{}, builtinItemTypes...)
	placeholders := make(map[string]bool)
	if sc != nil {
		for _, name := range sc.CommandTypeNames() {
			itemTypes = append(itemTypes, name)
			for _, p := range sc.CommandTypes[name].Placeholders() {
				placeholders[p] = true
			}
		}
	}

	itemProperties := map[string]any{
		"type": map[string]any{
			"type":        "string",
			"description": "Item type: a built-in type or a command type from the launcher mapping",
			"enum":        itemTypes,
		},
		"text": map[string]any{
			"type":        "string",
			"description": "Display label",
		},
		"file": map[string]any{
			"type":        "string",
			"description": "Submenu document, relative to this document",
		},
		"tip": map[string]any{
			"type":        "string",
			"description": "Tooltip override",
		},
		"help-link": map[string]any{
			"type":        "string",
			"description": "URL opened by the contextual help action",
			"format":      "uri",
		},
		"theme": map[string]any{
			"type":        "string",
			"description": "Named style bundle merged into the item style",
		},
		"style": map[string]any{
			"type":        "string",
			"description": "Inline style override, merged after theme",
		},
		"password": passwordSchema("Hash required before the command runs"),
	}

	names := make([]string, 0, len(placeholders))
	for p := range placeholders {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		if _, reserved := itemProperties[p]; reserved {
			continue
		}
		itemProperties[p] = map[string]any{
			"type":        "string",
			"description": fmt.Sprintf("Value substituted for {%s} in the command template", p),
		}
	}

	schema := map[string]any{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "Launcher Menu Document",
		"description": "One menu of the launcher; submenus live in their own documents",
		"type":        "object",

		"properties": map[string]any{
			"menu-title": map[string]any{
				"type":        "object",
				"description": "Title of the menu; defaults to the file base name",
				"properties": map[string]any{
					"text":  map[string]any{"type": "string"},
					"theme": map[string]any{"type": "string"},
					"style": map[string]any{"type": "string"},
				},
			},

			"flags": map[string]any{
				"type":        "object",
				"description": "Feature flags, read from the root document only",
				"properties": map[string]any{
					"search-box-enabled": map[string]any{
						"type":    "boolean",
						"default": true,
					},
				},
			},

			"password": passwordSchema("Hash required before the document is opened"),

			"file-choice": map[string]any{
				"type":        "array",
				"description": "Alternative root documents offered in the view menu",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"text", "file"},
					"properties": map[string]any{
						"text": map[string]any{"type": "string", "minLength": 1},
						"file": map[string]any{"type": "string", "minLength": 1},
					},
				},
			},

			"menu": map[string]any{
				"type":        "array",
				"description": "Menu items in display order",
				"minItems":    1,
				"items": map[string]any{
					"type":       "object",
					"required":   []string{"type"},
					"properties": itemProperties,
					"allOf": []any{
						requireWhenType("menu", "text", "file"),
						requireWhenType("title", "text"),
					},
				},
			},
		},

		"required": []string{"menu"},
	}

	return json.MarshalIndent(schema, "", "  ")
}

func passwordSchema(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description + " (hex MD5, see `menulauncher hash`)",
		"pattern":     "^[0-9a-f]{32}$",
	}
}

func requireWhenType(itemType string, fields ...string) map[string]any {
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"type": map[string]any{"const": itemType}},
		},
		"then": map[string]any{"required": fields},
	}
}

// SaveDocumentSchema saves the JSON schema to a file.
func SaveDocumentSchema(sc *SystemConfig, filePath string) error {
	schema, err := GenerateDocumentSchema(sc)
	if err != nil {
		return fmt.Errorf("failed to generate JSON schema: %w", err)
	}

	if err := os.WriteFile(filePath, schema, 0644); err != nil {
		return fmt.Errorf("failed to write JSON schema: %w", err)
	}

	return nil
}

// GetSchemaExamples returns example menu documents for documentation.
func GetSchemaExamples() map[string]any {
	return map[string]any{
		"minimal": map[string]any{
			"menu": []map[string]any{
				{"type": "cmd", "text": "Terminal", "command": "xterm"},
			},
		},

		"comprehensive": map[string]any{
			"menu-title": map[string]any{"text": "Operations", "theme": "dark"},
			"flags":      map[string]any{"search-box-enabled": true},
			"file-choice": []map[string]any{
				{"text": "Expert view", "file": "expert.json"},
			},
			"menu": []map[string]any{
				{"type": "title", "text": "Machine"},
				{"type": "menu", "text": "Diagnostics", "file": "diag/menu.json", "tip": "Diagnostic panels"},
				{"type": "separator"},
				{"type": "caqtdm", "text": "Overview", "file": "overview.ui", "macro": "SYS=A", "help-link": "https://example.org/help"},
			},
		},
	}
}
