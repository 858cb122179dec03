package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"steelintel/internal/models"
)

// toolDef describes one tool in the tools/list response
type toolDef struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

func toolDefinitions() []toolDef {
	return []toolDef{
		{
			Name:        "query_steel_specs",
			Description: "Ask a free-form question about steel material specifications, grades, and oil & gas compliance standards. Answers are grounded in the indexed specification documents and cite their sources.",
			InputSchema: objectSchema(map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
			}, []string{"question"}),
		},
		{
			Name:        "check_compliance",
			Description: "Check whether a steel material or grade meets a named standard or service condition (for example NACE MR0175 sour service). Returns a PASS or FAIL oriented assessment with cited clauses.",
			InputSchema: objectSchema(map[string]interface{}{
				"material": map[string]interface{}{
					"type":        "string",
					"description": "Material or grade to evaluate, e.g. AISI 4140",
				},
				"standard": map[string]interface{}{
					"type":        "string",
					"description": "Standard or requirement to check against, e.g. NACE MR0175",
				},
				"condition": map[string]interface{}{
					"type":        "string",
					"description": "Optional service condition, e.g. sour service at 175F",
				},
			}, []string{"material", "standard"}),
		},
		{
			Name:        "compare_materials",
			Description: "Compare two or more steel materials across their specified properties (strength, chemistry, service limits). Requires at least two materials.",
			InputSchema: objectSchema(map[string]interface{}{
				"materials": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Materials to compare, e.g. [\"ASTM A106 Grade B\", \"ASTM A53 Grade B\"]",
				},
				"properties": map[string]interface{}{
					"type":        "string",
					"description": "Optional properties to focus the comparison on",
				},
			}, []string{"materials"}),
		},
		{
			Name:        "list_documents",
			Description: "List the specification documents currently available to the knowledge base.",
			InputSchema: objectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_health",
			Description: "Report the service health and operating mode.",
			InputSchema: objectSchema(map[string]interface{}{}, nil),
		},
	}
}

func objectSchema(props map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Server) callTool(ctx context.Context, name string, args json.RawMessage) (*toolResult, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "query_steel_specs":
		var in struct {
			Question string `json:"question"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if strings.TrimSpace(in.Question) == "" {
			return errorText("question is required"), nil
		}
		return s.answer(ctx, in.Question)

	case "check_compliance":
		var in struct {
			Material  string `json:"material"`
			Standard  string `json:"standard"`
			Condition string `json:"condition"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if strings.TrimSpace(in.Material) == "" || strings.TrimSpace(in.Standard) == "" {
			return errorText("material and standard are required"), nil
		}
		question := fmt.Sprintf("Does %s meet %s requirements", in.Material, in.Standard)
		if strings.TrimSpace(in.Condition) != "" {
			question += " for " + in.Condition
		}
		question += "?"
		return s.answer(ctx, question)

	case "compare_materials":
		var in struct {
			Materials  []string `json:"materials"`
			Properties string   `json:"properties"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if len(in.Materials) < 2 {
			return errorText("at least two materials are required for a comparison"), nil
		}
		question := "Compare the following materials: " + strings.Join(in.Materials, ", ")
		if strings.TrimSpace(in.Properties) != "" {
			question += ". Focus on: " + in.Properties
		}
		return s.answer(ctx, question)

	case "list_documents":
		return s.listDocuments(ctx)

	case "get_health":
		text := fmt.Sprintf("Status: ok\nMode: %s\nVersion: 1.0.0", s.provider.Mode())
		return okText(text), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// answer runs a question through the provider and renders the response as
// markdown with a trailing source list
func (s *Server) answer(ctx context.Context, question string) (*toolResult, error) {
	s.logger.Printf("Tool query: %s", question)

	resp, err := s.provider.AnswerQuery(ctx, question)
	if err != nil {
		return errorText("query failed: " + err.Error()), nil
	}

	return okText(renderAnswer(resp)), nil
}

func (s *Server) listDocuments(ctx context.Context) (*toolResult, error) {
	docs, err := s.provider.ListDocuments(ctx)
	if err != nil {
		return errorText("failed to list documents: " + err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("**Available documents:**\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "- %s (%d pages, %s)\n", doc.Name, doc.Pages, doc.Status)
	}
	fmt.Fprintf(&b, "\nMode: %s", s.provider.Mode())
	return okText(b.String()), nil
}

func renderAnswer(resp *models.QueryResponse) string {
	var b strings.Builder
	b.WriteString(resp.Response)

	if len(resp.Sources) > 0 {
		b.WriteString("\n\n**Sources:**\n")
		for _, c := range resp.Sources {
			fmt.Fprintf(&b, "- [%s] %s, page %s\n", c.Ref, c.Document, c.Page)
		}
	}
	return b.String()
}

func okText(text string) *toolResult {
	return &toolResult{Content: []textContent{{Type: "text", Text: text}}}
}

func errorText(text string) *toolResult {
	return &toolResult{
		Content: []textContent{{Type: "text", Text: text}},
		IsError: true,
	}
}
