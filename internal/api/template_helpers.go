package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strconv"
	"time"
)

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatTemplateDate,
		"formatDateTime": formatTemplateDateTime,
		"formatFloat":    formatTemplateFloat,
		"formatInt":      formatTemplateInt,
		"toJSON":         templateToJSON,
	}
}

func parsePageTemplates(templateDir string, funcMap template.FuncMap, pages []string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templatePath := filepath.Join(templateDir, page+".html")
		parsed, err := template.New("base").Funcs(funcMap).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			templatePath,
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func formatTemplateDate(value time.Time) string {
	return value.Format("Jan 2, 2006")
}

func formatTemplateDateTime(value time.Time) string {
	return value.Format("Jan 2, 2006 15:04")
}

func formatTemplateFloat(value *float64) string {
	if value == nil {
		return "—"
	}
	return strconv.FormatFloat(*value, 'f', 1, 64)
}

func formatTemplateInt(value *int) string {
	if value == nil {
		return "—"
	}
	return strconv.Itoa(*value)
}

func templateToJSON(value any) template.JS {
	encoded, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(encoded)
}
