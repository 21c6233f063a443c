package api

import (
	"html/template"

	"go.uber.org/zap"

	"github.com/solenne/somna/internal/config"
	"github.com/solenne/somna/internal/services"
)

// recordPageLimit bounds every record fetch to one page; the remote service
// exposes no by-id endpoint, so detail lookups scan this page only.
const recordPageLimit = 100

// usersDropdownLimit keeps the selection dropdown to a reasonable size.
const usersDropdownLimit = 50

// Handler carries the per-process dependencies of every route: the view
// assembly service over the remote sleep API, the process logger, parsed
// page templates, and read-only settings resolved at startup.
type Handler struct {
	dashboard    *services.DashboardService
	logger       *zap.Logger
	templates    map[string]*template.Template
	defaultDays  int
	itemsPerPage int
}

var pageNames = []string{
	"home",
	"about",
	"dashboard",
	"dashboard_view",
	"record",
	"analytics",
	"generate",
}

func NewHandler(api services.SleepAPI, cfg *config.Config, logger *zap.Logger, templateDir string) (*Handler, error) {
	templates, err := parsePageTemplates(templateDir, newTemplateFuncMap(), pageNames)
	if err != nil {
		return nil, err
	}

	return &Handler{
		dashboard:    services.NewDashboardService(api, recordPageLimit),
		logger:       logger,
		templates:    templates,
		defaultDays:  cfg.DefaultDateRangeDays,
		itemsPerPage: cfg.ItemsPerPage,
	}, nil
}
