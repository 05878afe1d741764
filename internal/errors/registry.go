package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (S100-S199)
	// ============================================

	"S100": {
		Category: CategoryConfig,
		Message:  "Invalid statica.json",
		Detail:   "The statica.json configuration file is malformed and could not be parsed.",
		DocURL:   "https://statica.dev/docs/errors/S100",
	},
	"S101": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://statica.dev/docs/errors/S101",
	},
	"S102": {
		Category: CategoryConfig,
		Message:  "Unknown configuration field",
		Detail:   "The configuration contains a field that is not part of the schema. Field names are checked strictly to catch typos.",
		DocURL:   "https://statica.dev/docs/errors/S102",
	},
	"S103": {
		Category: CategoryConfig,
		Message:  "Not a Statica project",
		Detail:   "The current directory is not a Statica project. Run this command from a directory with statica.json.",
		DocURL:   "https://statica.dev/docs/errors/S103",
	},
	"S104": {
		Category: CategoryConfig,
		Message:  "Invalid environment",
		Detail:   "The env setting must be either \"production\" or \"development\".",
		DocURL:   "https://statica.dev/docs/errors/S104",
	},
	"S105": {
		Category: CategoryConfig,
		Message:  "Invalid cache settings",
		Detail:   "Prerender cache capacity must be positive and the TTL must be a valid duration.",
		DocURL:   "https://statica.dev/docs/errors/S105",
	},

	// ============================================
	// Routing Errors (S200-S299)
	// ============================================

	"S200": {
		Category: CategoryRouting,
		Message:  "Malformed route pattern",
		Detail:   "The route path pattern could not be compiled. Patterns consist of literal segments and :name parameter segments.",
		DocURL:   "https://statica.dev/docs/errors/S200",
	},
	"S201": {
		Category: CategoryRouting,
		Message:  "Duplicate route name",
		Detail:   "Two routes resolve to the same name. Route names must be unique across the table.",
		DocURL:   "https://statica.dev/docs/errors/S201",
	},
	"S202": {
		Category: CategoryRouting,
		Message:  "Route not found",
		Detail:   "No route with the requested name exists in the table.",
		DocURL:   "https://statica.dev/docs/errors/S202",
	},
	"S203": {
		Category: CategoryRouting,
		Message:  "Pages directory not found",
		Detail:   "The configured pages directory does not exist or is not readable.",
		DocURL:   "https://statica.dev/docs/errors/S203",
	},

	// ============================================
	// Prerender Errors (S300-S399)
	// ============================================

	"S300": {
		Category: CategoryPrerender,
		Message:  "Prerendered artifact missing",
		Detail:   "The prerendered HTML file for this route does not exist. The route will fall back to live rendering.",
		DocURL:   "https://statica.dev/docs/errors/S300",
	},
	"S301": {
		Category: CategoryPrerender,
		Message:  "Prerendered artifact unreadable",
		Detail:   "The prerendered HTML file exists but could not be read.",
		DocURL:   "https://statica.dev/docs/errors/S301",
	},
	"S302": {
		Category: CategoryPrerender,
		Message:  "Invalid build manifest",
		Detail:   "The build manifest is missing or malformed. Run statica build to regenerate it.",
		DocURL:   "https://statica.dev/docs/errors/S302",
	},

	// ============================================
	// Build Errors (S400-S499)
	// ============================================

	"S400": {
		Category: CategoryBuild,
		Message:  "Bundler invocation failed",
		Detail:   "The bundler process could not be started or exited abnormally.",
		DocURL:   "https://statica.dev/docs/errors/S400",
	},
	"S401": {
		Category: CategoryBuild,
		Message:  "Bundler reported errors",
		Detail:   "The bundler completed but reported compilation errors. The build is aborted; no artifacts from this run are kept.",
		DocURL:   "https://statica.dev/docs/errors/S401",
	},
	"S402": {
		Category: CategoryBuild,
		Message:  "Bundler command not configured",
		Detail:   "No bundler command is set. Configure build.bundler.command in statica.json.",
		DocURL:   "https://statica.dev/docs/errors/S402",
	},
	"S403": {
		Category: CategoryBuild,
		Message:  "Route template not found",
		Detail:   "The route declares a custom HTML template that does not exist on disk.",
		DocURL:   "https://statica.dev/docs/errors/S403",
	},
	"S404": {
		Category: CategoryBuild,
		Message:  "Invalid bundler output",
		Detail:   "The bundler's completion report could not be decoded.",
		DocURL:   "https://statica.dev/docs/errors/S404",
	},
	"S405": {
		Category: CategoryBuild,
		Message:  "Build already in progress",
		Detail:   "The orchestrator is already running. A builder instance handles one run at a time.",
		DocURL:   "https://statica.dev/docs/errors/S405",
	},

	// ============================================
	// Publish and CLI Errors (S500-S599)
	// ============================================

	"S500": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "An artifact could not be uploaded to the object store.",
		DocURL:   "https://statica.dev/docs/errors/S500",
	},
	"S501": {
		Category: CategoryPublish,
		Message:  "Missing publish configuration",
		Detail:   "Publishing requires publish.bucket to be set in statica.json.",
		DocURL:   "https://statica.dev/docs/errors/S501",
	},
	"S502": {
		Category: CategoryPublish,
		Message:  "Output directory missing",
		Detail:   "The build output directory does not exist. Run statica build first.",
		DocURL:   "https://statica.dev/docs/errors/S502",
	},
	"S503": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The build did not complete. Check the output for bundler errors.",
		DocURL:   "https://statica.dev/docs/errors/S503",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
