package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	"S001": {
		Category: CategoryRuntime,
		Message:  "Invalid store updater",
		Detail:   "Update accepts a partial State or an UpdateFunc returning one. Nil updaters and other types are rejected.",
	},
	"S002": {
		Category: CategoryRuntime,
		Message:  "Nil store producer",
		Detail:   "NewFunc needs a function that returns the initial State.",
	},
	"S003": {
		Category: CategoryValidation,
		Message:  "Invalid prop type",
		Detail:   "A prop value does not match the type declared in the component's PropTypes.",
	},
	"S004": {
		Category: CategoryValidation,
		Message:  "Missing required prop",
		Detail:   "A prop declared as required was not passed and has no default.",
	},
	"S005": {
		Category: CategoryRuntime,
		Message:  "Render loop detected",
		Detail:   "Components kept scheduling re-renders during a single flush. A component is probably updating the store while rendering.",
	},
	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Seed snapshot could not be loaded",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
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
