package shopify

import "strings"

// ErrorCategory is a best-effort classification of an opaque Shopify error
// body, used to attach remediation hints for operators.
type ErrorCategory string

const (
	// CategoryTypeNotConfigured means the metaobject definition does not
	// exist in the store yet.
	CategoryTypeNotConfigured ErrorCategory = "type_not_configured"
	// CategoryPermission means the access token lacks metaobject scopes.
	CategoryPermission ErrorCategory = "permissions_missing"
	// CategoryTimeout means the call exceeded its deadline.
	CategoryTimeout ErrorCategory = "timeout"
	// CategoryGeneric is everything else.
	CategoryGeneric ErrorCategory = "generic"
)

// classifier is one heuristic in the ordered classification chain.
type classifier struct {
	category ErrorCategory
	matches  func(body string) bool
}

// classifiers are evaluated in order; the first match wins. The substring
// checks mirror the wording Shopify uses today and make no claim to a stable
// error-code contract, so keep them cheap to extend.
var classifiers = []classifier{
	{
		category: CategoryTypeNotConfigured,
		matches: func(body string) bool {
			return strings.Contains(body, "type") || strings.Contains(body, "not found")
		},
	},
	{
		category: CategoryPermission,
		matches: func(body string) bool {
			return strings.Contains(body, "permission") || strings.Contains(body, "access")
		},
	},
}

// classifyErrorBody categorizes a serialized Shopify error payload.
func classifyErrorBody(serialized string) ErrorCategory {
	for _, c := range classifiers {
		if c.matches(serialized) {
			return c.category
		}
	}
	return CategoryGeneric
}
