package forms

import "github.com/fieldops/inspectforms/model"

// IsVisible decides whether a field should currently be rendered, given the
// session's answer map. A field with no conditional rule is always visible;
// otherwise the dependent answer must equal the rule value exactly (strict
// string comparison, no coercion, no trimming). A missing or non-string
// dependent answer hides the field.
//
// Pure: no caching, no side effects. Hiding a field never clears its stored
// answer; a previously entered value stays in the answer map and still
// participates in validation and submission.
func IsVisible(field model.FormField, answers map[string]any) bool {
	rule := field.Conditional
	if rule == nil {
		return true
	}
	v, ok := answers[rule.DependsOnField]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == rule.DependsOnValue
}
