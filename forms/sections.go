package forms

import "github.com/fieldops/inspectforms/model"

// GroupSections produces the render order for a template's fields,
// independent of visibility (the caller applies IsVisible afterwards,
// field by field):
//
//  1. fields with no section attribute come first, in original order;
//  2. then each section header in original order, immediately followed by
//     the fields referencing its label, again in original relative order.
//
// A field referencing a label no section header carries is silently dropped
// from the output. A header whose label nothing references is emitted alone.
// Note the two-pass shape: a field may reference a header that appears later
// in the list and is still grouped under it.
func GroupSections(fields []model.FormField) []model.FormField {
	buckets := make(map[string][]model.FormField)
	var headerless []model.FormField

	for _, f := range fields {
		if f.FieldType == model.FieldSection {
			continue
		}
		if f.Section == "" {
			headerless = append(headerless, f)
			continue
		}
		buckets[f.Section] = append(buckets[f.Section], f)
	}

	out := make([]model.FormField, 0, len(fields))
	out = append(out, headerless...)

	for _, f := range fields {
		if f.FieldType != model.FieldSection {
			continue
		}
		out = append(out, f)
		out = append(out, buckets[f.Label]...)
	}

	return out
}
