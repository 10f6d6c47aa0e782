// Package slug turns titles into URL-safe identifiers.
//
// Diacritics are folded with Unicode normalization, anything that is not an
// ASCII letter or digit becomes a separator, and runs of separators collapse:
//
//	slug.Make("Café & Résumé")              // "cafe-resume"
//	slug.Make("Über Größe", slug.MaxLength(8)) // "uber"
//
// The forum creation form uses it to propose a slug from the title.
package slug
