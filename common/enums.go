// Package common holds enums shared between configuration and processing
// packages so that neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --nocomments

// Kind of theme stylesheet being migrated.
// ENUM(primary, detail, listing)
type StylesheetKind int

// TargetName returns the default output file name for the kind.
func (k StylesheetKind) TargetName() string {
	switch k {
	case StylesheetKindPrimary:
		return "styles.scss"
	case StylesheetKindDetail:
		return "detail.scss"
	case StylesheetKindListing:
		return "listing.scss"
	default:
		// this should never happen
		panic("unsupported stylesheet kind requested")
	}
}
