// Package wingdi holds the small amount of GDI plumbing shared by the
// selection overlay and the floating viewer windows.
package wingdi
