// Package state persists launch profiles.
//
// Each profile is stored as <id>.yaml in the profiles directory. Exactly
// one profile id is configured as the Defaults profile; the store sets the
// Defaults flag from that id rather than trusting the file.
package state
