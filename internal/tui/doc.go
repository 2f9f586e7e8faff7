// Package tui implements the interactive conflict prompt used by
// "loadout resolve". Each decision runs a short-lived bubbletea program
// that lists the valid choices for the current problem.
package tui
