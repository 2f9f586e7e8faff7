// Package planner decides which addons a profile activates and in what order.
//
// The planner combines a profile's attachments with the Defaults profile,
// applies box inversion and compatibility filtering, expands boxes into
// their required parts, and sorts the result with a three-tier comparator.
//
// Key responsibilities:
//   - UsedAddons: the activation set of a profile
//   - FinalAddons: the ordered list handed to the launcher
//   - Compare/Sort: explicit load order, Defaults load order, priority class
//   - DontUse: flip whichever attachment keeps an addon active
//   - LaunchPlan: the summary of a non-interactive planning run
package planner
