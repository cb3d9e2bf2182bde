// Package inspect defines the inspection registry, the -T/-E selection mask,
// and the RunContext shared by every inspection driver.
//
// Inspections are registered once, in order, through NewRegistry; each gets
// the one-hot bit of its position. Selection resolves names case-insensitively
// and enforces that include and exclude lists are never mixed.
package inspect
