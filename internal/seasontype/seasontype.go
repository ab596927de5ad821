// Package seasontype defines the regular_season/playoffs discriminator
// shared by the standings store and the materialized games table — a leaf
// package so neither has to import the other just to agree on the type.
package seasontype

// Type discriminates stats and records even for the same team-year.
type Type string

const (
	Regular  Type = "regular_season"
	Playoffs Type = "playoffs"
)
