// Package leaguedata holds the one piece of static NFL structure both
// cmd/seasonctl and cmd/scenarios need: which conference and division each
// team belongs to. Loading full team rosters and coaching staffs from a
// JSON fixture is explicitly out of scope (spec §1) — this is the narrow
// substitute the Standings Store and Playoff Seeder actually require.
package leaguedata

import "github.com/mrab54/gridiron-dynasty/internal/standings"

// Teams is the league's fixed 32-team conference/division alignment.
var Teams = standings.TeamMetadata{
	"BUF": {TeamID: "BUF", Conference: "AFC", Division: "AFC East"},
	"MIA": {TeamID: "MIA", Conference: "AFC", Division: "AFC East"},
	"NE":  {TeamID: "NE", Conference: "AFC", Division: "AFC East"},
	"NYJ": {TeamID: "NYJ", Conference: "AFC", Division: "AFC East"},

	"BAL": {TeamID: "BAL", Conference: "AFC", Division: "AFC North"},
	"CIN": {TeamID: "CIN", Conference: "AFC", Division: "AFC North"},
	"CLE": {TeamID: "CLE", Conference: "AFC", Division: "AFC North"},
	"PIT": {TeamID: "PIT", Conference: "AFC", Division: "AFC North"},

	"HOU": {TeamID: "HOU", Conference: "AFC", Division: "AFC South"},
	"IND": {TeamID: "IND", Conference: "AFC", Division: "AFC South"},
	"JAX": {TeamID: "JAX", Conference: "AFC", Division: "AFC South"},
	"TEN": {TeamID: "TEN", Conference: "AFC", Division: "AFC South"},

	"DEN": {TeamID: "DEN", Conference: "AFC", Division: "AFC West"},
	"KC":  {TeamID: "KC", Conference: "AFC", Division: "AFC West"},
	"LV":  {TeamID: "LV", Conference: "AFC", Division: "AFC West"},
	"LAC": {TeamID: "LAC", Conference: "AFC", Division: "AFC West"},

	"DAL": {TeamID: "DAL", Conference: "NFC", Division: "NFC East"},
	"NYG": {TeamID: "NYG", Conference: "NFC", Division: "NFC East"},
	"PHI": {TeamID: "PHI", Conference: "NFC", Division: "NFC East"},
	"WAS": {TeamID: "WAS", Conference: "NFC", Division: "NFC East"},

	"CHI": {TeamID: "CHI", Conference: "NFC", Division: "NFC North"},
	"DET": {TeamID: "DET", Conference: "NFC", Division: "NFC North"},
	"GB":  {TeamID: "GB", Conference: "NFC", Division: "NFC North"},
	"MIN": {TeamID: "MIN", Conference: "NFC", Division: "NFC North"},

	"ATL": {TeamID: "ATL", Conference: "NFC", Division: "NFC South"},
	"CAR": {TeamID: "CAR", Conference: "NFC", Division: "NFC South"},
	"NO":  {TeamID: "NO", Conference: "NFC", Division: "NFC South"},
	"TB":  {TeamID: "TB", Conference: "NFC", Division: "NFC South"},

	"ARI": {TeamID: "ARI", Conference: "NFC", Division: "NFC West"},
	"LAR": {TeamID: "LAR", Conference: "NFC", Division: "NFC West"},
	"SF":  {TeamID: "SF", Conference: "NFC", Division: "NFC West"},
	"SEA": {TeamID: "SEA", Conference: "NFC", Division: "NFC West"},
}

// ConferenceOrder is the deterministic iteration order the Playoff Seeder
// and Season Cycle Controller use for per-conference work.
var ConferenceOrder = []string{"AFC", "NFC"}
