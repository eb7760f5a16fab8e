package rowsource

// Column positions of the published matches sheet. This table is the only
// place positional indices are allowed; everything past the sheet adapter
// works with named fields.
const (
	colSport     = 1
	colLeague    = 2
	colHomeTeam  = 3
	colAwayTeam  = 4
	colDate      = 5
	colTime      = 6
	colStrategy  = 7
	colProbHome  = 8
	colProbDraw  = 9
	colProbAway  = 10
	colProbOver  = 11
	colProbUnder = 12
	colOdds      = 13
	colStatus    = 16
)

// minSheetFields is the minimum cell count for a sheet row to be usable at
// all. Shorter rows are dropped before normalization.
const minSheetFields = 5

// cellAt returns the cell at index i or the empty string when the row is
// too short. Sheet exports routinely truncate trailing empty columns.
func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// mapSheetRow converts one decoded sheet line into a named-field RawRow.
func mapSheetRow(cells []string) RawRow {
	return RawRow{
		Sport:     cellAt(cells, colSport),
		League:    cellAt(cells, colLeague),
		HomeTeam:  cellAt(cells, colHomeTeam),
		AwayTeam:  cellAt(cells, colAwayTeam),
		Date:      cellAt(cells, colDate),
		Time:      cellAt(cells, colTime),
		Strategy:  cellAt(cells, colStrategy),
		ProbHome:  cellAt(cells, colProbHome),
		ProbDraw:  cellAt(cells, colProbDraw),
		ProbAway:  cellAt(cells, colProbAway),
		ProbOver:  cellAt(cells, colProbOver),
		ProbUnder: cellAt(cells, colProbUnder),
		Odds:      cellAt(cells, colOdds),
		Status:    cellAt(cells, colStatus),
	}
}
