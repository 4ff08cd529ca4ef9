package layout

// DefaultName identifies the built-in electoral roll template.
const DefaultName = "electoral-roll"

// Default returns the built-in electoral roll template. Every call returns a
// fresh copy so callers may not alter the shared layout.
func Default() *Template {
	return &Template{
		Name:    DefaultName,
		Version: 1,
		Header: []Region{
			{Name: HeaderRegion, X: 190, Y: 23, Width: 150, Height: 6},
			{Name: HeaderArea, X: 483, Y: 23, Width: 150, Height: 6},
			{Name: HeaderProvince, X: 190, Y: 35, Width: 150, Height: 6},
		},
		Rows: RowLayout{
			MaxRowsPerPage: 65,
			StartY:         62,
			TextHeight:     8,
			EvenOffset:     0,
			OddOffset:      0,
		},
		Columns: []Column{
			{Name: FieldName, X: 23, Width: 224},
			{Name: FieldNIN, X: 295, Width: 45},
			{Name: FieldSex, X: 340, Width: 18},
			{Name: FieldAddress, X: 380, Width: 210},
			{Name: FieldCircumscription, X: 591, Width: 195},
			{Name: FieldPlace, X: 790, Width: 26},
		},
	}
}
