package types

// Stat is one dashboard tile.
type Stat struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	Value  int    `json:"value" yaml:"value"`
	Text   string `json:"text" yaml:"-"`
	Change string `json:"change,omitempty" yaml:"change,omitempty"`
}

// Dashboard is the per-role summary shown after login.
type Dashboard struct {
	Role  string `json:"role"`
	Stats []Stat `json:"stats"`
}

// Point is one entry of a monthly series.
type Point struct {
	Month string  `json:"month" yaml:"month"`
	Value float64 `json:"value" yaml:"value"`
}

// Overview holds the summary tiles and series of the overview page.
type Overview struct {
	Tiles  []Stat             `json:"tiles" yaml:"tiles"`
	Series map[string][]Point `json:"series" yaml:"series"`
}
