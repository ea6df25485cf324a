package models

// InsightReport holds the headline figures shown above the tabs.
type InsightReport struct {
	TotalListings int
	PricedCount   int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	UniqueModels  int
	TopModels     []GroupValue
	ByState       []GroupValue
}

// GroupValue is one aggregated group.
type GroupValue struct {
	Key   string
	Value float64
	Count int
}

// Preview is the raw-data view: the head of the table, descriptive
// statistics and missing counts per column.
type Preview struct {
	Columns  []string
	Head     [][]string
	Stats    []ColumnStats
	Rows     int
	HeadRows int
}

// ColumnStats summarises one column. Numeric columns fill Mean..Max;
// categorical columns fill Unique/Top/Freq.
type ColumnStats struct {
	Column  string
	Numeric bool
	Count   int
	Missing int

	Unique int
	Top    string
	Freq   int

	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}
