package models

// Classification lookup tables. Every asset must link to one row of
// each; names are resolved to foreign keys at write time.

// Country is an ISO-coded country lookup row.
type Country struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Code string `gorm:"size:2;uniqueIndex;not null" json:"code"`
}

// Exchange is a stock exchange lookup row, keyed by name with a MIC code.
type Exchange struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	MIC  string `gorm:"size:4;uniqueIndex;not null" json:"mic"`
}

// AssetClass is an instrument-type lookup row (e.g. "Common Stock", "ETF").
type AssetClass struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
