package models

// Asset is a tradable instrument: descriptive metadata plus links to the
// country, exchange, and asset-class lookup tables.
type Asset struct {
	Base
	Name         string     `gorm:"uniqueIndex;not null" json:"name"`
	Ticker       string     `gorm:"size:10;uniqueIndex;not null" json:"ticker"`
	Description  string     `gorm:"type:text" json:"description"`
	CountryID    uint       `gorm:"not null" json:"-"`
	ExchangeID   uint       `gorm:"not null" json:"-"`
	AssetClassID uint       `gorm:"not null" json:"-"`
	Country      Country    `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	Exchange     Exchange   `gorm:"foreignKey:ExchangeID" json:"exchange,omitempty"`
	AssetClass   AssetClass `gorm:"foreignKey:AssetClassID" json:"asset_class,omitempty"`
}
