package gamedata

// TagsFile represents the structure of tags.json.
type TagsFile struct {
	InitialTags []string `json:"initialTags"`
	TierNames   []string `json:"tierNames"`
}

// Catalog holds the tag seed list and tier display names.
type Catalog struct {
	initialTags []string
	tierNames   []string
}

// LoadCatalog loads the catalog from the embedded tags.json.
func LoadCatalog() (*Catalog, error) {
	file, err := load[TagsFile]("tags.json")
	if err != nil {
		return nil, err
	}
	return &Catalog{initialTags: file.InitialTags, tierNames: file.TierNames}, nil
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// InitialTags returns a copy of the tags every run starts tracking.
func (c *Catalog) InitialTags() []string {
	return append([]string(nil), c.initialTags...)
}

// TierName returns the display name for a tier, or "Unknown".
func (c *Catalog) TierName(tier int) string {
	if tier < 0 || tier >= len(c.tierNames) {
		return "Unknown"
	}
	return c.tierNames[tier]
}
