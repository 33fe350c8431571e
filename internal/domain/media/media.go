package media

// Media is a stored object: its public URL and its bucket key.
type Media struct {
	URL string `gorm:"column:url" json:"url"`
	Key string `gorm:"column:key" json:"key"`
}

func (m Media) IsZero() bool { return m.URL == "" && m.Key == "" }
