package models

import "time"

// Song is a catalog lyrics entry with optional per-slide layout overrides.
type Song struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	Title          string `gorm:"uniqueIndex"`
	Author         string
	Copyright      string
	CCLI           string `gorm:"column:ccli"`
	Lyrics         string `gorm:"type:text"`
	VerseOrder     string
	Footer         bool
	Font           string
	FontColor      string
	Background     string
	FontSize       int
	UseShadow      bool
	ShadowColor    int // grey level 0-255
	ShadowOffset   int // pixels 0-15
	UseOutline     bool
	OutlineColor   int
	OutlineWidth   int
	OverrideGlobal bool
	UseShade       bool
	ShadeColor     int
	ShadeOpacity   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomSlide is an operator-authored slide with optional audio and autoplay.
type CustomSlide struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	Title          string `gorm:"uniqueIndex"`
	Text           string `gorm:"type:text"`
	Font           string
	FontColor      string
	Background     string
	FontSize       int
	UseShadow      bool
	ShadowColor    int
	ShadowOffset   int
	UseOutline     bool
	OutlineColor   int
	OutlineWidth   int
	OverrideGlobal bool
	UseShade       bool
	ShadeColor     int
	ShadeOpacity   int
	AudioFile      string
	LoopAudio      bool
	AutoPlay       bool
	SlideDelay     int // seconds between autoplay advances
	SplitSlides    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WebEntry maps a title to a URL rendered by the embedded browser.
type WebEntry struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Title     string `gorm:"uniqueIndex"`
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BackgroundThumbnail caches a downscaled JPEG of a background image.
type BackgroundThumbnail struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	FileName  string `gorm:"uniqueIndex"`
	Image     []byte `gorm:"column:image_blob"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImageThumbnail caches a downscaled JPEG of a slide image.
type ImageThumbnail struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	FileName  string `gorm:"uniqueIndex"`
	Image     []byte `gorm:"column:image_blob"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
