package gamedata

// ClipDef describes one animation clip. HitFrame is the zero-based frame on
// which the hit_frame marker fires; -1 means the clip has no hit frame.
type ClipDef struct {
	Name         string  `yaml:"name"`
	Frames       int     `yaml:"frames"`
	HitFrame     int     `yaml:"hit_frame"`
	FrameSeconds float64 `yaml:"frame_seconds"`
	Loop         bool    `yaml:"loop,omitempty"`
}

// AnimationsFile is the structure of animations.yaml.
type AnimationsFile struct {
	Clips []ClipDef `yaml:"clips"`
}

// LoadClips loads clip definitions from the embedded animations.yaml.
func LoadClips() ([]ClipDef, error) {
	file, err := Load[AnimationsFile]("animations.yaml")
	if err != nil {
		return nil, err
	}
	return file.Clips, nil
}
