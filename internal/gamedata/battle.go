package gamedata

// RandomEnemyID is the placement unit id that draws a weighted random enemy.
const RandomEnemyID = "random_enemy"

// PlacementDef places one roster unit on the field. Unit "random_enemy"
// draws a weighted random enemy from the roster.
type PlacementDef struct {
	Unit string `yaml:"unit"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

// PointDef is a grid coordinate.
type PointDef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// BattleDef describes a battlefield and who starts where.
type BattleDef struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Walls      []PointDef     `yaml:"walls"`
	Placements []PlacementDef `yaml:"placements"`
}

// BattlesFile is the structure of battles.yaml.
type BattlesFile struct {
	Battles []BattleDef `yaml:"battles"`
}

// LoadBattles loads battle layouts from the embedded battles.yaml.
func LoadBattles() ([]BattleDef, error) {
	file, err := Load[BattlesFile]("battles.yaml")
	if err != nil {
		return nil, err
	}
	return file.Battles, nil
}
