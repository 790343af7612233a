package gamedata

// =============================================================================
// SKILL CATALOG
// =============================================================================
//
// skills.yaml declares skill categories and skills. A skill is a list of
// actions (what happens on impact) and an ordered list of stages (how the
// attack plays out). Each stage names the single event that must fire before
// the timeline may move past it.
//
//   skills:
//     - id: 1
//       category: 1
//       name: Attack
//       ap_cost: 1
//       range: 1
//       actions:
//         - accuracy: 0.95
//           damage: {power: 3, offense: physical_attack, defense: physical_resistance}
//       stages:
//         - animation: {id: 0, kind: attack, frame_seconds: 0.1}
//           on: {animation: 0, marker: hit_frame}
//         - impact: [0]
//           on: {animation: 0, marker: complete}
//
// Stage events:
//   {animation: N, marker: hit_frame|complete}  marker of skill-local animation N
//   {projectile: N}                              projectile N reached its target
//   {immediate: true}                            no wait at all

// SkillCatalog is the structure of skills.yaml.
type SkillCatalog struct {
	Categories []CategoryDef `yaml:"categories"`
	Skills     []SkillDef    `yaml:"skills"`
}

// CategoryDef declares a skill category.
type CategoryDef struct {
	ID   uint32 `yaml:"id"`
	Name string `yaml:"name"`
}

// SkillDef declares one skill.
type SkillDef struct {
	ID          uint32      `yaml:"id"`
	Category    uint32      `yaml:"category"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	APCost      int         `yaml:"ap_cost"`
	Range       int         `yaml:"range"`
	Actions     []ActionDef `yaml:"actions"`
	Stages      []StageDef  `yaml:"stages"`
}

// ActionDef declares one impact action. Exactly one of Damage, Heal or
// Effects is set.
type ActionDef struct {
	Accuracy float32     `yaml:"accuracy"`
	Damage   *AmountDef  `yaml:"damage,omitempty"`
	Heal     *AmountDef  `yaml:"heal,omitempty"`
	Effects  []EffectDef `yaml:"effects,omitempty"`
}

// AmountDef is a power value plus the stat selectors that scale it.
type AmountDef struct {
	Power   float32 `yaml:"power"`
	Offense string  `yaml:"offense,omitempty"`
	Defense string  `yaml:"defense,omitempty"`
}

// EffectDef declares an effect applied on impact. Exactly one of Status or
// Buff is set. Turns of 0 means permanent.
type EffectDef struct {
	Status string   `yaml:"status,omitempty"`
	Buff   *BuffDef `yaml:"buff,omitempty"`
	Turns  int      `yaml:"turns,omitempty"`
}

// BuffDef is a stat modification.
type BuffDef struct {
	Stat     string  `yaml:"stat"`
	Operator string  `yaml:"op"`
	Value    float32 `yaml:"value"`
}

// StageDef declares one stage. Exactly one of Animation, Cast or Impact is set.
type StageDef struct {
	Animation *AnimationStageDef `yaml:"animation,omitempty"`
	Cast      *CastStageDef      `yaml:"cast,omitempty"`
	Impact    []int              `yaml:"impact,omitempty"`
	On        EventDef           `yaml:"on"`
}

// AnimationStageDef plays an animation on the attacker.
type AnimationStageDef struct {
	ID           int     `yaml:"id"`
	Kind         string  `yaml:"kind"`
	FrameSeconds float64 `yaml:"frame_seconds"`
}

// CastStageDef spawns a visual at the defender or a projectile towards it.
type CastStageDef struct {
	ID         int            `yaml:"id"`
	TileSprite *TileSpriteDef `yaml:"tile_sprite,omitempty"`
	Projectile *ProjectileDef `yaml:"projectile,omitempty"`
}

// TileSpriteDef is a one-shot visual played on a tile.
type TileSpriteDef struct {
	Sprite string `yaml:"sprite"`
	Clip   string `yaml:"clip"`
}

// ProjectileDef is a sprite that flies from attacker to defender.
type ProjectileDef struct {
	Sprite string `yaml:"sprite"`
}

// EventDef is the event that lets a timeline move past a stage.
type EventDef struct {
	Animation  *int   `yaml:"animation,omitempty"`
	Marker     string `yaml:"marker,omitempty"`
	Projectile *int   `yaml:"projectile,omitempty"`
	Immediate  bool   `yaml:"immediate,omitempty"`
}

// LoadSkillCatalog loads the embedded skills.yaml.
func LoadSkillCatalog() (SkillCatalog, error) {
	return Load[SkillCatalog]("skills.yaml")
}
