package game

import (
	"embed"
	"fmt"

	"towers/utils"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var catalogData embed.FS

// Template ids with rules attached to them.
const (
	TemplateMilitia      = "militia"
	TemplateSpearmen     = "spearmen"
	TemplatePikemen      = "pikemen"
	TemplateHeavyCavalry = "heavy_cavalry"
	TemplateShardbearer  = "shardbearer"
	TemplateSkald        = "skald"
)

// Keywords with rules attached to them.
const (
	KeywordCavalry    = "Cavalry"
	KeywordHeavy      = "Heavy"
	KeywordSiege      = "Siege"
	KeywordCommander  = "Commander"
	KeywordInfantry   = "Infantry"
	KeywordSkirmisher = "Skirmisher"
	KeywordEngineer   = "Engineer"
)

const (
	TerrainPlain      = "plain"
	TerrainForest     = "forest"
	TerrainHill       = "hill"
	TerrainRiver      = "river"
	TerrainMarsh      = "marsh"
	TerrainCity       = "city"
	TerrainFort       = "fort"
	TerrainSupplyCamp = "supply_camp"
)

type UnitTemplate struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	Type               string   `yaml:"type" json:"type"`
	Cost               int      `yaml:"cost" json:"cost"`
	Move               int      `yaml:"move" json:"move"`
	HP                 int      `yaml:"hp" json:"hp"`
	Melee              int      `yaml:"melee" json:"melee"`
	Ranged             int      `yaml:"ranged" json:"ranged"`
	Defense            int      `yaml:"defense" json:"defense"`
	Supply             int      `yaml:"supply" json:"supply"`
	Size               int      `yaml:"size" json:"size"`
	Keywords           []string `yaml:"keywords" json:"keywords"`
	Ability            string   `yaml:"ability" json:"ability"`
	AbilityDescription string   `yaml:"ability_description" json:"abilityDescription"`
}

func (t UnitTemplate) HasKeyword(keyword string) bool {
	return utils.Contains(t.Keywords, keyword)
}

// MaxRange is the furthest hex a ranged attack can reach.
func (t UnitTemplate) MaxRange() int {
	if t.HasKeyword(KeywordSiege) {
		return 3
	}
	return 2
}

type TerrainType struct {
	ID                 string `yaml:"id" json:"id"`
	Name               string `yaml:"name" json:"name"`
	MovementCost       int    `yaml:"movement_cost" json:"movementCost"`
	DefenseBonus       int    `yaml:"defense_bonus" json:"defenseBonus"`
	RangedDefenseBonus int    `yaml:"ranged_defense_bonus" json:"rangedDefenseBonus"`
	RangedAttackBonus  int    `yaml:"ranged_attack_bonus" json:"rangedAttackBonus"`
	BlocksLOS          bool   `yaml:"blocks_los" json:"blocksLos"`
	CancelsCharge      bool   `yaml:"cancels_charge" json:"cancelsCharge"`
	SupplySource       bool   `yaml:"supply_source" json:"supplySource"`
	Description        string `yaml:"description" json:"description"`
}

// CardEffect names what a command card does when played.
type CardEffect string

const (
	EffectMovementBonus CardEffect = "movement_bonus"
	EffectAttackBonus   CardEffect = "attack_bonus"
	EffectDeployMilitia CardEffect = "deploy_militia"
	EffectDefenseBonus  CardEffect = "defense_bonus"
	EffectAmbushDeploy  CardEffect = "ambush_deploy"
	EffectSaveUnit      CardEffect = "save_unit"
	EffectDoubleShot    CardEffect = "double_shot"
	EffectFlankBonus    CardEffect = "flank_bonus"
	EffectRangedDefense CardEffect = "ranged_defense"
	EffectMoraleBoost   CardEffect = "morale_boost"
)

type CommandCard struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	CPCost      int        `yaml:"cp_cost" json:"cpCost"`
	Effect      CardEffect `yaml:"effect" json:"effect"`
	Timing      string     `yaml:"timing" json:"timing"`
	Description string     `yaml:"description" json:"description"`
}

// Catalog is the read-only set of unit templates, terrain types and command
// cards a match is played with.
type Catalog struct {
	units     map[string]UnitTemplate
	unitOrder []string
	terrain   map[string]TerrainType
	cards     map[string]CommandCard
	cardOrder []string
}

// LoadCatalog decodes YAML lists of unit templates, terrain types and
// command cards.
func LoadCatalog(units, terrain, cards []byte) (*Catalog, error) {
	var us []UnitTemplate
	if err := yaml.Unmarshal(units, &us); err != nil {
		return nil, fmt.Errorf("failed to decode unit templates: %w", err)
	}
	var ts []TerrainType
	if err := yaml.Unmarshal(terrain, &ts); err != nil {
		return nil, fmt.Errorf("failed to decode terrain types: %w", err)
	}
	var cs []CommandCard
	if err := yaml.Unmarshal(cards, &cs); err != nil {
		return nil, fmt.Errorf("failed to decode command cards: %w", err)
	}

	c := &Catalog{
		units:   make(map[string]UnitTemplate, len(us)),
		terrain: make(map[string]TerrainType, len(ts)),
		cards:   make(map[string]CommandCard, len(cs)),
	}
	for _, u := range us {
		if u.ID == "" {
			return nil, fmt.Errorf("unit template %q has no id", u.Name)
		}
		if _, dup := c.units[u.ID]; dup {
			return nil, fmt.Errorf("duplicate unit template %q", u.ID)
		}
		if u.HP <= 0 {
			return nil, fmt.Errorf("unit template %q must have positive hp", u.ID)
		}
		c.units[u.ID] = u
		c.unitOrder = append(c.unitOrder, u.ID)
	}
	for _, t := range ts {
		if _, dup := c.terrain[t.ID]; dup {
			return nil, fmt.Errorf("duplicate terrain type %q", t.ID)
		}
		c.terrain[t.ID] = t
	}
	for _, card := range cs {
		if _, dup := c.cards[card.ID]; dup {
			return nil, fmt.Errorf("duplicate command card %q", card.ID)
		}
		c.cards[card.ID] = card
		c.cardOrder = append(c.cardOrder, card.ID)
	}
	return c, nil
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	read := func(name string) []byte {
		b, err := catalogData.ReadFile("data/" + name)
		if err != nil {
			panic(fmt.Sprintf("missing embedded catalog %s: %v", name, err))
		}
		return b
	}
	c, err := LoadCatalog(read("units.yaml"), read("terrain.yaml"), read("cards.yaml"))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded catalog: %v", err))
	}
	return c
}

func (c *Catalog) Unit(id string) (UnitTemplate, bool) {
	t, ok := c.units[id]
	return t, ok
}

// Units returns every template in catalog order.
func (c *Catalog) Units() []UnitTemplate {
	out := make([]UnitTemplate, 0, len(c.unitOrder))
	for _, id := range c.unitOrder {
		out = append(out, c.units[id])
	}
	return out
}

// Terrain looks up a terrain type. Unknown ids report false and callers
// fall back to zero modifiers.
func (c *Catalog) Terrain(id string) (TerrainType, bool) {
	t, ok := c.terrain[id]
	return t, ok
}

func (c *Catalog) Card(id string) (CommandCard, bool) {
	card, ok := c.cards[id]
	return card, ok
}

// Cards returns every command card in catalog order.
func (c *Catalog) Cards() []CommandCard {
	out := make([]CommandCard, 0, len(c.cardOrder))
	for _, id := range c.cardOrder {
		out = append(out, c.cards[id])
	}
	return out
}
