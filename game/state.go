package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

type PlayerID string

const (
	Player1 PlayerID = "player1"
	Player2 PlayerID = "player2"
)

// PlayerIDs lists the seats in turn order.
var PlayerIDs = [2]PlayerID{Player1, Player2}

func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

type Phase int

const (
	ArmyBuildingPhase Phase = iota
	DeploymentPhase
	BattlePhase
	SkirmishEndPhase
	MatchEndPhase
)

func (p Phase) String() string {
	switch p {
	case ArmyBuildingPhase:
		return "army-building"
	case DeploymentPhase:
		return "deployment"
	case BattlePhase:
		return "battle"
	case SkirmishEndPhase:
		return "skirmish-end"
	case MatchEndPhase:
		return "match-end"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// phaseTransitions is the complete phase graph. SkirmishEndPhase is only
// entered in best-of-three matches.
var phaseTransitions = map[Phase][]Phase{
	ArmyBuildingPhase: {DeploymentPhase},
	DeploymentPhase:   {BattlePhase},
	BattlePhase:       {SkirmishEndPhase, MatchEndPhase},
	SkirmishEndPhase:  {DeploymentPhase, MatchEndPhase},
	MatchEndPhase:     {},
}

func (p Phase) CanTransitionTo(next Phase) bool {
	for _, allowed := range phaseTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Placement is where a unit is: exactly one of reserve, board, or dead.
type Placement int

const (
	InReserve Placement = iota
	Deployed
	Dead
)

func (p Placement) String() string {
	switch p {
	case InReserve:
		return "reserve"
	case Deployed:
		return "deployed"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type Unit struct {
	ID           string      `json:"id"`
	TemplateID   string      `json:"templateId"`
	PlayerID     PlayerID    `json:"playerId"`
	CurrentHP    int         `json:"currentHp"`
	Position     HexPosition `json:"position"` // Meaningful only while Deployed; omitted from JSON otherwise
	Placement    Placement   `json:"placement"`
	MoraleTokens int         `json:"moraleTokens"`
	Activated    bool        `json:"activated"`
	InSupply     bool        `json:"inSupply"`
}

func (u Unit) Alive() bool {
	return u.CurrentHP > 0 && u.Placement != Dead
}

// OnBoard reports whether the unit occupies its hex.
func (u Unit) OnBoard() bool {
	return u.Placement == Deployed && u.CurrentHP > 0
}

type unitFields Unit

// MarshalJSON writes the position only for deployed units, so reserve and
// dead units never look like they stand on hex 0,0.
func (u Unit) MarshalJSON() ([]byte, error) {
	out := struct {
		unitFields
		Position *HexPosition `json:"position,omitempty"`
	}{unitFields: unitFields(u)}
	if u.Placement == Deployed {
		out.Position = &u.Position
	}
	return json.Marshal(out)
}

type Player struct {
	ID            PlayerID `json:"id"`
	Name          string   `json:"name"`
	CP            int      `json:"cp"`
	ArmyList      []string `json:"armyList"` // Template ids in build order
	Hand          []string `json:"hand"`     // Command card ids
	DeployedUnits int      `json:"deployedUnits"`
	MaxDeployment int      `json:"maxDeployment"`
}

// Modifier is a numeric bonus granted by a command card until end of turn.
type Modifier string

const (
	ModAttack        Modifier = "attack"
	ModFlankAttack   Modifier = "flank_attack"
	ModDefense       Modifier = "defense"
	ModRangedDefense Modifier = "ranged_defense"
	ModMovement      Modifier = "movement"
	ModExtraAttack   Modifier = "extra_attack"
)

type Modifiers map[Modifier]int

// GameState is a snapshot of a match. Operations never mutate a snapshot
// they were given; they return a new one built from Copy.
type GameState struct {
	Phase                Phase                  `json:"phase"`
	CurrentPlayer        PlayerID               `json:"currentPlayer"`
	Turn                 int                    `json:"turn"`
	ActivationsRemaining int                    `json:"activationsRemaining"`
	Board                Board                  `json:"board"`
	Terrain              map[HexPosition]string `json:"terrain"` // Absent hexes are plain
	Units                map[string]Unit        `json:"units"`
	CombatLog            []CombatResult         `json:"combatLog"`
	Players              map[PlayerID]Player    `json:"players"`
	Effects              map[string]Modifiers   `json:"effects"` // Card modifiers by unit id, cleared at end of turn
	Skirmish             int                    `json:"skirmish"`
	MatchScore           map[PlayerID]int       `json:"matchScore"`
	Winner               PlayerID               `json:"winner,omitempty"`
	WinReason            string                 `json:"winReason,omitempty"`
}

// NewGameState returns a match in army building with the default terrain.
func NewGameState(rules Rules) *GameState {
	board := rules.BoardSize()
	gs := &GameState{
		Phase:                ArmyBuildingPhase,
		CurrentPlayer:        Player1,
		Turn:                 1,
		ActivationsRemaining: rules.ActivationsPerTurn(),
		Board:                board,
		Terrain:              DefaultTerrain(board),
		Units:                make(map[string]Unit),
		Players:              make(map[PlayerID]Player, len(PlayerIDs)),
		Effects:              make(map[string]Modifiers),
		Skirmish:             1,
		MatchScore:           make(map[PlayerID]int, len(PlayerIDs)),
	}
	for i, id := range PlayerIDs {
		gs.Players[id] = Player{
			ID:            id,
			Name:          fmt.Sprintf("Player %d", i+1),
			CP:            rules.CPPerTurn(),
			ArmyList:      []string{},
			Hand:          []string{},
			MaxDeployment: rules.MaxDeployment(),
		}
		gs.MatchScore[id] = 0
	}
	return gs
}

// DefaultTerrain places a central hill, four forests and a pair of supply
// camps in front of each deployment zone.
func DefaultTerrain(b Board) map[HexPosition]string {
	terrain := make(map[HexPosition]string)
	set := func(p HexPosition, id string) {
		if b.Contains(p) {
			terrain[p] = id
		}
	}
	set(Hex(b.Width/2, b.Height/2), TerrainHill)
	set(Hex(2, 2), TerrainForest)
	set(Hex(b.Width-3, b.Height-3), TerrainForest)
	set(Hex(b.Width-3, 2), TerrainForest)
	set(Hex(2, b.Height-3), TerrainForest)
	for _, q := range []int{b.Width / 4, b.Width * 3 / 4} {
		set(Hex(q, 1), TerrainSupplyCamp)
		set(Hex(q, b.Height-2), TerrainSupplyCamp)
	}
	return terrain
}

func (gs *GameState) Copy() *GameState {
	cp := *gs

	cp.Terrain = make(map[HexPosition]string, len(gs.Terrain))
	for k, v := range gs.Terrain {
		cp.Terrain[k] = v
	}

	cp.Units = make(map[string]Unit, len(gs.Units))
	for k, v := range gs.Units {
		cp.Units[k] = v
	}

	// Results are never edited after they are logged.
	cp.CombatLog = slices.Clone(gs.CombatLog)

	cp.Players = make(map[PlayerID]Player, len(gs.Players))
	for k, p := range gs.Players {
		p.ArmyList = slices.Clone(p.ArmyList)
		p.Hand = slices.Clone(p.Hand)
		cp.Players[k] = p
	}

	cp.Effects = make(map[string]Modifiers, len(gs.Effects))
	for k, mods := range gs.Effects {
		m := make(Modifiers, len(mods))
		for mk, mv := range mods {
			m[mk] = mv
		}
		cp.Effects[k] = m
	}

	cp.MatchScore = make(map[PlayerID]int, len(gs.MatchScore))
	for k, v := range gs.MatchScore {
		cp.MatchScore[k] = v
	}
	return &cp
}

// TerrainAt returns the terrain id of a hex, plain when none is set.
func (gs *GameState) TerrainAt(p HexPosition) string {
	if id, ok := gs.Terrain[p]; ok && id != "" {
		return id
	}
	return TerrainPlain
}

// UnitIDs returns every unit id in sorted order. Anything that rolls dice
// per unit iterates in this order so a seed replays the same match.
func (gs *GameState) UnitIDs() []string {
	ids := make([]string, 0, len(gs.Units))
	for id := range gs.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PlayerUnits returns the player's units sorted by id.
func (gs *GameState) PlayerUnits(player PlayerID) []Unit {
	var out []Unit
	for _, id := range gs.UnitIDs() {
		if u := gs.Units[id]; u.PlayerID == player {
			out = append(out, u)
		}
	}
	return out
}

// UnitAt returns the living unit occupying p.
func (gs *GameState) UnitAt(p HexPosition) (Unit, bool) {
	for _, u := range gs.Units {
		if u.OnBoard() && u.Position == p {
			return u, true
		}
	}
	return Unit{}, false
}

func (gs *GameState) occupancy() map[HexPosition]Unit {
	occ := make(map[HexPosition]Unit, len(gs.Units))
	for _, u := range gs.Units {
		if u.OnBoard() {
			occ[u.Position] = u
		}
	}
	return occ
}

func (gs *GameState) effect(unitID string, m Modifier) int {
	return gs.Effects[unitID][m]
}

func (gs *GameState) addEffect(unitID string, m Modifier, v int) {
	mods, ok := gs.Effects[unitID]
	if !ok {
		mods = make(Modifiers)
		gs.Effects[unitID] = mods
	}
	mods[m] += v
}

func (gs *GameState) clearEffect(unitID string, m Modifier) {
	if mods, ok := gs.Effects[unitID]; ok {
		delete(mods, m)
		if len(mods) == 0 {
			delete(gs.Effects, unitID)
		}
	}
}

// recountDeployed refreshes each player's count of living deployed units.
func (gs *GameState) recountDeployed() {
	counts := make(map[PlayerID]int, len(PlayerIDs))
	for _, u := range gs.Units {
		if u.OnBoard() {
			counts[u.PlayerID]++
		}
	}
	for id, p := range gs.Players {
		p.DeployedUnits = counts[id]
		gs.Players[id] = p
	}
}

// InDeploymentZone reports whether p lies in the rows nearest player's edge.
func (gs *GameState) InDeploymentZone(player PlayerID, p HexPosition, rows int) bool {
	if !gs.Board.Contains(p) {
		return false
	}
	if player == Player1 {
		return p.R < rows
	}
	return p.R >= gs.Board.Height-rows
}

// DeploymentZone lists the player's deployment hexes.
func (gs *GameState) DeploymentZone(player PlayerID, rows int) []HexPosition {
	var zone []HexPosition
	for _, p := range gs.Board.Positions() {
		if gs.InDeploymentZone(player, p, rows) {
			zone = append(zone, p)
		}
	}
	return zone
}
