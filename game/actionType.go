package game

import "fmt"

// ActionType is the kind of intent a GameMove carries.
type ActionType int

const (
	BuildArmyAction ActionType = iota
	DraftCardsAction
	StartDeploymentAction
	DeployAction
	UndeployAction
	AutoDeployAction
	PassDeploymentAction
	StartBattleAction
	MoveAction
	AttackAction
	ChargeAction
	BuildCampAction
	PlayCardAction
	EndTurnAction
	NextSkirmishAction
)

var actionNames = map[ActionType]string{
	BuildArmyAction:       "build_army",
	DraftCardsAction:      "draft_cards",
	StartDeploymentAction: "start_deployment",
	DeployAction:          "deploy",
	UndeployAction:        "undeploy",
	AutoDeployAction:      "auto_deploy",
	PassDeploymentAction:  "pass_deployment",
	StartBattleAction:     "start_battle",
	MoveAction:            "move",
	AttackAction:          "attack",
	ChargeAction:          "charge",
	BuildCampAction:       "build_camp",
	PlayCardAction:        "play_card",
	EndTurnAction:         "end_turn",
	NextSkirmishAction:    "next_skirmish",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
