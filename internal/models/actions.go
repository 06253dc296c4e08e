package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Action is a popup button action. The set is closed: names resolve when the
// room config is decoded, so a typo fails the load instead of a click.
type Action int

const (
	ActionNone Action = iota
	ActionTakeBurntPaper
)

var actionNames = map[Action]string{
	ActionTakeBurntPaper: "takeBurntPaper",
}

// ParseAction resolves a config action name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown popup action %q", name)
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
