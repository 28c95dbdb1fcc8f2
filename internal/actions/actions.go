// Package actions catalogs the requests a user can fire from the dashboard:
// the path template, the inputs it needs and the sub-control that gates it.
package actions

import (
	"errors"
	"fmt"
	"strings"
)

// Scope says where an action is offered.
type Scope string

const (
	ScopeController Scope = "controller"
	ScopeNode       Scope = "node"
)

// SliderAction is committed by the slider instead of a key.
const SliderAction = "multilevel_switch"

// Arg is one input appended to the path, in order.
type Arg struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Default string `json:"default,omitempty"`
}

// Action is one user-triggered request.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Key     string `json:"key"`
	Path    string `json:"path"`
	Args    []Arg  `json:"args,omitempty"`
	Control string `json:"control,omitempty"`
	Scope   Scope  `json:"scope"`
	// Row actions are also offered on the all-nodes rows.
	Row bool `json:"row,omitempty"`
}

// NeedsInput reports whether the action prompts before firing.
func (a Action) NeedsInput() bool {
	return len(a.Args) > 0
}

// Validate checks the fields every action needs.
func (a Action) Validate() error {
	var errs []error
	if strings.TrimSpace(a.ID) == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if !strings.HasPrefix(a.Path, "/") {
		errs = append(errs, fmt.Errorf("path %q must start with /", a.Path))
	}
	if a.Scope != ScopeController && a.Scope != ScopeNode {
		errs = append(errs, fmt.Errorf("unknown scope %q", a.Scope))
	}
	for i, arg := range a.Args {
		if strings.TrimSpace(arg.Name) == "" {
			errs = append(errs, fmt.Errorf("arg %d: missing name", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("action %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

func nodeAction(id, label, key, path string, args ...Arg) Action {
	return Action{ID: id, Label: label, Key: key, Path: "/node/<CURRENT>/" + path, Args: args, Scope: ScopeNode}
}

func controllerAction(id, label, key string) Action {
	return Action{ID: id, Label: label, Key: key, Path: "/controller/" + id, Scope: ScopeController}
}

// Defaults returns the built-in catalog in display order.
func Defaults() []Action {
	ping := nodeAction("ping", "Ping Node", "p", "ping")
	ping.Row = true
	off := nodeAction("switch_off", "Off", "o", "binary_switch/0")
	off.Control, off.Row = "node_switch_off", true
	on := nodeAction("switch_on", "On", "O", "binary_switch/99")
	on.Control, on.Row = "node_switch_on", true
	level := nodeAction(SliderAction, "Set Level", "v", "multilevel_switch/",
		Arg{Name: "node_slide", Label: "level (0-100)", Default: "0"})
	level.Control, level.Row = "node_slide", true
	scenes := nodeAction("refresh_scenes", "Probe Scenes", "e", "refresh_scenes")
	scenes.Control = "node_scene_refresh"

	return []Action{
		controllerAction("refresh", "Refresh", "r"),
		controllerAction("soft_reset", "Soft Reset", "S"),
		controllerAction("hard_reset", "Hard Reset", "H"),
		controllerAction("add_node", "Add Node", "a"),
		controllerAction("stop_add_node", "Stop Add Node", "A"),
		controllerAction("remove_node", "Remove Node", "x"),
		controllerAction("stop_remove_node", "Stop Remove Node", "X"),
		controllerAction("add_controller_primary", "Add Primary Controller", "P"),
		controllerAction("set_learn_mode", "Enter Learn Mode", "l"),
		controllerAction("stop_set_learn_mode", "Leave Learn Mode", "L"),

		ping,
		off,
		on,
		level,
		nodeAction("refresh_dynamic", "Refresh Dynamic", "d", "refresh_dynamic"),
		nodeAction("refresh_semistatic", "Refresh Semi Static", "s", "refresh_semistatic"),
		nodeAction("refresh_static", "Refresh Static", "t", "refresh_static"),
		nodeAction("refresh_commands", "Probe Command", "c", "refresh_commands"),
		nodeAction("refresh_parameters", "Probe Configuration", "g", "refresh_parameters"),
		scenes,
		nodeAction("set_name", "Change Node Name", "n", "set_name/",
			Arg{Name: "node_name", Label: "name"}),
		nodeAction("change_parameter", "Change Config Param", "C", "change_parameter/",
			Arg{Name: "config_num", Label: "no", Default: "0"},
			Arg{Name: "config_size", Label: "size (1, 2, 4)", Default: "1"},
			Arg{Name: "config_value", Label: "value", Default: "0"}),
		nodeAction("change_scene", "Change Scene Config", "E", "change_scene/",
			Arg{Name: "scene_num", Label: "no", Default: "1"},
			Arg{Name: "scene_level", Label: "level", Default: "0"},
			Arg{Name: "scene_delay", Label: "delay", Default: "0"},
			Arg{Name: "scene_extra", Label: "extra (128 on, 0 off)", Default: "128"}),
		nodeAction("association_remove", "Remove Association", "R", "association_remove/",
			Arg{Name: "assoc_group", Label: "group", Default: "1"},
			Arg{Name: "assoc_node", Label: "node", Default: "0"}),
		nodeAction("association_add", "Add Association", "I", "association_add/",
			Arg{Name: "assoc_group", Label: "group", Default: "1"},
			Arg{Name: "assoc_node", Label: "node", Default: "0"}),
	}
}
