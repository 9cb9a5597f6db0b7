// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"encoding/json"
	"reflect"
	"strings"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/template"
)

// evalCondition resolves a step condition against the snapshot. The resolved
// value must be a boolean; anything else is a ConditionTypeError.
func evalCondition(r *template.Resolver, condition string, snapshot map[string]any) (bool, *StepError) {
	value, err := r.Resolve(condition, snapshot)
	if err != nil {
		return false, templateError(err)
	}
	result, ok := value.(bool)
	if !ok {
		return false, newStepError(ErrCodeConditionType,
			"condition %q resolved to %T, want boolean", condition, value)
	}
	return result, nil
}

// evalSwitch resolves the switch value and returns the task reference of the
// first matching case in declaration order, falling back to the default.
// Strings compare case-insensitively; everything else uses deep JSON
// equality.
func evalSwitch(r *template.Resolver, sw *workflowv1.SwitchSpec, snapshot map[string]any) (string, *StepError) {
	value, err := r.Resolve(sw.Value, snapshot)
	if err != nil {
		return "", templateError(err)
	}

	for _, c := range sw.Cases {
		if c.Match == nil || len(c.Match.Raw) == 0 {
			continue
		}
		var match any
		if jsonErr := json.Unmarshal(c.Match.Raw, &match); jsonErr != nil {
			// Non-JSON match literals compare as raw strings.
			match = string(c.Match.Raw)
		}
		// Match literals may themselves be templates referencing prior
		// outputs; the graph builder already tracks those as dependencies.
		match, err = r.ResolveValue(match, snapshot)
		if err != nil {
			return "", templateError(err)
		}
		if switchValuesEqual(value, match) {
			return c.TaskRef, nil
		}
	}

	if sw.Default != nil {
		return sw.Default.TaskRef, nil
	}
	return "", newStepError(ErrCodeSwitchNoMatch,
		"switch value %v matched no case and no default is declared", value)
}

func switchValuesEqual(value, match any) bool {
	vs, vok := value.(string)
	ms, mok := match.(string)
	if vok && mok {
		return strings.EqualFold(vs, ms)
	}
	return reflect.DeepEqual(value, match)
}

// resolveItems resolves a forEach items expression to a list.
func resolveItems(r *template.Resolver, items string, snapshot map[string]any) ([]any, *StepError) {
	value, err := r.Resolve(items, snapshot)
	if err != nil {
		return nil, templateError(err)
	}
	list, ok := value.([]any)
	if !ok {
		return nil, newStepError(ErrCodeForEachItemsNotArray,
			"forEach items %q resolved to %T, want array", items, value)
	}
	return list, nil
}
