// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/telekom/hopscope/pkg/session"
)

// StringToDestinationHookFunc decodes plain strings into destinations.
// "example.com" becomes an ungrouped destination and "cdn=example.com"
// a destination of the group cdn.
func StringToDestinationHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(session.Destination{}) {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if group, addr, ok := strings.Cut(s, "="); ok {
			return session.Destination{Address: strings.TrimSpace(addr), Group: strings.TrimSpace(group)}, nil
		}
		return session.Destination{Address: s}, nil
	}
}

// DecodeHook is the decode hook used to unmarshal the configuration.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		StringToDestinationHookFunc(),
	)
}
