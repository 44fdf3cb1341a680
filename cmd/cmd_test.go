// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hopscope/pkg/config"
	"github.com/telekom/hopscope/pkg/report"
	"github.com/telekom/hopscope/pkg/session"
)

func TestBuildCmd(t *testing.T) {
	root := BuildCmd("v0.0.1")
	assert.Equal(t, "v0.0.1", root.Version)

	for _, name := range []string{"run", "trace"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
		for _, f := range []string{flagDestinations.name, flagMode.name, flagOutput.name, flagRetries.name} {
			assert.NotNil(t, sub.Flags().Lookup(f), "%s is missing flag %s", name, f)
		}
	}

	run, _, _ := root.Find([]string{"run"})
	assert.NotNil(t, run.Flags().Lookup(flagAPIAddress.name))
	trace, _, _ := root.Find([]string{"trace"})
	assert.Nil(t, trace.Flags().Lookup(flagAPIAddress.name), "the trace command never serves the api")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		want    func(*config.Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			values: map[string]any{},
			want: func(c *config.Config) {
				assert.Equal(t, session.DefaultDestinations, c.Destinations)
				assert.Equal(t, config.DefaultInterval, c.Interval)
				assert.Equal(t, config.ProbeModeExec, c.Probe.Mode)
				assert.Equal(t, report.FormatTable, c.Output.Format)
			},
		},
		{
			name: "destinations with groups from a flag",
			values: map[string]any{
				"destinations":      []string{"bbc.co.uk", "cdn=example.com"},
				"probe.retry.count": 2,
				"probe.retry.delay": "1s",
				"output.format":     "json",
			},
			want: func(c *config.Config) {
				want := []session.Destination{{Address: "bbc.co.uk"}, {Address: "example.com", Group: "cdn"}}
				if diff := cmp.Diff(want, c.Destinations); diff != "" {
					t.Errorf("destinations mismatch (-want +got):\n%s", diff)
				}
				assert.Equal(t, 2, c.Probe.Retry.Count)
				assert.Equal(t, time.Second, c.Probe.Retry.Delay)
				assert.Equal(t, report.FormatJSON, c.Output.Format)
			},
		},
		{
			name:    "invalid probe mode",
			values:  map[string]any{"probe.mode": "udp"},
			wantErr: true,
		},
		{
			name:    "invalid output format",
			values:  map[string]any{"output.format": "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set(flagName.key, "hopscope-test")
			for k, v := range tt.values {
				viper.Set(k, v)
			}

			cfg, err := loadConfig(t.Context())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.want(cfg)
		})
	}
}
