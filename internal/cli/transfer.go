// Export and import commands for the mala CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mala/pkg/types"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the counter snapshot as JSON or YAML",
		Long:  "Write the counter snapshot. The JSON form uses the same field names as the browser counter's saved data, so it can be imported on either side.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			format = strings.ToLower(format)
			if format != formatJSON && format != formatYAML {
				return userErr(fmt.Errorf("unknown format %q (valid: json, yaml)", format))
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer a.release(sess, &err)

			data, err := encodeSnapshot(sess.Snapshot(), format)
			if err != nil {
				return sysErr(err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return sysErr(fmt.Errorf("write %s: %w", output, err))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the counter with a saved snapshot",
		Long:  "Replace the counter with a snapshot in JSON or YAML (chosen by file extension). Out-of-range values fall back to defaults.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return userErr(fmt.Errorf("read %s: %w", args[0], err))
			}
			snap, err := decodeSnapshotFile(args[0], data)
			if err != nil {
				return userErr(fmt.Errorf("parse %s: %w", args[0], err))
			}

			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer a.release(sess, &err)

			return a.report(cmd, sess.Import(snap), nil)
		},
	}
}

func encodeSnapshot(s types.Snapshot, format string) ([]byte, error) {
	if format == formatYAML {
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		return data, nil
	}
	data, err := s.Encode()
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeSnapshotFile decodes YAML for .yaml and .yml files and JSON
// otherwise. Missing fields keep their defaults.
func decodeSnapshotFile(path string, data []byte) (types.Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s := types.DefaultSnapshot()
		if err := yaml.Unmarshal(data, &s); err != nil {
			return types.Snapshot{}, err
		}
		return s, nil
	}
	return types.DecodeSnapshot(data)
}
