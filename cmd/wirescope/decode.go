package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wirescope/wirescope"
	"github.com/wirescope/wirescope/schema"
)

func newDecodeCommand() *cobra.Command {
	var (
		fieldsPath  string
		schemaPath  string
		messageName string
		details     bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode protobuf wire bytes to JSON or YAML",
		Long: `Decode protobuf wire bytes. Without --fields or --schema the decode is
schema-less: fields surface as "field_<N>" with heuristic typing, and
--details lists every plausible typed interpretation per field.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			raw, err := readSource(path)
			if err != nil {
				return err
			}
			data, err := decodeBytes(raw, flagByteFormat)
			if err != nil {
				return fmt.Errorf("failed to decode input bytes: %w", err)
			}
			log.Debug().Int("bytes", len(data)).Msg("input ready")

			ws := wirescope.New(wirescope.WithLimits(limitsFromFlags()))

			var result interface{}
			switch {
			case schemaPath != "":
				if messageName == "" {
					return fmt.Errorf("--message is required with --schema")
				}
				if err := ws.LoadSchema(schemaPath); err != nil {
					return err
				}
				result, err = ws.UnmarshalWithSchema(data, messageName)
			case fieldsPath != "":
				fields, ferr := loadFieldTable(fieldsPath)
				if ferr != nil {
					return ferr
				}
				result, err = ws.DecodeWithFieldTable(data, fields)
			case details:
				result, err = ws.DecodeWithDetails(data)
			default:
				result, err = ws.DecodeWithoutSchema(data)
			}
			if err != nil {
				return err
			}

			out, err := renderValue(result, flagOutputFormat)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "path to a JSON or YAML field table")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a .proto file or directory")
	cmd.Flags().StringVar(&messageName, "message", "", "message type name (with --schema)")
	cmd.Flags().BoolVar(&details, "details", false, "list every plausible interpretation per field")
	return cmd
}

// loadFieldTable reads a field table from a JSON or YAML file.
func loadFieldTable(path string) ([]*schema.Field, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fields []*schema.Field
	if jerr := json.Unmarshal(text, &fields); jerr != nil {
		if yerr := yaml.Unmarshal(text, &fields); yerr != nil {
			return nil, fmt.Errorf("field table is neither valid JSON nor YAML: %w", yerr)
		}
	}
	if err := schema.ValidateTable(fields); err != nil {
		return nil, fmt.Errorf("invalid field table: %w", err)
	}
	return fields, nil
}
