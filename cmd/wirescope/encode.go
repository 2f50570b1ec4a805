package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wirescope/wirescope"
)

func newEncodeCommand() *cobra.Command {
	var (
		fieldsPath  string
		schemaPath  string
		messageName string
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a JSON or YAML object to protobuf wire bytes",
		Long: `Encode an object to protobuf wire bytes against a field table (--fields)
or a .proto schema (--schema with --message). 64-bit integer values may be
given as decimal strings to avoid precision loss.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readSource(path)
			if err != nil {
				return err
			}
			obj, err := parseObject(text)
			if err != nil {
				return err
			}

			ws := wirescope.New(wirescope.WithLimits(limitsFromFlags()))

			var data []byte
			switch {
			case schemaPath != "":
				if messageName == "" {
					return fmt.Errorf("--message is required with --schema")
				}
				if err := ws.LoadSchema(schemaPath); err != nil {
					return err
				}
				data, err = ws.MarshalWithSchema(obj, messageName)
			case fieldsPath != "":
				fields, ferr := loadFieldTable(fieldsPath)
				if ferr != nil {
					return ferr
				}
				data, err = ws.EncodeWithFieldTable(obj, fields)
			default:
				return fmt.Errorf("either --fields or --schema is required")
			}
			if err != nil {
				return err
			}

			log.Debug().Int("bytes", len(data)).Msg("encoded")
			return writeBytes(os.Stdout, data, flagByteFormat)
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "path to a JSON or YAML field table")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a .proto file or directory")
	cmd.Flags().StringVar(&messageName, "message", "", "message type name (with --schema)")
	return cmd
}
