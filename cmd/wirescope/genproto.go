package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wirescope/wirescope"
	"github.com/wirescope/wirescope/protogen"
)

func newGenProtoCommand() *cobra.Command {
	var (
		messageName string
		fromObject  bool
	)

	cmd := &cobra.Command{
		Use:   "gen-proto [file]",
		Short: "Generate a plausible .proto definition",
		Long: `Generate a plausible .proto definition, either from protobuf wire bytes
(field types are inferred heuristically) or, with --from-object, from a JSON
or YAML object.`,
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

			if fromObject {
				obj, err := parseObject(raw)
				if err != nil {
					return err
				}
				fmt.Print(protogen.FromObject(messageName, obj))
				return nil
			}

			data, err := decodeBytes(raw, flagByteFormat)
			if err != nil {
				return fmt.Errorf("failed to decode input bytes: %w", err)
			}
			ws := wirescope.New(wirescope.WithLimits(limitsFromFlags()))
			fields, err := ws.DecodeWithDetails(data)
			if err != nil {
				return err
			}
			fmt.Print(protogen.FromFields(messageName, fields))
			return nil
		},
	}

	cmd.Flags().StringVar(&messageName, "name", "Generated", "name for the generated message")
	cmd.Flags().BoolVar(&fromObject, "from-object", false, "treat input as a JSON/YAML object instead of wire bytes")
	return cmd
}
