// Command wirescope inspects, decodes and encodes protobuf wire data from
// the terminal: schema-less inspection, field-table driven conversion, .proto
// schema support and .proto text generation.
package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log zerolog.Logger

	flagByteFormat   string
	flagOutputFormat string
	flagMaxDepth     int
	flagMaxBuffer    int
	flagVerbose      bool
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wirescope",
		Short:         "Inspect, decode and encode protobuf wire data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if viper.GetBool("verbose") {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagByteFormat, "bytes", "hex", "encoding of wire bytes on stdin/stdout: hex, base64, base64url or raw")
	pf.StringVar(&flagOutputFormat, "out", "json", "output text format: json or yaml")
	pf.IntVar(&flagMaxDepth, "max-depth", 0, "max embedded-message nesting depth (0 = default)")
	pf.IntVar(&flagMaxBuffer, "max-buffer", 0, "max input buffer size in bytes (0 = default)")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	viper.SetEnvPrefix("WIRESCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(pf)

	root.AddCommand(newDecodeCommand())
	root.AddCommand(newEncodeCommand())
	root.AddCommand(newGenProtoCommand())
	return root
}
