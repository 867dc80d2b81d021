package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "sbarrt",
		Short:        "Anytime SBA*/RRT* motion planner",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newPlanCmd(opts), newCheckCmd())

	return cmd
}

// logger builds the command logger writing to w.
func (o *rootOptions) logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, errors.Wrap(err, "--log-level")
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	switch o.logFormat {
	case "text":
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("--log-format: unknown format %q", o.logFormat)
	}

	return l, nil
}
