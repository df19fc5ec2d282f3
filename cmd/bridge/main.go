package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solstice-labs/bridge/config"
)

type contextKey string

const profileKey contextKey = "network-profile"

func wrapProfile(ctx context.Context, profile *config.NetworkProfile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

func unwrapProfile(ctx context.Context) *config.NetworkProfile {
	return ctx.Value(profileKey).(*config.NetworkProfile)
}

func CmdBridge() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bridge",
		Short:        "Build and track cross-chain bridge transfers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			configureLogger(verbosity)

			if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
				os.Setenv(config.ConfigEnv, configPath)
			}

			envRaw, _ := cmd.Flags().GetString("env")
			env, err := config.ParseEnvironment(envRaw)
			if err != nil {
				return err
			}
			profile, err := config.Resolve(env)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"environment": profile.Environment,
				"rpc":         profile.RPCURL,
			}).Debug("resolved network profile")

			cmd.SetContext(wrapProfile(cmd.Context(), profile))
			return nil
		},
	}
	cmd.PersistentFlags().String("env", "test", "Network environment (test, main)")
	cmd.PersistentFlags().String("config", "", "Path to a config.yaml overriding the built-in profiles")
	cmd.PersistentFlags().CountP("verbose", "v", "Set verbosity (-v, -vv)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	cmd.AddCommand(CmdQuote())
	cmd.AddCommand(CmdBuild())
	cmd.AddCommand(CmdStatus())
	cmd.AddCommand(CmdBalances())
	return cmd
}

func configureLogger(verbosity int) {
	level := logrus.WarnLevel
	switch {
	case verbosity == 1:
		level = logrus.InfoLevel
	case verbosity >= 2:
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
}

func main() {
	if err := CmdBridge().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
