package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ludo-technologies/xcprof/internal/constants"
	"github.com/ludo-technologies/xcprof/internal/version"
	"github.com/ludo-technologies/xcprof/service"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		// Report exit codes carry their own message (or none, when the
		// output already explains the failure)
		var exitErr *CheckExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "xcprof - Swift compile time reporter for code review",
		Long: `xcprof runs a Swift compilation profiler over an Xcode build and reports
methods whose type-checking time crosses warn/fail thresholds, either as
inline review annotations or as a single summary comment.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case constants.OutputFormatJSON:
				return service.WriteJSON(out, version.Info())
			case constants.OutputFormatYAML:
				return service.WriteYAML(out, version.Info())
			case constants.OutputFormatText, "":
			default:
				return fmt.Errorf("unsupported format %q", format)
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(out, version.GetFullVersion())
			} else {
				fmt.Fprintf(out, "%s version %s\n", constants.ToolName, version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().StringP("format", "f", constants.OutputFormatText, "Output format: text, json, yaml")
	return cmd
}
