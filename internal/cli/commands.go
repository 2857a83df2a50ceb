package cli

import (
	"context"
	"fmt"

	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/acidv1"
	"github.com/ogurasousui/acid-suite/internal/core/buildinfo"
	"github.com/ogurasousui/acid-suite/internal/core/health"
	"github.com/ogurasousui/acid-suite/internal/core/hello"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

func helloCmd(opts *options) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Print the ACiD greeting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !remote {
				fmt.Fprintln(cmd.OutOrStdout(), hello.NewApp().Message())
				return nil
			}
			return opts.withClient(cmd.Context(), func(ctx context.Context, c api) error {
				msg, err := c.SayHello(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of answering locally")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ACiD Suite v%s\n", buildinfo.Version)
		},
	}
}

func infoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show pipeline information of the running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd.Context(), func(ctx context.Context, c api) error {
				info, err := c.GetBuildInfo(ctx)
				if err != nil {
					return err
				}
				f := info.GetFields()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, f["title"].GetStringValue())
				fmt.Fprintf(out, "Version:     %s\n", f["version"].GetStringValue())
				fmt.Fprintf(out, "Build:       #%s\n", f["build_number"].GetStringValue())
				fmt.Fprintf(out, "Environment: %s\n", f["environment"].GetStringValue())
				fmt.Fprintf(out, "Deployed:    %s\n", f["build_date"].GetStringValue())
				for _, s := range f["stages"].GetListValue().GetValues() {
					fmt.Fprintf(out, "  %s ✓\n", s.GetStringValue())
				}
				return nil
			})
		},
	}
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd.Context(), func(ctx context.Context, c api) error {
				report, err := c.GetSystemStatus(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				overall := health.State(report.GetFields()["overall"].GetStringValue())
				fmt.Fprintf(out, "%s overall: %s\n", overall.Icon(), overall)
				for _, v := range report.GetFields()["components"].GetListValue().GetValues() {
					f := v.GetStructValue().GetFields()
					line := fmt.Sprintf("%s %-9s %s", f["icon"].GetStringValue(), f["name"].GetStringValue(), f["state"].GetStringValue())
					if d := f["detail"].GetStringValue(); d != "" {
						line += " (" + d + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func counterCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Read or change a counter",
	}

	type op struct {
		use, short string
		call       func(api) func(context.Context, string) (*structpb.Struct, error)
	}

	ops := []op{
		{"get", "Show the current value", func(c api) func(context.Context, string) (*structpb.Struct, error) {
			return func(ctx context.Context, n string) (*structpb.Struct, error) { return c.GetCounter(ctx, n) }
		}},
		{"inc", "Increase by one", func(c api) func(context.Context, string) (*structpb.Struct, error) {
			return func(ctx context.Context, n string) (*structpb.Struct, error) { return c.IncreaseCounter(ctx, n) }
		}},
		{"dec", "Decrease by one", func(c api) func(context.Context, string) (*structpb.Struct, error) {
			return func(ctx context.Context, n string) (*structpb.Struct, error) { return c.DecreaseCounter(ctx, n) }
		}},
		{"reset", "Reset to zero", func(c api) func(context.Context, string) (*structpb.Struct, error) {
			return func(ctx context.Context, n string) (*structpb.Struct, error) { return c.ResetCounter(ctx, n) }
		}},
	}

	for _, o := range ops {
		cmd.AddCommand(&cobra.Command{
			Use:   o.use + " [name]",
			Short: o.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				return opts.withClient(cmd.Context(), func(ctx context.Context, c api) error {
					res, err := o.call(c)(ctx, name)
					if err != nil {
						return err
					}
					value, err := acidv1.CounterValue(res)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %d\n", res.GetFields()["name"].GetStringValue(), value)
					return nil
				})
			},
		})
	}

	return cmd
}
