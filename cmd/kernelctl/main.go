// Command kernelctl drives the buddy allocator and the scheduler dispatcher
// outside of a kernel build, for demonstration and manual exercise of both
// subsystems. Grounded on the cobra+pflag root-command convention every
// kubernetes-kubernetes cmd/ binary follows (SPEC_FULL.md §10.3).
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"daybreak/internal/trust"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	goFlagSet := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(goFlagSet)

	root := &cobra.Command{
		Use:   "kernelctl",
		Short: "Drive the buddy allocator and scheduler dispatcher from the command line",
	}
	root.PersistentFlags().AddGoFlagSet(goFlagSet)
	root.PersistentFlags().String("log-mask", "all", "trust log mask: all, quiet, or a comma list of error,warn,info,debug,stats")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		mask, err := cmd.Flags().GetString("log-mask")
		if err != nil {
			return err
		}
		return applyLogMask(mask)
	}

	root.AddCommand(newAllocCommand())
	root.AddCommand(newSchedCommand())
	return root
}

func applyLogMask(mask string) error {
	switch mask {
	case "all":
		trust.SetLevel(trust.ErrorMask | trust.WarnMask | trust.InfoMask | trust.DebugMask | trust.StatsMask)
	case "quiet":
		trust.SetLevel(trust.ErrorMask)
	default:
		trust.SetLevel(trust.ErrorMask | trust.WarnMask | trust.InfoMask)
	}
	return nil
}
