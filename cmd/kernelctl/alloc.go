package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"daybreak/internal/upbeat"
)

func newAllocCommand() *cobra.Command {
	var maxOrder, pages, low, high int
	var ops []string

	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Drive a buddy instance through a scripted alloc/free/cached-alloc/cached-free sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := upbeat.NewBuddyInstanceWithWatermarks("kernelctl", pages, maxOrder, low, high)
			if err != nil {
				return err
			}
			fmt.Println(b.String())

			held := map[string]upbeat.Index{}
			for _, op := range ops {
				if err := runAllocOp(b, held, op); err != nil {
					return err
				}
				fmt.Println(b.String())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxOrder, "max-order", upbeat.MaxOrderDefault, "number of free-lists (orders [0,max-order))")
	cmd.Flags().IntVar(&pages, "pages", 1<<uint(upbeat.MaxOrderDefault-1), "total page count, must be a multiple of the max-order block size")
	cmd.Flags().IntVar(&low, "low", upbeat.CacheLowDefault, "cache low watermark")
	cmd.Flags().IntVar(&high, "high", upbeat.CacheHighDefault, "cache high watermark")
	cmd.Flags().StringSliceVar(&ops, "op", nil, "operation to run, repeatable: alloc:<order>:<tag>, free:<tag>, cached-alloc:<tag>, cached-free:<tag>")
	return cmd
}

func runAllocOp(b *upbeat.BuddyInstance, held map[string]upbeat.Index, op string) error {
	var order int
	var tag string
	switch {
	case scanOp(op, "alloc", &order, &tag):
		idx, err := b.Alloc(order)
		if err != nil {
			return err
		}
		held[tag] = idx
	case scanTagOp(op, "free", &tag):
		idx, ok := held[tag]
		if !ok {
			return fmt.Errorf("kernelctl: no held block tagged %q", tag)
		}
		if err := b.Free(idx); err != nil {
			return err
		}
		delete(held, tag)
	case scanTagOp(op, "cached-alloc", &tag):
		idx, err := b.CachedAlloc()
		if err != nil {
			return err
		}
		held[tag] = idx
	case scanTagOp(op, "cached-free", &tag):
		idx, ok := held[tag]
		if !ok {
			return fmt.Errorf("kernelctl: no held block tagged %q", tag)
		}
		if err := b.CachedFree(idx); err != nil {
			return err
		}
		delete(held, tag)
	default:
		return fmt.Errorf("kernelctl: unrecognized op %q", op)
	}
	return nil
}

func scanOp(op, verb string, order *int, tag *string) bool {
	n, err := fmt.Sscanf(op, verb+":%d:%s", order, tag)
	return err == nil && n == 2
}

func scanTagOp(op, verb string, tag *string) bool {
	n, err := fmt.Sscanf(op, verb+":%s", tag)
	return err == nil && n == 1
}
