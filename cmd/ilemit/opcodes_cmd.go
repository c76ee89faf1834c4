package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/deepnoodle-ai/ilemit/internal/table"
	"github.com/deepnoodle-ai/ilemit/op"
)

func opcodesHandler(ctx *cli.Context) error {
	category := ctx.String("category")
	tbl := table.NewTable(os.Stdout).
		WithHeader([]string{"CODE", "NAME", "OPERAND", "CATEGORY", "STACK"}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight})
	for _, info := range op.All() {
		if category != "" && info.Category.String() != category {
			continue
		}
		tbl.Append([]string{
			fmt.Sprintf("0x%02X", uint8(info.Code)),
			info.Name,
			info.Operand.String(),
			info.Category.String(),
			stackEffect(info),
		})
	}
	if tbl.Rows() == 0 {
		return fmt.Errorf("no opcodes in category %q", category)
	}
	return tbl.Render()
}

func stackEffect(info op.Info) string {
	pop, push := strconv.Itoa(info.Pop), strconv.Itoa(info.Push)
	if info.Pop == op.Variable {
		pop = "n"
	}
	if info.Push == op.Variable {
		push = "n"
	}
	return "-" + pop + " +" + push
}
