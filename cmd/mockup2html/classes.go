package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Abraxas-365/mockup2html/markup"
)

func classesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print the element class to tag table",
		Run: func(cmd *cobra.Command, args []string) {
			printClasses(cmd, markup.DefaultMapping)
		},
	}
}

func printClasses(cmd *cobra.Command, m markup.Mapping) {
	head := color.New(color.Bold, color.Underline)
	class := color.New(color.FgCyan)
	kind := map[bool]*color.Color{true: color.New(color.FgYellow), false: color.New(color.FgGreen)}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  %s\n", head.Sprintf("%-14s", "CLASS"), head.Sprint("TAG"))
	for _, name := range m.Classes() {
		el, _ := m.Lookup(name)
		fmt.Fprintf(w, "%s  %s\n", class.Sprintf("%-14s", name), kind[el.SelfClosing || el.ImageLike].Sprint(el.Tag))
	}
}
