package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/gutscore/internal/domain/body"
)

func newBMICmd() *cobra.Command {
	var weight, height float64
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Compute a BMI and its category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := body.Assess(weight, height)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "BMI %.1f  %s (%s)  %s\n",
				a.BMI, a.Band.Category, a.Band.ColorHex, a.Band.Description)
			return err
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg (required)")
	cmd.Flags().Float64Var(&height, "height", 0, "height in cm (required)")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newAgeCmd(c *cli) *cobra.Command {
	var birth, asOf string
	cmd := &cobra.Command{
		Use:   "age",
		Short: "Compute age in whole years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := c.cfg.Location()
			b, err := parseDate("birth", birth, loc)
			if err != nil {
				return err
			}
			at, err := parseDate("as-of", asOf, loc)
			if err != nil {
				return err
			}
			years, err := body.AgeYears(b, at)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), years)
			return err
		},
	}
	cmd.Flags().StringVar(&birth, "birth", "", "birth date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("birth")
	return cmd
}
