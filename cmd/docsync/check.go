package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docsync/internal/frontmatter"
	"docsync/internal/mdx"
)

func newCheckMDXCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-mdx",
		Short: "Compile-check every markup file in the content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgFile)
			if err != nil {
				return err
			}

			validator := mdx.NewValidator(logger)
			errs, err := validator.CheckTree(cfg.ContentDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range errs {
				fmt.Fprintf(out, "%s %s\n", paint(failStyle, "✗"), e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d MDX syntax error(s)", len(errs))
			}
			fmt.Fprintf(out, "%s all markup files compile\n", paint(okStyle, "✓"))
			return nil
		},
	}
}

func newCheckFrontmatterCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-frontmatter",
		Short: "Verify frontmatter headers carry the required fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			if len(cfg.Frontmatter.Required) == 0 {
				return errors.New("no required frontmatter fields configured")
			}

			checker := frontmatter.NewChecker(cfg.Frontmatter.Required, cfg.Frontmatter.Optional, logger)
			violations, err := checker.CheckTree(cfg.ContentDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, v := range violations {
				fmt.Fprintf(out, "%s %s\n", paint(failStyle, "✗"), v)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d frontmatter violation(s)", len(violations))
			}
			fmt.Fprintf(out, "%s all frontmatter headers are consistent\n", paint(okStyle, "✓"))
			return nil
		},
	}
}
